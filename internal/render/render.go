// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ostafen/raidplan/internal/raid"
)

// unitSectors is the number of sectors in a striping unit, the width of a
// disk cell.
func unitSectors(a raid.DiskArray) int {
	return int(a.StripingUnit / raid.SectorSize)
}

// fillScope marks the sectors of scope with 'x' in a cell of blanks.
func fillScope(cell []byte, scope raid.UnitScope) {
	first := int(scope.Offset / raid.SectorSize)
	for i := 0; i < int(scope.Length/raid.SectorSize); i++ {
		cell[first+i] = 'x'
	}
}

// ScopeLine renders scope groups for a stripe request as one cell per disk, in
// disk order, followed by the byte count they add up to.
func ScopeLine(a raid.DiskArray, stripe uint64, l raid.Layout, g raid.ScopeGroups) string {
	us := unitSectors(a)

	// Cells in logical unit order, parity last.
	cells := make([][]byte, a.Disks())
	for i := range cells {
		cells[i] = bytes.Repeat([]byte{' '}, us)
	}

	for unit := uint32(0); unit < a.DataDisks; unit++ {
		switch {
		case unit == l.FirstUnit:
			fillScope(cells[unit], g.First)
		case unit == l.FinalUnit():
			fillScope(cells[unit], g.Final)
		case l.Contains(unit):
			// Only reconstruct-read gives an interior scope while one of
			// the interior units is faulty.
			if l.Fault.Kind == raid.RequestFault && l.Fault.Unit == unit {
				continue
			}
			fillScope(cells[unit], g.Other)
		default:
			fillScope(cells[unit], g.OffRequest)
		}
	}
	fillScope(cells[a.DataDisks], g.Parity)

	var sb strings.Builder
	for disk := uint32(0); disk <= a.DataDisks; disk++ {
		sb.WriteByte('|')
		sb.Write(cells[a.UnitForDisk(disk, stripe)])
	}
	fmt.Fprintf(&sb, "| %d bytes", l.Cost(g))
	return sb.String()
}

// headerLine draws the request area of one stripe request with the parity
// disk left blank, in disk order.
func headerLine(a raid.DiskArray, sr raid.StripeRequest, symbol byte, st Styler) string {
	us := unitSectors(a)
	width := us + 1
	stripeLen := a.StripeLen()

	// Logical unit order first. The closing border is kept out of the
	// rotation.
	line := make([]byte, 0, int(a.Disks())*width+1)
	start := sr.Offset - sr.Stripe*stripeLen
	end := start + uint64(sr.Length)
	for pos := uint64(0); pos < stripeLen; pos += raid.SectorSize {
		if pos%uint64(a.StripingUnit) == 0 {
			line = append(line, '|')
		}
		if pos >= start && pos < end {
			line = append(line, symbol)
		} else {
			line = append(line, ' ')
		}
	}
	line = append(line, '|')
	line = append(line, bytes.Repeat([]byte{' '}, us)...)

	shift := int(a.Rotation(sr.Stripe)) * width
	rotated := make([]byte, 0, len(line)+1)
	rotated = append(rotated, line[shift:]...)
	rotated = append(rotated, line[:shift]...)
	line = append(rotated, '|')

	parity := int(a.ParityDisk(sr.Stripe)) * width
	spans := []span{
		{parity, TagParity},
		{parity + 1, TagReset},
		{parity + width, TagParity},
		{parity + width + 1, TagReset},
	}
	if a.Faulty() {
		fault := a.FaultyDisk*width + 1
		spans = append(spans,
			span{fault, TagFault},
			span{fault + us, TagReset},
		)
	}
	return applySpans(string(line), spans, st)
}

// JobHeader lays a request out over the stripes it touches, one line per
// stripe request, with the parity unit of each stripe and the faulty disk
// highlighted.
func JobHeader(a raid.DiskArray, r raid.Request, reqs []raid.StripeRequest, st Styler) []string {
	symbol := byte('r')
	if r.Nature == raid.Write {
		symbol = 'w'
	}

	lines := make([]string, len(reqs))
	for i, sr := range reqs {
		lines[i] = headerLine(a, sr, symbol, st)
	}
	return lines
}

// Renderer prints plans in the layout of a simulation session.
type Renderer struct {
	Out    io.Writer
	Styler Styler
	// ShowMethod appends the service method to every scope line.
	ShowMethod bool
}

func New(out io.Writer, st Styler) *Renderer {
	if st == nil {
		st = Plain{}
	}
	return &Renderer{Out: out, Styler: st}
}

// RenderPlan prints the job header, a blank line, one scope line per stripe
// and a closing blank line.
func (r *Renderer) RenderPlan(p *raid.Plan) error {
	reqs := make([]raid.StripeRequest, len(p.Stripes))
	for i, sp := range p.Stripes {
		reqs[i] = sp.Request
	}

	var sb strings.Builder
	for _, line := range JobHeader(p.Array, p.Request, reqs, r.Styler) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	for _, sp := range p.Stripes {
		sb.WriteString(ScopeLine(p.Array, sp.Request.Stripe, sp.Layout, sp.Reads))
		if r.ShowMethod {
			sb.WriteString(" ")
			sb.WriteString(sp.Method.String())
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(r.Out, sb.String())
	return err
}
