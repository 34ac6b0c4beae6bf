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
	"fmt"
	"os"
	"sort"
	"strings"
)

// Tag identifies a formatting element inserted into a rendered line.
type Tag int

const (
	TagReset Tag = iota
	TagParity
	TagFault
)

// Styler turns formatting tags into the byte sequences of an output device.
type Styler interface {
	Sequence(tag Tag) string
}

// Plain drops all formatting.
type Plain struct{}

func (Plain) Sequence(Tag) string { return "" }

// ANSI formats with ECMA-48 SGR sequences: parity in yellow, the faulty disk
// on a red background.
type ANSI struct{}

func (ANSI) Sequence(tag Tag) string {
	switch tag {
	case TagParity:
		return "\x1B[33m"
	case TagFault:
		return "\x1B[41m"
	default:
		return "\x1B[0m"
	}
}

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// StylerFor picks a styler for the color mode. In auto mode, ANSI styling is
// used only when f is a terminal and NO_COLOR is unset.
func StylerFor(mode string, f *os.File) (Styler, error) {
	switch mode {
	case ColorAlways:
		return ANSI{}, nil
	case ColorNever:
		return Plain{}, nil
	case ColorAuto, "":
		if os.Getenv("NO_COLOR") == "" && f != nil && IsTerminal(f.Fd()) {
			return ANSI{}, nil
		}
		return Plain{}, nil
	}
	return nil, fmt.Errorf("invalid color mode %q", mode)
}

type span struct {
	pos int
	tag Tag
}

// applySpans inserts the styler's sequence for each span into line. Spans are
// sorted by position; at equal positions a reset precedes an opening tag.
func applySpans(line string, spans []span, st Styler) string {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].pos != spans[j].pos {
			return spans[i].pos < spans[j].pos
		}
		return spans[i].tag == TagReset && spans[j].tag != TagReset
	})

	var sb strings.Builder
	last := 0
	for _, s := range spans {
		sb.WriteString(line[last:s.pos])
		sb.WriteString(st.Sequence(s.tag))
		last = s.pos
	}
	sb.WriteString(line[last:])
	return sb.String()
}
