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
package raid

import "fmt"

// UnitScope is a byte range within a single striping unit.
type UnitScope struct {
	Offset uint32
	Length uint32
}

func (s UnitScope) End() uint32 {
	return s.Offset + s.Length
}

func (s UnitScope) Empty() bool {
	return s.Length == 0
}

func fullUnit(stripingUnit uint32) UnitScope {
	return UnitScope{Offset: 0, Length: stripingUnit}
}

// ScopeGroups records unit scope for groups of stripe units, so five entries
// describe any stripe request regardless of the number of disks.
type ScopeGroups struct {
	// First request unit.
	First UnitScope
	// Final request unit, when there are at least two request units.
	Final UnitScope
	// Units strictly between the first and the final one.
	Other UnitScope
	// Data units not part of the request.
	OffRequest UnitScope
	Parity     UnitScope
}

type FaultKind int

const (
	NoFault FaultKind = iota
	ParityFault
	OffRequestFault
	RequestFault
)

func (k FaultKind) String() string {
	switch k {
	case NoFault:
		return "none"
	case ParityFault:
		return "parity"
	case OffRequestFault:
		return "off-request"
	case RequestFault:
		return "request"
	default:
		return "unknown"
	}
}

// FaultClass locates the faulty disk of an array relative to a stripe request.
// Unit is meaningful for OffRequestFault and RequestFault only.
type FaultClass struct {
	Kind FaultKind
	Unit uint32
}

func (f FaultClass) String() string {
	switch f.Kind {
	case OffRequestFault, RequestFault:
		return fmt.Sprintf("%s(%d)", f.Kind, f.Unit)
	default:
		return f.Kind.String()
	}
}

// NoUnit disables the synthetic fault of Layout.WithFaultUnit.
const NoUnit = -1

// Layout is the result of analyzing a stripe request: which data units it
// touches, at what scope, and where the fault falls.
type Layout struct {
	Scopes       ScopeGroups
	FirstUnit    uint32
	RequestUnits uint32
	Fault        FaultClass

	DataDisks    uint32
	StripingUnit uint32
	Length       uint32
}

func (l Layout) FinalUnit() uint32 {
	return l.FirstUnit + l.RequestUnits - 1
}

// OffRequestUnits is the number of data units the request does not touch.
func (l Layout) OffRequestUnits() uint32 {
	return l.DataDisks - l.RequestUnits
}

// Contains reports whether the logical unit is a request unit.
func (l Layout) Contains(unit uint32) bool {
	return unit >= l.FirstUnit && unit <= l.FinalUnit()
}

func (l Layout) interiorFault() bool {
	return l.Fault.Kind == RequestFault && l.Fault.Unit > l.FirstUnit && l.Fault.Unit < l.FinalUnit()
}

// OtherUnits is the number of interior request units contributing the Other
// scope. A faulty interior unit never contributes.
func (l Layout) OtherUnits() uint32 {
	if l.RequestUnits < 2 {
		return 0
	}
	n := l.RequestUnits - 2
	if l.interiorFault() {
		n--
	}
	return n
}

// Cost sums the bytes described by the scope groups for this layout.
func (l Layout) Cost(g ScopeGroups) uint64 {
	return uint64(g.First.Length) +
		uint64(g.Final.Length) +
		uint64(g.Other.Length)*uint64(l.OtherUnits()) +
		uint64(g.OffRequest.Length)*uint64(l.OffRequestUnits()) +
		uint64(g.Parity.Length)
}

// Classify places a logical unit relative to the request.
func (l Layout) Classify(unit uint32) FaultClass {
	switch {
	case unit == l.DataDisks:
		return FaultClass{Kind: ParityFault}
	case l.Contains(unit):
		return FaultClass{Kind: RequestFault, Unit: unit}
	default:
		return FaultClass{Kind: OffRequestFault, Unit: unit}
	}
}

// WithFaultUnit returns a copy of the layout whose fault is the given logical
// unit, bypassing the disk to unit mapping. NoUnit clears the fault.
func (l Layout) WithFaultUnit(unit int) Layout {
	if unit == NoUnit {
		l.Fault = FaultClass{Kind: NoFault}
	} else {
		l.Fault = l.Classify(uint32(unit))
	}
	return l
}

// Analyze works out the unit scopes of a stripe request and classifies the
// array fault, if any, against it. a and sr are not checked here; callers
// go through DiskArray.Validate and StripeRequest.Validate first.
func Analyze(a DiskArray, sr StripeRequest) Layout {
	su := a.StripingUnit

	rel := sr.Offset - sr.Stripe*a.StripeLen()
	first := uint32(rel / uint64(su))
	uRel := uint32(rel % uint64(su))

	extLen := uint64(sr.Length) + uint64(uRel)
	units := uint32(extLen / uint64(su))
	if extLen%uint64(su) != 0 {
		units++
	}

	l := Layout{
		FirstUnit:    first,
		RequestUnits: units,
		DataDisks:    a.DataDisks,
		StripingUnit: su,
		Length:       sr.Length,
	}

	l.Scopes.First.Offset = uRel
	if units == 1 {
		l.Scopes.First.Length = sr.Length
	} else {
		l.Scopes.First.Length = su - uRel
		l.Scopes.Final.Length = sr.Length - l.Scopes.First.Length - (units-2)*su
		if units > 2 {
			l.Scopes.Other = fullUnit(su)
		}
	}

	if a.Faulty() {
		l.Fault = l.Classify(a.UnitForDisk(uint32(a.FaultyDisk), sr.Stripe))
	}
	return l
}
