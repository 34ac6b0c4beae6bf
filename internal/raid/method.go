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

import (
	"fmt"
	"strings"
)

// Method is a stripe request service method.
type Method int

const (
	// MethodNW writes without maintaining parity.
	MethodNW Method = iota
	// MethodRMW reads the old data and parity under the request.
	MethodRMW
	// MethodRW reads the data the request does not overwrite.
	MethodRW
	// MethodRWPlus is reconstruct-write for a partially written faulty edge unit.
	MethodRWPlus
	// MethodDR reads the requested data directly.
	MethodDR
	// MethodRR rebuilds the faulty unit's data from the surviving units.
	MethodRR
)

var methodNames = [...]string{"nw", "rmw", "rw", "rw+", "dr", "rr"}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return "unknown"
	}
	return methodNames[m]
}

func ParseMethod(s string) (Method, error) {
	for i, name := range methodNames {
		if strings.EqualFold(s, name) {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("unknown method %q", s)
}

// Alternative is the method that was considered and rejected for a
// fault-free write, kept as a cost only.
type Alternative struct {
	Method Method
	Cost   uint64
}

// Decision is the outcome of method selection for one stripe request.
type Decision struct {
	Method Method
	// Reads is the scope the method must read before writing, or the scope a
	// read is served from.
	Reads       ScopeGroups
	Cost        uint64
	Alternative *Alternative
}

// preferRMW is the rmw-rw cut-off: the request length mark where
// read-modify-write becomes cheaper than reconstruct-write.
func preferRMW(l Layout) bool {
	if l.RequestUnits == 1 {
		return l.DataDisks > 3
	}
	return uint64(l.StripingUnit)*uint64(l.DataDisks-1) > 2*uint64(l.Length)
}

// Select chooses the service method for a stripe request and synthesizes the
// scope it has to read.
func Select(nature Nature, l Layout) (Decision, error) {
	if nature == Write {
		return selectWrite(l)
	}
	return selectRead(l), nil
}

func decide(m Method, l Layout, g ScopeGroups) Decision {
	return Decision{Method: m, Reads: g, Cost: l.Cost(g)}
}

func selectWrite(l Layout) (Decision, error) {
	f := l.Fault

	switch f.Kind {
	case NoFault:
		rmw := decide(MethodRMW, l, rmwScopes(l))
		rw := decide(MethodRW, l, rwScopes(l))

		chosen, other := rw, rmw
		if preferRMW(l) {
			chosen, other = rmw, rw
		}

		if chosen.Cost > other.Cost {
			return Decision{}, &InvariantError{
				Chosen:          chosen.Method,
				ChosenCost:      chosen.Cost,
				Alternative:     other.Method,
				AlternativeCost: other.Cost,
			}
		}
		chosen.Alternative = &Alternative{Method: other.Method, Cost: other.Cost}
		return chosen, nil

	case ParityFault:
		return decide(MethodNW, l, ScopeGroups{}), nil

	case OffRequestFault:
		// The faulty unit is untouched either way.
		return decide(MethodRMW, l, rmwScopes(l)), nil

	case RequestFault:
		su := l.StripingUnit
		edgeFull := f.Unit == l.FirstUnit && l.Scopes.First.Length == su ||
			f.Unit == l.FinalUnit() && l.Scopes.Final.Length == su
		interior := f.Unit > l.FirstUnit && f.Unit < l.FinalUnit()

		if l.RequestUnits == 1 || interior || edgeFull {
			return decide(MethodRW, l, rwScopes(l)), nil
		}
		return decide(MethodRWPlus, l, rwPlusScopes(l)), nil
	}
	return Decision{}, fmt.Errorf("unknown fault kind %d", int(f.Kind))
}

func selectRead(l Layout) Decision {
	if l.Fault.Kind == RequestFault {
		return decide(MethodRR, l, rrScopes(l))
	}
	return decide(MethodDR, l, l.Scopes)
}

func rmwScopes(l Layout) ScopeGroups {
	g := l.Scopes
	if l.RequestUnits == 1 {
		g.Parity = g.First
	} else {
		g.Parity = fullUnit(l.StripingUnit)
	}
	return g
}

func rwScopes(l Layout) ScopeGroups {
	var g ScopeGroups
	in := l.Scopes
	su := l.StripingUnit

	if l.RequestUnits == 1 {
		// With a single request unit there is always at least one unit
		// left off request, unless the array has a single data disk.
		g.OffRequest = in.First
		return g
	}

	if in.First.Length < su {
		g.First = UnitScope{Offset: 0, Length: in.First.Offset}
	}
	if in.Final.Length < su {
		g.Final = UnitScope{Offset: in.Final.Length, Length: su - in.Final.Length}
	}
	if l.RequestUnits < l.DataDisks {
		g.OffRequest = fullUnit(su)
	}
	return g
}

// rwPlusScopes handles a faulty edge unit that the request changes only in
// part. The unchanged part of the faulty unit cannot be read, so parity over
// that range is refreshed read-modify-write style, while the rest of the
// stripe is reconstruct-written.
func rwPlusScopes(l Layout) ScopeGroups {
	var g ScopeGroups
	var complement UnitScope
	in := l.Scopes
	su := l.StripingUnit

	if l.Fault.Unit == l.FirstUnit {
		complement = UnitScope{Offset: 0, Length: in.First.Offset}
		if in.Final.Length == su {
			g.Final = complement
		} else {
			g.Final = fullUnit(su)
		}
		if l.RequestUnits < l.DataDisks {
			g.OffRequest = in.First
		}
	} else {
		complement = UnitScope{Offset: in.Final.Length, Length: su - in.Final.Length}
		if in.First.Length == su {
			g.First = complement
		} else {
			g.First = fullUnit(su)
		}
		if l.RequestUnits < l.DataDisks {
			g.OffRequest = in.Final
		}
	}

	if l.RequestUnits > 2 {
		g.Other = complement
	}
	g.Parity = complement
	return g
}

func rrScopes(l Layout) ScopeGroups {
	var g ScopeGroups
	in := l.Scopes
	su := l.StripingUnit
	flt := l.Fault.Unit
	final := l.FinalUnit()

	if l.RequestUnits > 1 {
		if flt != l.FirstUnit {
			g.First = fullUnit(su)
		}
		if l.RequestUnits > 2 && (flt == l.FirstUnit || flt == final) || l.RequestUnits > 3 {
			g.Other = fullUnit(su)
		}
		if flt != final {
			g.Final = fullUnit(su)
		}
	}

	var faulty UnitScope
	switch {
	case flt == l.FirstUnit:
		faulty = in.First
	case flt < final:
		faulty = in.Other
	default:
		faulty = in.Final
	}

	if l.RequestUnits < l.DataDisks {
		g.OffRequest = faulty
	}
	g.Parity = faulty
	return g
}
