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
package sim

import (
	"github.com/ostafen/raidplan/internal/raid"
	"github.com/ostafen/raidplan/pkg/planxml"
)

// JobObject converts the plan of the index-th job into its report entry.
func JobObject(index int, p *raid.Plan) planxml.JobObject {
	obj := planxml.JobObject{
		Index: index,
		Array: planxml.ArrayObject{
			Level:        p.Array.Level.String(),
			DataDisks:    p.Array.DataDisks,
			StripingUnit: p.Array.StripingUnit,
		},
		Request: planxml.RequestObject{
			Nature: p.Request.Nature.String(),
			Offset: p.Request.Offset,
			Length: p.Request.Length,
		},
		Stripes: make([]planxml.StripeObject, len(p.Stripes)),
		Cost:    p.Cost(),
	}
	if p.Array.Faulty() {
		faulty := p.Array.FaultyDisk
		obj.Array.FaultyDisk = &faulty
	}

	for i, sp := range p.Stripes {
		so := planxml.StripeObject{
			Index:  sp.Request.Stripe,
			Offset: sp.Request.Offset,
			Length: sp.Request.Length,
			Method: sp.Method.String(),
			Cost:   sp.Cost,
			Scopes: scopeRuns(sp.Layout, sp.Reads),
		}
		if sp.Layout.Fault.Kind != raid.NoFault {
			so.Fault = sp.Layout.Fault.String()
		}
		if sp.Alternative != nil {
			so.Alternative = &planxml.AlternativeObject{
				Method: sp.Alternative.Method.String(),
				Cost:   sp.Alternative.Cost,
			}
		}
		obj.Stripes[i] = so
	}
	return obj
}

// scopeRuns lists the non-empty scope groups with the number of units each
// one is read from, so that the runs add up to the stripe cost.
func scopeRuns(l raid.Layout, g raid.ScopeGroups) []planxml.ScopeRun {
	groups := []struct {
		name  string
		scope raid.UnitScope
		units uint32
	}{
		{"first", g.First, 1},
		{"final", g.Final, 1},
		{"other", g.Other, l.OtherUnits()},
		{"off_request", g.OffRequest, l.OffRequestUnits()},
		{"parity", g.Parity, 1},
	}

	var runs []planxml.ScopeRun
	for _, grp := range groups {
		if grp.scope.Empty() || grp.units == 0 {
			continue
		}
		runs = append(runs, planxml.ScopeRun{
			Group:  grp.name,
			Offset: grp.scope.Offset,
			Length: grp.scope.Length,
			Units:  grp.units,
		})
	}
	return runs
}
