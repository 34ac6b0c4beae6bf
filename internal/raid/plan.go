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

// StripePlan is the service plan of a single stripe request.
type StripePlan struct {
	Request StripeRequest
	Layout  Layout
	Decision
}

// Plan is the service plan of a whole request, one entry per stripe touched.
type Plan struct {
	Array   DiskArray
	Request Request
	Stripes []StripePlan
}

// Cost returns the bytes read by all stripe plans together.
func (p *Plan) Cost() uint64 {
	var total uint64
	for _, sp := range p.Stripes {
		total += sp.Cost
	}
	return total
}

// PlanStripe analyzes a single stripe request and selects its service method.
// Both the array and the stripe request are validated first.
func PlanStripe(a DiskArray, nature Nature, sr StripeRequest) (StripePlan, error) {
	if err := a.Validate(); err != nil {
		return StripePlan{}, err
	}
	if err := sr.Validate(a); err != nil {
		return StripePlan{}, fmt.Errorf("stripe %d: %w", sr.Stripe, err)
	}

	l := Analyze(a, sr)

	d, err := Select(nature, l)
	if err != nil {
		return StripePlan{}, fmt.Errorf("stripe %d: %w", sr.Stripe, err)
	}
	return StripePlan{Request: sr, Layout: l, Decision: d}, nil
}

// PlanRequest decomposes a request into stripe requests and plans each of
// them in stripe order.
func PlanRequest(a DiskArray, r Request) (*Plan, error) {
	reqs, err := Decompose(a, r)
	if err != nil {
		return nil, err
	}

	p := &Plan{
		Array:   a,
		Request: r,
		Stripes: make([]StripePlan, 0, len(reqs)),
	}
	for _, sr := range reqs {
		sp, err := PlanStripe(a, r.Nature, sr)
		if err != nil {
			return nil, err
		}
		p.Stripes = append(p.Stripes, sp)
	}
	return p, nil
}
