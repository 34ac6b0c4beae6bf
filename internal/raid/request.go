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
	"math"
	"strings"
)

type Nature int

const (
	Read Nature = iota
	Write
)

func (n Nature) String() string {
	if n == Write {
		return "write"
	}
	return "read"
}

func ParseNature(s string) (Nature, error) {
	switch strings.ToLower(s) {
	case "read", "r":
		return Read, nil
	case "write", "w":
		return Write, nil
	}
	return 0, fmt.Errorf("%w: unknown request nature %q", ErrInvalidRequest, s)
}

// Request is a logical read or write against the whole array. Offset is
// absolute and, like Length, expressed in bytes.
type Request struct {
	Nature Nature
	Offset uint64
	Length uint32
}

func (r Request) Validate() error {
	if r.Length == 0 {
		return fmt.Errorf("%w: zero length", ErrInvalidRequest)
	}
	if r.Offset%SectorSize != 0 || r.Length%SectorSize != 0 {
		return fmt.Errorf("%w: offset %d and length %d must be multiples of %d",
			ErrInvalidRequest, r.Offset, r.Length, SectorSize)
	}
	if r.Offset > math.MaxUint64-uint64(r.Length) {
		return fmt.Errorf("%w: offset %d plus length %d overflows", ErrInvalidRequest, r.Offset, r.Length)
	}
	return nil
}

// End returns the offset one past the last requested byte.
func (r Request) End() uint64 {
	return r.Offset + uint64(r.Length)
}

// StripeRequest is the part of a Request falling into a single stripe.
type StripeRequest struct {
	Stripe uint64
	Offset uint64
	Length uint32
}

func (sr StripeRequest) End() uint64 {
	return sr.Offset + uint64(sr.Length)
}

// Validate checks that sr is a non-empty, sector aligned range lying entirely
// within stripe sr.Stripe of a. The array itself must already be valid.
func (sr StripeRequest) Validate(a DiskArray) error {
	if sr.Length == 0 {
		return fmt.Errorf("%w: zero length", ErrInvalidRequest)
	}
	if sr.Offset%SectorSize != 0 || sr.Length%SectorSize != 0 {
		return fmt.Errorf("%w: offset %d and length %d must be multiples of %d",
			ErrInvalidRequest, sr.Offset, sr.Length, SectorSize)
	}

	stripeLen := a.StripeLen()
	if sr.Offset/stripeLen != sr.Stripe {
		return fmt.Errorf("%w: offset %d is outside stripe %d", ErrInvalidRequest, sr.Offset, sr.Stripe)
	}
	if rel := sr.Offset % stripeLen; uint64(sr.Length) > stripeLen-rel {
		return fmt.Errorf("%w: length %d at offset %d runs past the end of stripe %d",
			ErrInvalidRequest, sr.Length, sr.Offset, sr.Stripe)
	}
	if sr.Offset > math.MaxUint64-uint64(sr.Length) {
		return fmt.Errorf("%w: offset %d plus length %d overflows", ErrInvalidRequest, sr.Offset, sr.Length)
	}
	return nil
}

// Decompose expands a request into one stripe request per stripe it touches,
// in ascending stripe order.
func Decompose(a DiskArray, r Request) ([]StripeRequest, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	stripeLen := a.StripeLen()
	rel := r.Offset % stripeLen

	// Extending the request back to the stripe boundary leaves alignment
	// uncertainty at the tail only.
	extLen := uint64(r.Length) + rel
	count := extLen / stripeLen
	if extLen%stripeLen != 0 {
		count++
	}

	reqs := make([]StripeRequest, count)
	first := r.Offset / stripeLen

	reqs[0] = StripeRequest{
		Stripe: first,
		Offset: r.Offset,
		Length: uint32(min(stripeLen-rel, uint64(r.Length))),
	}
	if count == 1 {
		return reqs, nil
	}

	next := reqs[0].End()
	for k := uint64(1); k < count-1; k++ {
		reqs[k] = StripeRequest{
			Stripe: first + k,
			Offset: next,
			Length: uint32(stripeLen),
		}
		next += stripeLen
	}

	reqs[count-1] = StripeRequest{
		Stripe: first + count - 1,
		Offset: next,
		Length: uint32(r.End() - next),
	}
	return reqs, nil
}
