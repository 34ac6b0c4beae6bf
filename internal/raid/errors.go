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
	"errors"
	"fmt"
)

var (
	ErrInvalidGeometry = errors.New("invalid disk array geometry")
	ErrInvalidRequest  = errors.New("invalid request")

	// ErrMethodInvariant signals a defect in the rmw-rw cut-off: the method
	// preferred for a fault-free write turned out to cost more than the other one.
	ErrMethodInvariant = errors.New("write method invariant violated")
)

// InvariantError describes a cut-off decision that picked the more expensive
// write method.
type InvariantError struct {
	Chosen          Method
	ChosenCost      uint64
	Alternative     Method
	AlternativeCost uint64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s costs %d bytes, %s costs %d bytes",
		ErrMethodInvariant, e.Chosen, e.ChosenCost, e.Alternative, e.AlternativeCost)
}

func (e *InvariantError) Unwrap() error {
	return ErrMethodInvariant
}
