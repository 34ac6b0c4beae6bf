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
package planxml

import (
	"encoding/xml"
	"io"
)

// Writer streams a plan report to an io.Writer.
type Writer struct {
	w      io.Writer
	enc    *xml.Encoder
	closed bool
}

// NewWriter creates a Writer that indents its output with two spaces.
func NewWriter(w io.Writer) *Writer {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	return &Writer{
		w:   w,
		enc: enc,
	}
}

// WriteHeader writes the XML declaration, the opening root tag and the
// report header elements.
func (w *Writer) WriteHeader(hdr Header) error {
	if _, err := io.WriteString(w.w, xml.Header); err != nil {
		return err
	}

	start := xml.StartElement{
		Name: xml.Name{Local: "raidplan"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmloutputversion"}, Value: hdr.XmlOutput},
		},
	}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	// The root element is already open, so only its children are encoded.
	if err := w.enc.EncodeElement(hdr.Creator, xml.StartElement{Name: xml.Name{Local: "creator"}}); err != nil {
		return err
	}
	return w.enc.EncodeElement(hdr.Source, xml.StartElement{Name: xml.Name{Local: "source"}})
}

func (w *Writer) WriteJob(obj JobObject) error {
	return w.enc.Encode(obj)
}

// Close writes the closing root tag and flushes the encoder. Calls after the
// first one are no-ops, so Close can be deferred and still be checked on the
// success path.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: "raidplan"}}); err != nil {
		return err
	}
	return w.enc.Flush()
}
