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
	"os"
	"runtime"
	"time"

	"github.com/ostafen/raidplan/pkg/sysinfo"
)

const XmlOutputVersion = "1.0"

// Header represents the root element of a plan report.
type Header struct {
	XMLName   xml.Name `xml:"raidplan"`                            // Specifies the XML element name as "raidplan".
	XmlOutput string   `xml:"xmloutputversion,attr,omitempty"` // The version of the report schema, an attribute.
	Creator   Creator  `xml:"creator"`                           // Describes the software that created the report.
	Source    Source   `xml:"source"`                            // Describes where the simulated jobs came from.
}

// Creator describes the software and environment used to generate the report.
type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

// ExecEnv provides information about the host where the report was created.
type ExecEnv struct {
	OS      string `xml:"os_sysname"`
	Release string `xml:"os_release"`
	Version string `xml:"os_version"`
	Host    string `xml:"host"`
	Arch    string `xml:"arch"`
	UID     int    `xml:"uid"`
	Start   string `xml:"start_time"`
}

// Source names the job source of a simulation session.
type Source struct {
	Name string `xml:"name"`           // Built-in source name, empty for job files.
	File string `xml:"file,omitempty"` // Job file path, if any.
	Jobs int    `xml:"jobs"`           // Number of jobs in the session.
}

// JobObject records one simulated job: the array, the request and the plan of
// every stripe request it expanded into.
type JobObject struct {
	XMLName xml.Name       `xml:"job"`
	Index   int            `xml:"index,attr"`
	Array   ArrayObject    `xml:"array"`
	Request RequestObject  `xml:"request"`
	Stripes []StripeObject `xml:"stripe"`
	Cost    uint64         `xml:"cost"` // Bytes read by all stripe requests together.
}

type ArrayObject struct {
	Level        string `xml:"level,attr"`
	DataDisks    uint32 `xml:"data_disks,attr"`
	StripingUnit uint32 `xml:"striping_unit,attr"`
	FaultyDisk   *int   `xml:"faulty_disk,attr,omitempty"` // Omitted for a fault-free array.
}

type RequestObject struct {
	Nature string `xml:"nature,attr"`
	Offset uint64 `xml:"offset,attr"`
	Length uint32 `xml:"len,attr"`
}

// StripeObject is the plan of a single stripe request.
type StripeObject struct {
	Index       uint64             `xml:"index,attr"`
	Offset      uint64             `xml:"offset,attr"`
	Length      uint32             `xml:"len,attr"`
	Method      string             `xml:"method,attr"`
	Fault       string             `xml:"fault,attr,omitempty"`
	Cost        uint64             `xml:"cost,attr"`
	Alternative *AlternativeObject `xml:"alternative,omitempty"`
	Scopes      []ScopeRun         `xml:"scope"`
}

// AlternativeObject is the write method rejected by the rmw-rw cut-off.
type AlternativeObject struct {
	Method string `xml:"method,attr"`
	Cost   uint64 `xml:"cost,attr"`
}

// ScopeRun describes the byte range read from every unit of a scope group.
type ScopeRun struct {
	Group  string `xml:"group,attr"`  // first, final, other, off_request or parity.
	Offset uint32 `xml:"offset,attr"` // Offset within the striping unit.
	Length uint32 `xml:"len,attr"`
	Units  uint32 `xml:"units,attr"` // Number of units the range is read from.
}

// GetExecEnv retrieves runtime information to populate the ExecEnv struct.
func GetExecEnv() ExecEnv {
	sinfo, err := sysinfo.Stat()
	if err != nil && sinfo == nil {
		sinfo = &sysinfo.SysUnknown
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown_host"
	}

	return ExecEnv{
		OS:      sinfo.Name,
		Release: sinfo.Release,
		Version: sinfo.Version,
		Host:    host,
		Arch:    runtime.GOARCH,
		UID:     os.Getuid(),
		Start:   time.Now().UTC().Format("2006-01-02T15:04:05Z"),
	}
}
