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
package jobs

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/raidplan/internal/raid"
	"gopkg.in/yaml.v3"
)

// Size is a byte count written either as a plain integer or as a
// human-readable string such as "2KiB".
type Size uint64

func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	v, err := humanize.ParseBytes(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid size %q: %w", node.Line, node.Value, err)
	}
	*s = Size(v)
	return nil
}

type arraySpec struct {
	Level        string `yaml:"level"`
	DataDisks    uint32 `yaml:"data_disks"`
	StripingUnit Size   `yaml:"striping_unit"`
	FaultyDisk   *int   `yaml:"faulty_disk,omitempty"`
}

type requestSpec struct {
	Nature string `yaml:"nature"`
	Offset Size   `yaml:"offset"`
	Length Size   `yaml:"length"`
}

type jobSpec struct {
	Array   arraySpec   `yaml:"array"`
	Request requestSpec `yaml:"request"`
}

type fileSpec struct {
	Jobs []jobSpec `yaml:"jobs"`
}

// LoadFile reads a YAML job list from path.
func LoadFile(path string) ([]Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	jobs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs from %q: %w", path, err)
	}
	return jobs, nil
}

// Decode reads a YAML job list. Every job is validated against the engine's
// geometry and request rules.
func Decode(r io.Reader) ([]Job, error) {
	var spec fileSpec

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, err
	}

	jobs := make([]Job, 0, len(spec.Jobs))
	for i, js := range spec.Jobs {
		job, err := js.toJob()
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (js jobSpec) toJob() (Job, error) {
	level, err := raid.ParseLevel(js.Array.Level)
	if err != nil {
		return Job{}, err
	}

	nature, err := raid.ParseNature(js.Request.Nature)
	if err != nil {
		return Job{}, err
	}

	if js.Array.StripingUnit > math.MaxUint32 {
		return Job{}, fmt.Errorf("%w: striping unit too large", raid.ErrInvalidGeometry)
	}
	if js.Request.Length > math.MaxUint32 {
		return Job{}, fmt.Errorf("%w: length too large", raid.ErrInvalidRequest)
	}

	a := raid.DiskArray{
		Level:        level,
		DataDisks:    js.Array.DataDisks,
		StripingUnit: uint32(js.Array.StripingUnit),
		FaultyDisk:   raid.FaultFree,
	}
	if js.Array.FaultyDisk != nil {
		a.FaultyDisk = *js.Array.FaultyDisk
	}

	r := raid.Request{
		Nature: nature,
		Offset: uint64(js.Request.Offset),
		Length: uint32(js.Request.Length),
	}

	if err := a.Validate(); err != nil {
		return Job{}, err
	}
	if err := r.Validate(); err != nil {
		return Job{}, err
	}
	return Job{Array: a, Request: r}, nil
}
