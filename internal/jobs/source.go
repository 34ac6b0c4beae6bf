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
	"errors"
	"fmt"
	"sort"

	"github.com/ostafen/raidplan/internal/raid"
)

var ErrUnknownSource = errors.New("unknown job source")

// Job is a disk array together with a request made against it.
type Job struct {
	Array   raid.DiskArray
	Request raid.Request
}

// Source is a named supplier of jobs. Fixed lists return the same jobs on
// every call, generators compute theirs from a handful of parameters.
type Source struct {
	Name        string
	Description string
	Generated   bool
	Jobs        func() []Job
}

var DefaultSources = []Source{
	{
		Name:        "scope",
		Description: "unit scope comprehension on a two data disk array",
		Jobs:        func() []Job { return ScopeJobs },
	},
	{
		Name:        "methods",
		Description: "method selection with request, off-request and parity faults",
		Jobs:        func() []Job { return MethodJobs },
	},
	{
		Name:        "full-stripe",
		Description: "a single full-stripe write",
		Jobs:        func() []Job { return FullStripeJobs },
	},
	{
		Name:        "free",
		Description: "one RAID5 write spanning four stripes",
		Jobs:        func() []Job { return FreeJobs },
	},
	{
		Name:        "demo",
		Description: "RAID4 and RAID5 reads and writes, fault free and degraded",
		Jobs:        func() []Job { return DemoJobs },
	},
	{
		Name:        "cutoff",
		Description: "writes growing by one sector up to a full stripe, around the rmw-rw cut-off",
		Generated:   true,
		Jobs:        CutoffJobs,
	},
	{
		Name:        "merge",
		Description: "pairs of rmw stripe requests for studying request merging",
		Generated:   true,
		Jobs:        func() []Job { return MergeJobs(false) },
	},
	{
		Name:        "merge-or-equal",
		Description: "merge pairs sized for a cut-off that also accepts equality",
		Generated:   true,
		Jobs:        func() []Job { return MergeJobs(true) },
	},
	{
		Name:        "rotation",
		Description: "a fault-free array, then each disk faulty, over a full parity rotation",
		Generated:   true,
		Jobs:        RotationJobs,
	},
}

// Sources returns the built-in sources sorted by name.
func Sources() []Source {
	sources := make([]Source, len(DefaultSources))
	copy(sources, DefaultSources)

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})
	return sources
}

func Lookup(name string) (Source, error) {
	for _, src := range DefaultSources {
		if src.Name == name {
			return src, nil
		}
	}
	return Source{}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}
