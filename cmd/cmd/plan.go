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
package cmd

import (
	"fmt"
	"math"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/raidplan/internal/raid"
	"github.com/ostafen/raidplan/internal/render"
	"github.com/spf13/cobra"
)

func DefinePlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan (read|write) <offset> <length>",
		Short: "Plan a single request against a disk array",
		Long: `The 'plan' command decomposes a request into stripe requests and prints, for each of them,
the service method and the unit scope that has to be read. Offset and length accept
human-readable sizes such as "6KiB" and must be multiples of 512 bytes.`,
		Args:         cobra.ExactArgs(3),
		SilenceUsage: true,
		RunE:         RunPlan,
	}

	defineArrayFlags(cmd)
	defineRenderFlags(cmd)

	return cmd
}

func RunPlan(cmd *cobra.Command, args []string) error {
	a, err := parseArray(cmd)
	if err != nil {
		return err
	}

	r, err := parseRequest(args[0], args[1], args[2])
	if err != nil {
		return err
	}

	st, err := parseStyler(cmd)
	if err != nil {
		return err
	}

	p, err := raid.PlanRequest(a, r)
	if err != nil {
		return err
	}

	rd := render.New(os.Stdout, st)
	rd.ShowMethod, _ = cmd.Flags().GetBool("method")
	if err := rd.RenderPlan(p); err != nil {
		return err
	}

	fmt.Printf("Total read: %s (%d bytes) over %d stripe requests\n",
		humanize.IBytes(p.Cost()), p.Cost(), len(p.Stripes))
	return nil
}

func defineArrayFlags(cmd *cobra.Command) {
	cmd.Flags().String("level", "raid5", "array level (raid4 or raid5)")
	cmd.Flags().Uint32("data-disks", 4, "number of data disks")
	cmd.Flags().String("striping-unit", "2KiB", "size of a striping unit, a multiple of 512 bytes")
	cmd.Flags().Int("faulty-disk", raid.FaultFree, "physical number of the faulty disk, -1 for none")
}

func defineRenderFlags(cmd *cobra.Command) {
	cmd.Flags().String("color", render.ColorAuto, "highlight parity and faulty disks (auto, always, never)")
	cmd.Flags().Bool("method", true, "print the service method after each scope line")
}

func parseArray(cmd *cobra.Command) (raid.DiskArray, error) {
	levelName, _ := cmd.Flags().GetString("level")
	dataDisks, _ := cmd.Flags().GetUint32("data-disks")
	faultyDisk, _ := cmd.Flags().GetInt("faulty-disk")

	level, err := raid.ParseLevel(levelName)
	if err != nil {
		return raid.DiskArray{}, err
	}

	stripingUnit, err := getBytes(cmd, "striping-unit")
	if err != nil {
		return raid.DiskArray{}, err
	}
	if stripingUnit > math.MaxUint32 {
		return raid.DiskArray{}, fmt.Errorf("%w: striping unit %d is too large", raid.ErrInvalidGeometry, stripingUnit)
	}

	a := raid.DiskArray{
		Level:        level,
		DataDisks:    dataDisks,
		StripingUnit: uint32(stripingUnit),
		FaultyDisk:   faultyDisk,
	}
	return a, a.Validate()
}

func parseRequest(nature, offset, length string) (raid.Request, error) {
	n, err := raid.ParseNature(nature)
	if err != nil {
		return raid.Request{}, err
	}

	off, err := humanize.ParseBytes(offset)
	if err != nil {
		return raid.Request{}, fmt.Errorf("%w: offset: %w", raid.ErrInvalidRequest, err)
	}

	l, err := humanize.ParseBytes(length)
	if err != nil {
		return raid.Request{}, fmt.Errorf("%w: length: %w", raid.ErrInvalidRequest, err)
	}
	if l > math.MaxUint32 {
		return raid.Request{}, fmt.Errorf("%w: length %d is too large", raid.ErrInvalidRequest, l)
	}

	r := raid.Request{Nature: n, Offset: off, Length: uint32(l)}
	return r, r.Validate()
}

func parseStyler(cmd *cobra.Command) (render.Styler, error) {
	mode, _ := cmd.Flags().GetString("color")
	return render.StylerFor(mode, os.Stdout)
}

func getBytes(cmd *cobra.Command, name string) (uint64, error) {
	s, _ := cmd.Flags().GetString(name)

	v, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q for --%s: %w", s, name, err)
	}
	return v, nil
}
