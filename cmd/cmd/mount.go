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
	"os"
	"path/filepath"
	"strings"

	"github.com/ostafen/raidplan/internal/fuse"
	"github.com/ostafen/raidplan/internal/logger"
	"github.com/ostafen/raidplan/internal/render"
	"github.com/ostafen/raidplan/internal/sim"
	"github.com/spf13/cobra"
)

func DefineMountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mount [source]",
		Short: "Mount the rendered plans of a job source as a read-only filesystem",
		Long: `The 'mount' command plans every job of a built-in source or job file and exposes each
rendered plan as a file (job_000.txt, job_001.txt, ...) under the mountpoint, until interrupted.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         RunMount,
	}

	defineJobFlags(cmd)
	cmd.Flags().StringP("mountpoint", "m", "", "directory where the plans are mounted. If not specified, it is named after the source.")
	cmd.Flags().Bool("method", true, "print the service method after each scope line")

	return cmd
}

func RunMount(cmd *cobra.Command, args []string) error {
	mountpoint, _ := cmd.Flags().GetString("mountpoint")
	showMethod, _ := cmd.Flags().GetBool("method")
	logLevel, _ := cmd.Flags().GetString("log-level")

	src, js, err := loadJobs(cmd, args)
	if err != nil {
		return err
	}

	rendered, err := sim.RenderJobs(js, render.Plain{}, showMethod)
	if err != nil {
		return err
	}

	files := make([]fuse.Content, len(rendered))
	for i, r := range rendered {
		files[i] = fuse.Content{Name: r.Name, Data: r.Text}
	}

	r, entries, err := fuse.Pack(files)
	if err != nil {
		return err
	}

	if mountpoint == "" {
		mountpoint = getMountpoint(src)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(logLevel))
	log.Infof("Rendered %d jobs from %s", len(entries), src)

	if err := fuse.Mount(mountpoint, r, entries, log); err != nil {
		return fmt.Errorf("failed to mount %s: %w", mountpoint, err)
	}
	return nil
}

// getMountpoint generates a mountpoint name from a source name or job file
// path by stripping the extension. If the extension is empty, "_mnt" is added.
func getMountpoint(src string) string {
	baseName := filepath.Base(src)
	ext := filepath.Ext(baseName)
	baseName = strings.TrimSuffix(baseName, ext)
	mountpoint := baseName
	if ext == "" {
		mountpoint += "_mnt"
	}
	return mountpoint
}
