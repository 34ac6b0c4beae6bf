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
	"errors"

	"github.com/ostafen/raidplan/internal/jobs"
	"github.com/ostafen/raidplan/internal/logger"
	"github.com/ostafen/raidplan/internal/sim"
	"github.com/spf13/cobra"
)

func DefineRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [source]",
		Short: "Simulate a batch of jobs from a built-in source or a job file",
		Long: `The 'run' command plans and prints every job of a built-in source (see 'sources') or of a
YAML job file given with --file. Each session writes an XML report and, unless --no-log is set,
a log file with the decision taken for every stripe request.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         RunRun,
	}

	defineJobFlags(cmd)
	defineRenderFlags(cmd)
	cmd.Flags().StringP("dump", "d", "", "write the session log and one plan file per job to the specified directory")
	cmd.Flags().Bool("no-log", false, "disable logging")
	cmd.Flags().BoolP("quiet", "q", false, "show a progress bar instead of the rendered plans")
	cmd.Flags().StringP("output", "o", "", "The path of the session report file")

	return cmd
}

func RunRun(cmd *cobra.Command, args []string) error {
	src, js, err := loadJobs(cmd, args)
	if err != nil {
		return err
	}

	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	_, err = sim.Run(src, js, opts)
	return err
}

func parseOptions(cmd *cobra.Command) (sim.Options, error) {
	dumpDir := cmd.Flag("dump").Value.String()
	disableLog, _ := cmd.Flags().GetBool("no-log")
	outputFile, _ := cmd.Flags().GetString("output")
	showMethod, _ := cmd.Flags().GetBool("method")
	quiet, _ := cmd.Flags().GetBool("quiet")
	logLevel, _ := cmd.Flags().GetString("log-level")

	st, err := parseStyler(cmd)
	if err != nil {
		return sim.Options{}, err
	}

	return sim.Options{
		DumpDir:    dumpDir,
		ReportFile: outputFile,
		DisableLog: disableLog,
		LogLevel:   logger.ParseLevel(logLevel).Slog(),
		Styler:     st,
		ShowMethod: showMethod,
		Quiet:      quiet,
	}, nil
}

func defineJobFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "read jobs from a YAML file instead of a built-in source")
}

// loadJobs returns the jobs named by the command line together with a label
// for their origin.
func loadJobs(cmd *cobra.Command, args []string) (string, []jobs.Job, error) {
	file, _ := cmd.Flags().GetString("file")

	switch {
	case file != "" && len(args) > 0:
		return "", nil, errors.New("a source name and --file are mutually exclusive")
	case file != "":
		js, err := jobs.LoadFile(file)
		return file, js, err
	case len(args) == 0:
		return "", nil, errors.New("a source name or --file is required")
	}

	src, err := jobs.Lookup(args[0])
	if err != nil {
		return "", nil, err
	}
	return src.Name, src.Jobs(), nil
}
