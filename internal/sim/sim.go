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
package sim

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ostafen/raidplan/internal/env"
	"github.com/ostafen/raidplan/internal/jobs"
	"github.com/ostafen/raidplan/internal/logger"
	"github.com/ostafen/raidplan/internal/raid"
	"github.com/ostafen/raidplan/internal/render"
	"github.com/ostafen/raidplan/pkg/pbar"
	"github.com/ostafen/raidplan/pkg/planxml"
)

type Options struct {
	// DumpDir receives the session log and, when set, one rendered plan
	// file per job.
	DumpDir    string
	ReportFile string
	DisableLog bool
	LogLevel   slog.Level
	Styler     render.Styler
	ShowMethod bool
	// Quiet replaces the rendered plans with a progress bar.
	Quiet bool
	// Out receives console lines and rendered plans. Defaults to os.Stdout.
	Out io.Writer
}

// Summary collects the totals of a simulation session.
type Summary struct {
	Session  string
	Jobs     int
	Stripes  int
	Cost     uint64
	Methods  map[raid.Method]int
	Report   string
	LogFile  string
	Duration time.Duration
}

// Run plans every job in order, renders it and records it in the session
// report. It stops at the first job that cannot be planned.
func Run(src string, js []jobs.Job, opts Options) (Summary, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	console := logger.New(out, logger.InfoLevel)

	session := GenSessionID()
	sum := Summary{
		Session: session,
		Methods: make(map[raid.Method]int),
	}

	sum.Report = opts.ReportFile
	if sum.Report == "" {
		sum.Report = fmt.Sprintf("report_%s.xml", session)
	}

	if !opts.DisableLog {
		sum.LogFile = absPath(filepath.Join(opts.DumpDir, session) + ".log")
	}

	console.Info("Starting simulation...")
	console.Infof("Source: \t%s", src)
	console.Infof("Jobs: \t%d", len(js))
	if opts.DumpDir != "" {
		console.Infof("Destination: \t%s", absPath(opts.DumpDir))
	}

	outLog := "disabled"
	if !opts.DisableLog {
		outLog = sum.LogFile
	}
	console.Infof("Output Log: \t%s", outLog)
	console.Println("")

	if opts.DumpDir != "" {
		if err := os.MkdirAll(opts.DumpDir, 0755); err != nil {
			return sum, err
		}
	}

	log, logFile, err := setupLogger(sum.LogFile, opts.LogLevel)
	if err != nil {
		return sum, err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	reportFile, err := os.Create(sum.Report)
	if err != nil {
		return sum, err
	}
	defer reportFile.Close()

	report := planxml.NewWriter(reportFile)
	defer report.Close()

	err = report.WriteHeader(planxml.Header{
		XmlOutput: planxml.XmlOutputVersion,
		Creator: planxml.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: planxml.GetExecEnv(),
		},
		Source: sourceOf(src, len(js)),
	})
	if err != nil {
		return sum, err
	}

	plansOut := out
	var progress *pbar.ProgressBarState
	if opts.Quiet {
		plansOut = io.Discard
		progress = pbar.NewProgressBarState(out, len(js))
	}

	r := render.New(plansOut, opts.Styler)
	r.ShowMethod = opts.ShowMethod

	start := time.Now()
	for i, job := range js {
		p, err := raid.PlanRequest(job.Array, job.Request)
		if err != nil {
			log.Error("unable to plan job", "job", i, "err", err)
			return sum, fmt.Errorf("job %d: %w", i, err)
		}

		for _, sp := range p.Stripes {
			log.Debug("stripe planned",
				"job", i,
				"stripe", sp.Request.Stripe,
				"offset", sp.Request.Offset,
				"len", sp.Request.Length,
				"fault", sp.Layout.Fault.String(),
				"method", sp.Method.String(),
				"cost", sp.Cost,
			)
			sum.Methods[sp.Method]++
		}
		log.Info("job planned",
			"job", i,
			"array", describeArray(job.Array),
			"nature", job.Request.Nature.String(),
			"offset", job.Request.Offset,
			"len", job.Request.Length,
			"stripes", len(p.Stripes),
			"cost", p.Cost(),
		)

		if err := r.RenderPlan(p); err != nil {
			return sum, err
		}

		if opts.DumpDir != "" {
			if err := dumpPlan(opts.DumpDir, JobFileName(i), p, opts); err != nil {
				return sum, err
			}
		}

		if err := report.WriteJob(JobObject(i, p)); err != nil {
			log.Error("unable to write report entry", "job", i, "err", err)
			return sum, fmt.Errorf("job %d: %w", i, err)
		}

		sum.Jobs++
		sum.Stripes += len(p.Stripes)
		sum.Cost += p.Cost()

		if progress != nil {
			progress.Add(len(p.Stripes), p.Cost())
			progress.Render(false)
		}
	}
	sum.Duration = time.Since(start)

	if progress != nil {
		progress.Render(true)
		progress.Finish()
		console.Println("")
	}

	if err := report.Close(); err != nil {
		return sum, err
	}

	console.Info("Simulation completed!")
	console.Infof("Jobs: \t%d", sum.Jobs)
	console.Infof("Stripe requests: \t%d", sum.Stripes)
	for _, m := range sortedMethods(sum.Methods) {
		console.Infof("  %s: \t%d", m, sum.Methods[m])
	}
	console.Infof("Total read: \t%s", humanize.IBytes(sum.Cost))
	console.Infof("Duration: \t%s", FormatDurationHMS(sum.Duration))
	console.Infof("Report saved to: \t%s", absPath(sum.Report))

	if !opts.DisableLog {
		console.Infof("Detailed simulation log: \t%s", sum.LogFile)
	}
	return sum, nil
}

// RenderJobs plans and renders every job on its own, keyed by JobFileName.
func RenderJobs(js []jobs.Job, st render.Styler, showMethod bool) ([]Rendered, error) {
	rendered := make([]Rendered, 0, len(js))
	for i, job := range js {
		p, err := raid.PlanRequest(job.Array, job.Request)
		if err != nil {
			return nil, fmt.Errorf("job %d: %w", i, err)
		}

		var buf bytes.Buffer
		r := render.New(&buf, st)
		r.ShowMethod = showMethod
		if err := r.RenderPlan(p); err != nil {
			return nil, err
		}
		rendered = append(rendered, Rendered{Name: JobFileName(i), Text: buf.Bytes()})
	}
	return rendered, nil
}

type Rendered struct {
	Name string
	Text []byte
}

func JobFileName(index int) string {
	return fmt.Sprintf("job_%03d.txt", index)
}

func dumpPlan(dumpDir, name string, p *raid.Plan, opts Options) error {
	f, err := os.Create(filepath.Join(dumpDir, name))
	if err != nil {
		return fmt.Errorf("failed to create file %q: %w", name, err)
	}
	defer f.Close()

	// Dumped files never carry escape sequences.
	r := render.New(f, render.Plain{})
	r.ShowMethod = opts.ShowMethod
	return r.RenderPlan(p)
}

func sourceOf(src string, n int) planxml.Source {
	if _, err := jobs.Lookup(src); err == nil {
		return planxml.Source{Name: src, Jobs: n}
	}
	return planxml.Source{File: src, Jobs: n}
}

func describeArray(a raid.DiskArray) string {
	s := fmt.Sprintf("%s dd=%d su=%s", a.Level, a.DataDisks, humanize.IBytes(uint64(a.StripingUnit)))
	if a.Faulty() {
		s += fmt.Sprintf(" faulty=%d", a.FaultyDisk)
	}
	return s
}

func sortedMethods(counts map[raid.Method]int) []raid.Method {
	methods := make([]raid.Method, 0, len(counts))
	for m := range counts {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		return methods[i] < methods[j]
	})
	return methods
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// GenSessionID names a simulation session after its start time, in the
// "YYYYMMDD_HHMMSS" format.
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}

// FormatDurationHMS formats a time.Duration into HH:MM:SS string.
// Durations below one second are printed in seconds.
func FormatDurationHMS(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	totalSeconds := int64(d.Seconds())

	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// setupLogger initializes a new slog.Logger that writes to a specified file or discards output.
// If logFilePath is empty, logs are discarded.
// The returned *os.File (if not nil) should be closed by the caller.
func setupLogger(logFilePath string, minLevel slog.Level) (*slog.Logger, *os.File, error) {
	var writer io.Writer
	var file *os.File

	if logFilePath == "" {
		writer = io.Discard
	} else {
		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
		}

		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
		}
		writer = f
		file = f
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:     minLevel,
		AddSource: true,
	})
	return slog.New(handler), file, nil
}
