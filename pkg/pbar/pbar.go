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
package pbar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const MinRefreshRate = time.Millisecond * 500

// ProgressBarState holds all the data needed to render the progress of a
// simulation session.
type ProgressBarState struct {
	Out io.Writer

	TotalJobs     int
	ProcessedJobs int
	Stripes       int
	BytesRead     uint64

	StartTime      time.Time
	LastUpdateTime time.Time
}

// NewProgressBarState initializes a new ProgressBarState
func NewProgressBarState(out io.Writer, totalJobs int) *ProgressBarState {
	return &ProgressBarState{
		Out:            out,
		TotalJobs:      totalJobs,
		StartTime:      time.Now(),
		LastUpdateTime: time.Unix(0, 0),
	}
}

// Add records a planned job.
func (pbs *ProgressBarState) Add(stripes int, bytesRead uint64) {
	pbs.ProcessedJobs++
	pbs.Stripes += stripes
	pbs.BytesRead += bytesRead
}

// Render updates and prints the progress bar line, at most once every
// MinRefreshRate unless forced.
func (pbs *ProgressBarState) Render(force bool) {
	if !force && time.Since(pbs.LastUpdateTime) < MinRefreshRate {
		return
	}

	percentage := 100.0
	if pbs.TotalJobs > 0 {
		percentage = float64(pbs.ProcessedJobs) / float64(pbs.TotalJobs) * 100
	}

	const barLength = 20
	filledLen := int(float64(barLength) * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	elapsed := time.Since(pbs.StartTime).Seconds()
	jobsPerSec := 0.0
	if elapsed > 0 {
		jobsPerSec = float64(pbs.ProcessedJobs) / elapsed
	}

	var etaStr string
	if pbs.ProcessedJobs > 0 && jobsPerSec > 0 {
		etaSeconds := float64(pbs.TotalJobs-pbs.ProcessedJobs) / jobsPerSec
		etaStr = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(etaSeconds/3600),
			int(etaSeconds/60)%60,
			int(etaSeconds)%60)
	} else {
		etaStr = "calculating..."
	}

	pbs.LastUpdateTime = time.Now()

	// \r moves the cursor to the beginning of the line, trailing spaces
	// clear what is left of a longer previous line.
	fmt.Fprintf(pbs.Out, "\r[INFO] Progress: [%s] %3.0f%% (%d/%d jobs) | Stripes: %d | Read: %s | @ %.2f jobs/s [%s]    ",
		bar,
		percentage,
		pbs.ProcessedJobs,
		pbs.TotalJobs,
		pbs.Stripes,
		humanize.IBytes(pbs.BytesRead),
		jobsPerSec,
		etaStr)
}

// Finish prints a newline, ending the progress bar output.
func (pbs *ProgressBarState) Finish() {
	fmt.Fprintln(pbs.Out)
}
