package planxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type report struct {
	XMLName   xml.Name    `xml:"raidplan"`
	XmlOutput string      `xml:"xmloutputversion,attr"`
	Creator   Creator     `xml:"creator"`
	Source    Source      `xml:"source"`
	Jobs      []JobObject `xml:"job"`
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf)
	err := w.WriteHeader(Header{
		XmlOutput: XmlOutputVersion,
		Creator: Creator{
			Package:              "raidplan",
			Version:              "test",
			ExecutionEnvironment: GetExecEnv(),
		},
		Source: Source{Name: "demo", Jobs: 1},
	})
	require.NoError(t, err)

	faulty := 3
	job := JobObject{
		Index: 0,
		Array: ArrayObject{Level: "RAID5", DataDisks: 4, StripingUnit: 2048, FaultyDisk: &faulty},
		Request: RequestObject{
			Nature: "write",
			Offset: 1024,
			Length: 512,
		},
		Stripes: []StripeObject{{
			Index:       0,
			Offset:      1024,
			Length:      512,
			Method:      "rmw",
			Cost:        1024,
			Alternative: &AlternativeObject{Method: "rw", Cost: 6656},
			Scopes: []ScopeRun{
				{Group: "first", Offset: 1024, Length: 512, Units: 1},
				{Group: "parity", Offset: 1024, Length: 512, Units: 1},
			},
		}},
		Cost: 1024,
	}
	require.NoError(t, w.WriteJob(job))
	require.NoError(t, w.Close())

	out := buf.String()
	require.True(t, strings.HasPrefix(out, xml.Header))
	require.Contains(t, out, `<raidplan xmloutputversion="1.0">`)

	var rep report
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &rep))
	require.Equal(t, XmlOutputVersion, rep.XmlOutput)
	require.Equal(t, "raidplan", rep.Creator.Package)
	require.Equal(t, runtime.GOOS, rep.Creator.ExecutionEnvironment.OS)
	require.Equal(t, runtime.GOARCH, rep.Creator.ExecutionEnvironment.Arch)
	require.Equal(t, Source{Name: "demo", Jobs: 1}, rep.Source)

	require.Len(t, rep.Jobs, 1)
	got := rep.Jobs[0]
	require.Equal(t, job.Array, got.Array)
	require.Equal(t, job.Request, got.Request)
	require.Equal(t, job.Stripes, got.Stripes)
	require.Equal(t, uint64(1024), got.Cost)
}

func TestWriterFaultFreeArray(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{XmlOutput: XmlOutputVersion}))
	require.NoError(t, w.WriteJob(JobObject{
		Array: ArrayObject{Level: "RAID4", DataDisks: 2, StripingUnit: 512},
	}))
	require.NoError(t, w.Close())

	require.NotContains(t, buf.String(), "faulty_disk")
	require.NotContains(t, buf.String(), "alternative")
}

func TestWriterCloseTwice(t *testing.T) {
	var buf bytes.Buffer

	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader(Header{XmlOutput: XmlOutputVersion}))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	require.Equal(t, 1, strings.Count(buf.String(), "</raidplan>"))

	var rep report
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &rep))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterReportsWriteErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	require.Error(t, w.WriteHeader(Header{XmlOutput: XmlOutputVersion}))
	require.Error(t, w.WriteJob(JobObject{Array: ArrayObject{Level: "RAID5", DataDisks: 4, StripingUnit: 2048}}))
}
