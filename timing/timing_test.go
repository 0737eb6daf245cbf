package timing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/richinsley/goshadernoise/diag"
	"github.com/stretchr/testify/assert"
)

func newTracker() (*Tracker, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewTracker(diag.New(&buf, termenv.WithProfile(termenv.Ascii))), &buf
}

func TestTickSmoothsAsAverage(t *testing.T) {
	tr, _ := newTracker()
	s := NewState(10)
	s.Smoothed = 0.020

	frames := []float64{10.016, 10.050, 10.051, 10.070}
	for _, now := range frames {
		before := s
		s = tr.Tick(s, now)
		assert.Equal(t, now-before.Previous, s.Frame)
		assert.Equal(t, 0.5*(before.Smoothed+(now-before.Previous)), s.Smoothed)
		assert.Equal(t, now, s.Previous)
		assert.Equal(t, now*0.001, s.Slow)
	}
}

func TestTickLagsBehindSpike(t *testing.T) {
	tr, _ := newTracker()
	s := NewState(0)
	s = tr.Tick(s, 0.016)
	s = tr.Tick(s, 0.516)
	assert.Less(t, s.Smoothed, s.Frame)
}

func TestReportsOncePerInterval(t *testing.T) {
	tr, buf := newTracker()
	s := NewState(0)

	var reports []float64
	for i := 1; i <= 200; i++ {
		now := float64(i) * 0.016
		prev := s.NextReport
		s = tr.Tick(s, now)
		if s.NextReport != prev {
			reports = append(reports, now)
			assert.Equal(t, now+1.0, s.NextReport)
		}
	}

	// 3.2 seconds of frames
	assert.Len(t, reports, 3)
	for i := 1; i < len(reports); i++ {
		assert.GreaterOrEqual(t, reports[i]-reports[i-1], 1.0)
	}
	assert.Equal(t, 3, strings.Count(buf.String(), "frame: "))
}

func TestReportIntervalIgnoresFrameRate(t *testing.T) {
	tr, buf := newTracker()
	s := NewState(0)
	s = tr.Tick(s, 0.5)
	assert.Empty(t, buf.String())
	s = tr.Tick(s, 2.5)
	assert.Contains(t, buf.String(), "frame: ")
	assert.Equal(t, 3.5, s.NextReport)
	s = tr.Tick(s, 3.0)
	assert.Equal(t, 1, strings.Count(buf.String(), "frame: "))
}

func TestNilSink(t *testing.T) {
	tr := NewTracker(nil)
	s := tr.Tick(NewState(0), 5)
	assert.Equal(t, 6.0, s.NextReport)
}
