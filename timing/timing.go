package timing

import "github.com/richinsley/goshadernoise/diag"

const (
	// SlowScale converts wall seconds to the slow time base.
	SlowScale = 0.001
	// ReportInterval is the wall time between performance reports.
	ReportInterval = 1.0
)

// State is the per-frame timing, in seconds.
type State struct {
	Now      float64
	Previous float64
	// Frame is the last instantaneous frame duration.
	Frame float64
	// Smoothed is an exponential moving average of Frame.
	Smoothed float64
	// Slow advances SlowScale times as fast as Now.
	Slow       float64
	NextReport float64
}

// NewState starts timing at now. The first report is due one interval later.
func NewState(now float64) State {
	return State{
		Now:        now,
		Previous:   now,
		Slow:       now * SlowScale,
		NextReport: now + ReportInterval,
	}
}

// Tracker advances State once per frame and reports the smoothed frame rate.
type Tracker struct {
	sink *diag.Sink
}

func NewTracker(sink *diag.Sink) *Tracker {
	return &Tracker{sink: sink}
}

// Tick returns the state for a frame starting at now.
func (t *Tracker) Tick(s State, now float64) State {
	s.Frame = now - s.Previous
	s.Previous = now
	s.Now = now
	s.Smoothed = 0.5 * (s.Smoothed + s.Frame)
	s.Slow = now * SlowScale

	if now >= s.NextReport {
		if t.sink != nil {
			t.sink.Performance(s.Smoothed)
		}
		s.NextReport = now + ReportInterval
	}
	return s
}
