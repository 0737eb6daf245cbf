package inputs

// Button identifies one of the logical buttons the effect responds to.
type Button int

const (
	// Primary drives the noise threshold.
	Primary Button = iota
	// Secondary drives the smear amount.
	Secondary
	// Reset restores the parameter defaults while held.
	Reset

	NumButtons
)

func (b Button) String() string {
	switch b {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Reset:
		return "reset"
	}
	return "unknown"
}

// State is one frame's sample of the pointer and buttons.
// X and Y are in presentation-surface pixels, origin top-left.
type State struct {
	X, Y    float64
	Buttons [NumButtons]bool
}

// Pressed reports whether b is held in this sample.
func (s State) Pressed(b Button) bool {
	if b < 0 || b >= NumButtons {
		return false
	}
	return s.Buttons[b]
}
