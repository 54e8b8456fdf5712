// Package nav tracks which of the two screens is visible.
package nav

// Screen is one of the two top-level views.
type Screen int

const (
	Dashboard Screen = iota
	Alarms
)

func (s Screen) String() string {
	if s == Alarms {
		return "alarms"
	}
	return "dashboard"
}

// DefaultSwipeThreshold is the minimum horizontal drag, in cells.
const DefaultSwipeThreshold = 8

// Navigator switches screens on arrow keys and horizontal swipes. The zero
// value shows the dashboard and uses DefaultSwipeThreshold.
type Navigator struct {
	screen    Screen
	threshold int

	dragging bool
	startX   int
}

// New returns a navigator with the given swipe threshold.
func New(threshold int) *Navigator {
	return &Navigator{threshold: threshold}
}

func (n *Navigator) Screen() Screen { return n.screen }

// Show jumps to s and reports whether the screen changed.
func (n *Navigator) Show(s Screen) bool {
	if n.screen == s {
		return false
	}
	n.screen = s
	return true
}

// Key handles "left" (to alarms) and "right" (to dashboard).
func (n *Navigator) Key(key string) bool {
	switch key {
	case "left":
		return n.Show(Alarms)
	case "right":
		return n.Show(Dashboard)
	}
	return false
}

// Press records the start of a drag.
func (n *Navigator) Press(x int) {
	n.dragging = true
	n.startX = x
}

// Release ends a drag. A leftward drag past the threshold shows alarms and a
// rightward one shows the dashboard. Partial drags leave no state behind.
func (n *Navigator) Release(x int) bool {
	if !n.dragging {
		return false
	}
	n.dragging = false
	threshold := n.threshold
	if threshold <= 0 {
		threshold = DefaultSwipeThreshold
	}
	delta := n.startX - x
	switch {
	case delta > threshold:
		return n.Show(Alarms)
	case -delta > threshold:
		return n.Show(Dashboard)
	}
	return false
}
