package assistant

// Status is the assistant turn state.
type Status int

const (
	Idle Status = iota
	Listening
	Processing
	Displaying
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case Processing:
		return "processing"
	case Displaying:
		return "displaying"
	default:
		return "unknown"
	}
}

// Turn numbers each interaction; results tagged with an older turn are stale.
type Turn uint64

// Controller is the turn state machine. It performs no I/O: callers start
// capture, requests and playback based on the transitions it accepts. It is
// owned by a single event loop and is not safe for concurrent use.
type Controller struct {
	status     Status
	turn       Turn
	transcript string
	reply      string
}

func (c *Controller) Status() Status     { return c.status }
func (c *Controller) Turn() Turn         { return c.turn }
func (c *Controller) Transcript() string { return c.transcript }
func (c *Controller) Reply() string      { return c.reply }

func (c *Controller) begin(s Status, transcript string) Turn {
	c.turn++
	c.status = s
	c.transcript = transcript
	c.reply = ""
	return c.turn
}

// StartListening begins a voice capture. It is refused while listening or
// processing.
func (c *Controller) StartListening() (Turn, bool) {
	switch c.status {
	case Idle, Displaying:
		return c.begin(Listening, ""), true
	}
	return c.turn, false
}

// Submit starts a typed turn. A capture in progress is abandoned. It is
// refused while a request is outstanding or when text is blank.
func (c *Controller) Submit(text string) (Turn, bool) {
	if c.status == Processing || isBlank(text) {
		return c.turn, false
	}
	return c.begin(Processing, text), true
}

// Transcribed delivers the final transcript of capture t. It reports whether
// the request for it should now be issued.
func (c *Controller) Transcribed(t Turn, text string) bool {
	if c.status != Listening || t != c.turn {
		return false
	}
	if isBlank(text) {
		c.CaptureFailed(t)
		return false
	}
	c.status = Processing
	c.transcript = text
	return true
}

// CaptureFailed returns a listening turn to idle with nothing shown.
func (c *Controller) CaptureFailed(t Turn) bool {
	if c.status != Listening || t != c.turn {
		return false
	}
	c.status = Idle
	c.transcript = ""
	c.reply = ""
	return true
}

// CaptureUnavailable reports in-band that voice capture is not supported.
func (c *Controller) CaptureUnavailable() {
	c.begin(Displaying, "")
	c.reply = MsgSpeechUnsupported
}

// Resolve delivers the reply for turn t. It reports whether the reply was
// accepted, in which case the caller should start spoken playback.
func (c *Controller) Resolve(t Turn, reply string) bool {
	if c.status != Processing || t != c.turn {
		return false
	}
	c.status = Displaying
	c.reply = reply
	return true
}

// Dismiss clears the turn and invalidates anything still outstanding.
func (c *Controller) Dismiss() {
	c.turn++
	c.status = Idle
	c.transcript = ""
	c.reply = ""
}

func isBlank(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '　':
		default:
			return false
		}
	}
	return true
}
