// Package poll orders the responses of a repeatedly issued request so that
// only the most recently issued one is ever applied.
package poll

// Ticket identifies one issued request.
type Ticket uint64

// Sequencer tracks one logical poller. It is not safe for concurrent use; it
// belongs to the coordinator's update loop.
type Sequencer struct {
	issued   Ticket
	applied  Ticket
	inFlight int
}

// Issue starts a new request and returns its ticket.
func (s *Sequencer) Issue() Ticket {
	s.issued++
	s.inFlight++
	return s.issued
}

// Accept records the arrival of ticket's response and reports whether it
// should be applied. A response is applied only when no later-issued request
// has already been applied.
func (s *Sequencer) Accept(t Ticket) bool {
	if s.inFlight > 0 {
		s.inFlight--
	}
	if t <= s.applied || t > s.issued {
		return false
	}
	s.applied = t
	return true
}

// Current reports whether t is the latest issued ticket.
func (s *Sequencer) Current(t Ticket) bool {
	return t == s.issued
}

// Busy reports whether any issued request has not yet been answered.
func (s *Sequencer) Busy() bool {
	return s.inFlight > 0
}

// Applied is the ticket of the last applied response (zero if none).
func (s *Sequencer) Applied() Ticket {
	return s.applied
}
