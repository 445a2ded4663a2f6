package domain

// State is the account lifecycle state.
type State string

const (
	StatePending State = "pending_verification"
	StateActive  State = "active"
	StateLocked  State = "locked"
	// StateDeleted is terminal: no event ever leaves it.
	StateDeleted State = "deleted"
)

func IsValidState(s string) bool {
	switch State(s) {
	case StatePending, StateActive, StateLocked, StateDeleted:
		return true
	}
	return false
}

// Event is a requested lifecycle transition.
type Event string

const (
	EventVerify Event = "verify"
	EventLock   Event = "lock"
	EventUnlock Event = "unlock"
	EventDelete Event = "delete"
)

func IsValidEvent(e string) bool {
	switch Event(e) {
	case EventVerify, EventLock, EventUnlock, EventDelete:
		return true
	}
	return false
}

// Transition applies event to state. It is a pure lookup: the same
// (state, event) pair always yields the same next state or the same rejection.
func Transition(s State, e Event) (State, error) {
	switch e {
	case EventVerify:
		if s == StatePending {
			return StateActive, nil
		}
	case EventLock:
		if s == StateActive {
			return StateLocked, nil
		}
	case EventUnlock:
		if s == StateLocked {
			return StateActive, nil
		}
	case EventDelete:
		if s == StatePending || s == StateActive || s == StateLocked {
			return StateDeleted, nil
		}
	}
	return s, ErrInvalidTransition(s, e)
}
