package session

// State is the lifecycle position of a Coordinator.
type State int

const (
	StateIdle State = iota
	StateSourceSpecified
	StateProviderOpen
	StateValidated
	StateCommitting
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSourceSpecified:
		return "source-specified"
	case StateProviderOpen:
		return "provider-open"
	case StateValidated:
		return "validated"
	case StateCommitting:
		return "committing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// hasProvider reports whether a provider is open in state s.
func (s State) hasProvider() bool {
	return s == StateProviderOpen || s == StateValidated || s == StateCommitting
}
