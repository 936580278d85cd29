package core

// OutcomeKind tags a validation outcome.
type OutcomeKind int

const (
	// OutcomeOK means the checked path may be used as is.
	OutcomeOK OutcomeKind = iota
	// OutcomeAdvisory means the path may be used but the user should see Message.
	OutcomeAdvisory
	// OutcomeBlocked means the transfer must not start until the path changes.
	OutcomeBlocked
)

// String returns the string representation of the outcome kind.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAdvisory:
		return "advisory"
	case OutcomeBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Outcome is the result of a validation pipeline. Callers decide from Kind
// whether a transfer may proceed and show Message to the user.
type Outcome struct {
	Kind    OutcomeKind
	Message string
}

// OK returns a passing outcome.
func OK() Outcome {
	return Outcome{Kind: OutcomeOK}
}

// Advisory returns a passing outcome carrying a warning.
func Advisory(msg string) Outcome {
	return Outcome{Kind: OutcomeAdvisory, Message: msg}
}

// Blocked returns a failing outcome.
func Blocked(msg string) Outcome {
	return Outcome{Kind: OutcomeBlocked, Message: msg}
}

func (o Outcome) IsOK() bool       { return o.Kind == OutcomeOK }
func (o Outcome) IsAdvisory() bool { return o.Kind == OutcomeAdvisory }
func (o Outcome) IsBlocked() bool  { return o.Kind == OutcomeBlocked }

// CanProceed reports whether the outcome allows the transfer to continue.
func (o Outcome) CanProceed() bool {
	return o.Kind != OutcomeBlocked
}

func (o Outcome) String() string {
	if o.Message == "" {
		return o.Kind.String()
	}
	return o.Kind.String() + ": " + o.Message
}

// Merge returns the most severe of the given outcomes. The first outcome of
// the winning kind is kept so its message is the one shown.
func Merge(outcomes ...Outcome) Outcome {
	result := OK()
	for _, o := range outcomes {
		if o.Kind > result.Kind {
			result = o
		}
	}
	return result
}
