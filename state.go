package easyapi

// Status is the resting or transient state of an orchestrator.
type Status int

const (
	// StatusIdle is the state before the first call settles.
	StatusIdle Status = iota
	// StatusLoading means a call is waiting on the operation.
	StatusLoading
	// StatusSuccess means the last applied outcome was a value.
	StatusSuccess
	// StatusFailure means the last applied outcome was an error.
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "idle"
	}
}

// State is a snapshot of an orchestrator's observable state.
//
// HasResult reports whether Result holds a value from a successful call;
// otherwise Result is the zero value. Err is non-nil only after a failure.
// While a call is loading the previous Result or Err is kept.
type State[T any] struct {
	Status    Status
	IsLoading bool
	Result    T
	HasResult bool
	Err       error
	// Seq increases with every published change.
	Seq uint64
}
