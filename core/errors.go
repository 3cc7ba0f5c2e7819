package dialog

import "errors"

// FailureKind classifies why an operation could not produce a result.
type FailureKind string

const (
	// FailureInvalidState marks an operation that is not valid in the
	// current connection or listening state.
	FailureInvalidState FailureKind = "invalid_state"
	// FailureInvalidArgument marks a rejected input value, such as an
	// unrecognized mode string or a malformed path.
	FailureInvalidArgument FailureKind = "invalid_argument"
	// FailureConflict marks a concurrent incompatible operation.
	FailureConflict FailureKind = "conflict"
	// FailureCancelled marks an operation resolved through Close or an
	// explicit cancel.
	FailureCancelled FailureKind = "cancelled"
	// FailureUpstream wraps an opaque failure surfaced unchanged from the
	// service collaborator.
	FailureUpstream FailureKind = "upstream"
)

var (
	ErrNoSession           = errors.New("no session exists")
	ErrNoServiceClient     = errors.New("no service client configured")
	ErrNotConnected        = errors.New("session is not connected")
	ErrSessionClosed       = errors.New("session has been torn down")
	ErrLifecyclePending    = errors.New("a connect or disconnect is already pending")
	ErrContinuousListening = errors.New("continuous listening is active")
	ErrOperationCancelled  = errors.New("operation cancelled")
)

// OpError carries the failure classification for one operation.
type OpError struct {
	Op   string
	Kind FailureKind
	Err  error
}

func (e *OpError) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OpError) Unwrap() error { return e.Err }

func opError(op string, kind FailureKind, err error) *OpError {
	return &OpError{Op: op, Kind: kind, Err: err}
}

// KindOf extracts the failure kind recorded on err. Errors that carry no
// classification count as upstream failures.
func KindOf(err error) FailureKind {
	if err == nil {
		return ""
	}

	var opErr *OpError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return FailureUpstream
}
