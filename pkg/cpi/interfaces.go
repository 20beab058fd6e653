package cpi

import "context"

// Provider is the capability interface implemented once per backend. Hosts
// select an implementation at load time and drive it exclusively through
// Dispatch.
type Provider interface {
	// Name returns a short identifier for the backend, e.g. "aws".
	Name() string

	// Dispatch executes one action to completion. It never panics and never
	// returns an unclassified error: any failure surfaces as a Failure
	// result carrying a cpierrors kind. The parameter bag is not retained
	// after the call returns.
	Dispatch(ctx context.Context, action string, params map[string]any) Result
}

// Result is the tagged outcome of one dispatched action.
//
// Exactly one of the three shapes holds:
//   - Success:        Err == nil, Warning == ""
//   - PartialSuccess: Err == nil, Warning != "" (composite action whose later
//     step failed after the primary resource was created; Payload still
//     identifies that resource so the host can retry or clean up)
//   - Failure:        Err != nil
type Result struct {
	// Payload is one of Worker, Volume, Snapshot, []Worker, []Volume, an
	// existence bool, or nil for actions whose result shape is bare success.
	Payload any

	// Warning is the non-fatal failure attached to a partial success.
	Warning string

	// Err is the classified failure, nil on (partial) success.
	Err error
}

// Success wraps a payload in a fully successful result.
func Success(payload any) Result {
	return Result{Payload: payload}
}

// PartialSuccess wraps a created resource together with the warning from a
// failed follow-up step.
func PartialSuccess(payload any, warning string) Result {
	return Result{Payload: payload, Warning: warning}
}

// Failure wraps a classified error.
func Failure(err error) Result {
	return Result{Err: err}
}

// Failed reports whether the action failed outright.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Partial reports whether the action succeeded with a non-fatal warning.
func (r Result) Partial() bool {
	return r.Err == nil && r.Warning != ""
}
