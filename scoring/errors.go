// Package scoring implements the round scoring and tie-resolution rules:
// the points curve, per-player totals, race submission validation, round
// completion and the overtime decider. It operates on plain snapshots of
// round state and performs no I/O.
package scoring

import "fmt"

// Kind classifies a scoring failure so transport code can map it to a status.
type Kind int

const (
	// KindNotFound means a referenced entity does not resolve.
	KindNotFound Kind = iota + 1
	// KindInvalidState means the round is not in the status the operation needs.
	KindInvalidState
	// KindInvalidInput means the submission itself is malformed or inconsistent.
	KindInvalidInput
	// KindContract means the caller broke a function precondition. A bug,
	// not a runtime condition.
	KindContract
)

// Error is a scoring failure with a kind and a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func errInvalidState(format string, args ...any) error {
	return &Error{Kind: KindInvalidState, Reason: fmt.Sprintf(format, args...)}
}

func errInvalidInput(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Reason: fmt.Sprintf(format, args...)}
}

func errContract(format string, args ...any) error {
	return &Error{Kind: KindContract, Reason: fmt.Sprintf(format, args...)}
}
