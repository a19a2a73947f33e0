// Package contracts defines the typed snapshot and chunk records that flow
// between pipeline stages, along with the structural invariants spec.md §3
// places on them, and the five-kind error taxonomy of spec.md §7.
package contracts

import "fmt"

// Kind is the closed set of error kinds the Orchestrator maps every
// failure onto.
type Kind int

const (
	// KindValidation covers structural invariant violations on snapshots or
	// chunks: length mismatches, empty joint names, and the like. Never
	// recovered locally.
	KindValidation Kind = iota
	// KindSafetyRejection covers any T5 verifier failure. Non-fatal,
	// reported as REJECTED, and cached so re-submission is a cheap lookup.
	KindSafetyRejection
	// KindAdapterFailure covers T6 timeouts, rejections, cancellations, and
	// driver errors. Non-fatal, reported as FAILED, and cached.
	KindAdapterFailure
	// KindNotFound covers an unknown plan_id or chunk_id. Reported as
	// ERROR, never cached.
	KindNotFound
	// KindDeterminismViolation covers canonicalization or hash failures:
	// non-finite floats, unhashable inputs. Fatal, aborts the operation.
	KindDeterminismViolation
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindSafetyRejection:
		return "safety_rejection"
	case KindAdapterFailure:
		return "adapter_failure"
	case KindNotFound:
		return "not_found"
	case KindDeterminismViolation:
		return "determinism_violation"
	default:
		return "unknown"
	}
}

// Error is the typed failure every stage returns instead of a bare error,
// so the Orchestrator can map it onto one of the five outcomes without
// string-sniffing.
type Error struct {
	kind   Kind
	reason string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.reason, e.cause)
	}
	return e.reason
}

// Kind reports which of the five error kinds this failure belongs to.
func (e *Error) Kind() Kind { return e.kind }

// Reason is the human-readable message surfaced to callers (e.g. as the
// `reason` field of an execute_chunk result).
func (e *Error) Reason() string { return e.reason }

// Unwrap exposes the underlying cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// NewValidationError builds a KindValidation error.
func NewValidationError(reason string) *Error {
	return &Error{kind: KindValidation, reason: reason}
}

// NewSafetyRejection builds a KindSafetyRejection error with the verifier's
// human-readable reason string (spec.md §4.6).
func NewSafetyRejection(reason string) *Error {
	return &Error{kind: KindSafetyRejection, reason: reason}
}

// NewAdapterFailure builds a KindAdapterFailure error.
func NewAdapterFailure(reason string, cause error) *Error {
	return &Error{kind: KindAdapterFailure, reason: reason, cause: cause}
}

// NewNotFound builds a KindNotFound error.
func NewNotFound(reason string) *Error {
	return &Error{kind: KindNotFound, reason: reason}
}

// NewDeterminismViolation builds a KindDeterminismViolation error.
func NewDeterminismViolation(reason string, cause error) *Error {
	return &Error{kind: KindDeterminismViolation, reason: reason, cause: cause}
}
