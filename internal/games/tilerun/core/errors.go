package core

import "fmt"

// IllegalTransitionError reports an operation invoked while the machine is
// in a phase that does not permit it. It always indicates a sequencing bug
// in the calling layer, so it carries both sides of the mismatch.
type IllegalTransitionError struct {
	Op    string // The attempted operation
	Phase Phase  // The phase the machine was in
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition: %s is not allowed in %s", e.Op, e.Phase)
}

// ConfigurationError reports an invalid match setup. It is only produced at
// construction time, before any turn is played.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + e.Reason
}

// InvariantViolationError reports a broken precondition that the normal
// transition checks cannot express, such as moving a pawn when no dice roll
// has been recorded. Treated like an illegal transition: loud, never
// recovered internally.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return "invariant violation: " + e.Reason
}
