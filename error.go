package prolog

import (
	"errors"
	"fmt"
)

var (
	// ErrInstantiation is an error that signifies a term is variable where
	// it must not be.
	ErrInstantiation = errors.New("arguments are not sufficiently instantiated")

	// ErrStop can be returned by a solution handler to stop the search for
	// further solutions. The engine swallows it and returns normally.
	ErrStop = errors.New("enumeration stopped")

	// errProbeHit is the internal sentinel a probe's handler throws on the
	// first solution. It must never escape the frame that launched the
	// probe.
	errProbeHit = errors.New("probe succeeded")

	// ErrInsufficient is an error that signifies the input ended in the
	// middle of a term. A REPL sees it and keeps reading.
	ErrInsufficient = errors.New("insufficient input")
)

// SyntaxError is an error that signifies malformed surface syntax.
type SyntaxError struct {
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.Reason)
}

// DepthError is an error that signifies the solver's depth guard tripped.
type DepthError struct {
	Depth int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("maximum depth exceeded: %d", e.Depth)
}

// TypeError is an error that signifies an incorrect type.
type TypeError struct {
	ValidType string
	Culprit   Term
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid type: expected %s, got %s", e.ValidType, e.Culprit)
}

// UnknownOperatorError is an error that signifies an unrecognized
// arithmetic functor.
type UnknownOperatorError struct {
	Culprit Term
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown arithmetic operator: %s", e.Culprit)
}

// EvaluationError is an error that signifies an arithmetic fault other
// than a type mismatch, e.g. division by zero.
type EvaluationError struct {
	What string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error: %s", e.What)
}

// FormatError is an error that signifies a malformed format/1,2 call.
type FormatError struct {
	Directive string
	Reason    string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format error: %s: %s", e.Directive, e.Reason)
}
