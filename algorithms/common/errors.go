package common

import (
	"errors"
	"fmt"
)

// Kind classifies engine failures
type Kind int

const (
	// KindValidation marks invalid or missing parameters, caught before any
	// array is allocated
	KindValidation Kind = iota + 1
	// KindComputation marks degenerate transform input such as a zero-length array
	KindComputation
	// KindIndex marks a signal index outside the collection bounds
	KindIndex
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindComputation:
		return "computation"
	case KindIndex:
		return "index"
	default:
		return "unknown"
	}
}

var (
	ErrValidation  = errors.New("validation error")
	ErrComputation = errors.New("computation error")
	ErrIndex       = errors.New("index error")
)

// Error is the structured failure returned by the engine: a kind, the
// operation that rejected the request and a human-readable message.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, e.Msg)
}

// Is lets errors.Is match the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrComputation:
		return e.Kind == KindComputation
	case ErrIndex:
		return e.Kind == KindIndex
	}
	return false
}

// NewValidationError builds a KindValidation error for op.
func NewValidationError(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NewComputationError builds a KindComputation error for op.
func NewComputationError(op, format string, args ...any) error {
	return &Error{Kind: KindComputation, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NewIndexError builds a KindIndex error for op.
func NewIndexError(op, format string, args ...any) error {
	return &Error{Kind: KindIndex, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or 0 when err
// did not originate in the engine.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
