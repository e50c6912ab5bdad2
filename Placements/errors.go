package Placements

import (
	"fmt"

	"github.com/pkg/errors"
)

// PreconditionViolation is returned when an operation receives an out of range
// slot, a self transition, or a universe that doesn't fit the handle type. The
// tree is never modified when it is returned.
type PreconditionViolation struct {
	Op    string // operation that rejected the call.
	Arg   string // offending argument.
	Value uint64
	Bound uint64 // largest accepted value. Unused for self transitions.
}

func (e *PreconditionViolation) Error() string {
	if e.Arg == "transition" {
		return fmt.Sprintf("%s: self transition at slot %d", e.Op, e.Value)
	}
	return fmt.Sprintf("%s: %s=%d out of range [0, %d]", e.Op, e.Arg, e.Value, e.Bound)
}

// IsPreconditionViolation reports whether err wraps a *PreconditionViolation.
func IsPreconditionViolation(err error) bool {
	var pv *PreconditionViolation
	return errors.As(err, &pv)
}

func violation(op, arg string, value, bound uint64) error {
	return errors.WithStack(&PreconditionViolation{Op: op, Arg: arg, Value: value, Bound: bound})
}

func selfTransition(op string, s uint64) error {
	return errors.WithStack(&PreconditionViolation{Op: op, Arg: "transition", Value: s, Bound: s})
}
