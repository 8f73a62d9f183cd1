package bin

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFillShape is returned when a bin supports none of the
	// operations that could absorb the given payload.
	ErrUnsupportedFillShape = errors.New("unsupported fill shape")
	// ErrWeightsMismatch is returned when an event carries a different
	// number of weights than a bin was sized for.
	ErrWeightsMismatch = errors.New("weights mismatch")
)

// Incrementer counts one unweighted sample.
type Incrementer interface {
	Inc()
}

// Adder absorbs a single weight.
type Adder interface {
	Add(w float64)
}

// Caller runs custom accumulation logic over the payload, which may be
// empty.
type Caller interface {
	Call(args ...float64) error
}

// EventFiller absorbs the weight(s) carried by an explicit fill context.
type EventFiller interface {
	FillEvent(ev *Event) error
}

// Finalizer flushes any state buffered inside a bin.
type Finalizer interface {
	Finalize()
}

// Merger combines another bin of the same type into the receiver.
type Merger[B any] interface {
	Merge(o *B) error
}

// Schema exposes the accumulated fields of a bin to serializers.
type Schema interface {
	Fields() []string
	Values() []float64
}

// Filler decides how a payload is merged into a bin.
type Filler interface {
	Fill(b any, args ...float64) error
}

// FillerFunc adapts a function to the Filler interface.
type FillerFunc func(b any, args ...float64) error

func (f FillerFunc) Fill(b any, args ...float64) error { return f(b, args...) }

// DefaultFiller is the priority based policy implemented by Fill.
var DefaultFiller Filler = FillerFunc(Fill)

// Fill merges the payload into b, a pointer to a bin, using the first
// supported strategy:
//
//  1. no payload, b is an Incrementer
//  2. no payload, b is a Caller
//  3. one value, b is an Adder
//  4. one or more values, b is a Caller
func Fill(b any, args ...float64) error {
	if len(args) == 0 {
		if inc, ok := b.(Incrementer); ok {
			inc.Inc()
			return nil
		}
		if c, ok := b.(Caller); ok {
			return c.Call()
		}
		return fmt.Errorf("%w: %T takes no empty fill", ErrUnsupportedFillShape, b)
	}
	if len(args) == 1 {
		if a, ok := b.(Adder); ok {
			a.Add(args[0])
			return nil
		}
	}
	if c, ok := b.(Caller); ok {
		return c.Call(args...)
	}
	return fmt.Errorf("%w: %T cannot absorb %d values", ErrUnsupportedFillShape, b, len(args))
}

// FillEvent merges the fill context into b, a pointer to a bin.
func FillEvent(b any, ev *Event) error {
	if ev == nil {
		return fmt.Errorf("%w: nil event", ErrUnsupportedFillShape)
	}
	if f, ok := b.(EventFiller); ok {
		return f.FillEvent(ev)
	}
	return fmt.Errorf("%w: %T does not take events", ErrUnsupportedFillShape, b)
}
