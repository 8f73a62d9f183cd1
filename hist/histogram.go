package hist

import (
	"fmt"

	"github.com/anthonydresser/fluent-bit-hist/axis"
	"github.com/anthonydresser/fluent-bit-hist/bin"
)

// Histogram partitions an N-dimensional coordinate space with one axis per
// dimension and keeps one bin of type B per cell, including the underflow
// and overflow cells of every axis.
//
// A Histogram is not safe for concurrent use.
type Histogram[X axis.Edge, B any] struct {
	axes    []axis.Axis[X]
	sizes   []int
	storage Storage[B]
	filler  bin.Filler
}

type config[B any] struct {
	init   func() B
	sparse bool
	filler bin.Filler
}

// Option configures a Histogram in New.
type Option[B any] func(*config[B])

// WithInit sets the constructor used for every bin instead of the zero
// value.
func WithInit[B any](init func() B) Option[B] {
	return func(c *config[B]) { c.init = init }
}

// WithSparse stores only the bins that are touched.
func WithSparse[B any]() Option[B] {
	return func(c *config[B]) { c.sparse = true }
}

// WithFiller replaces bin.DefaultFiller.
func WithFiller[B any](f bin.Filler) Option[B] {
	return func(c *config[B]) { c.filler = f }
}

// New creates a histogram over the given axes. The axes are shared, not
// copied.
func New[X axis.Edge, B any](axes []axis.Axis[X], opts ...Option[B]) *Histogram[X, B] {
	c := config[B]{filler: bin.DefaultFiller}
	for _, opt := range opts {
		opt(&c)
	}

	h := &Histogram[X, B]{
		axes:   axes,
		sizes:  Sizes(axes),
		filler: c.filler,
	}
	if c.sparse {
		h.storage = NewSparse(c.init)
	} else {
		h.storage = NewDense(TotalSize(h.sizes), c.init)
	}
	return h
}

func (h *Histogram[X, B]) NDim() int { return len(h.axes) }

// Size is the total number of bins, overflow bins included.
func (h *Histogram[X, B]) Size() int { return TotalSize(h.sizes) }

func (h *Histogram[X, B]) Axis(i int) axis.Axis[X] { return h.axes[i] }

func (h *Histogram[X, B]) Axes() []axis.Axis[X] { return h.axes }

func (h *Histogram[X, B]) Storage() Storage[B] { return h.storage }

// JoinIndex turns one index per axis into a linear index. A single index
// is taken as linear already and returned unchanged.
func (h *Histogram[X, B]) JoinIndex(idx ...int) (int, error) {
	if len(idx) == 1 {
		return idx[0], nil
	}
	if len(idx) != len(h.axes) {
		return 0, fmt.Errorf("%w: %d indices for %d axes", ErrArityMismatch, len(idx), len(h.axes))
	}
	return JoinIndex(h.sizes, idx), nil
}

// BinAt returns the bin at the given per-axis or linear index.
func (h *Histogram[X, B]) BinAt(idx ...int) (*B, error) {
	i, err := h.JoinIndex(idx...)
	if err != nil {
		return nil, err
	}
	return h.at(i)
}

func (h *Histogram[X, B]) at(i int) (*B, error) {
	if s, ok := h.storage.(Sized); ok && (i < 0 || i >= s.Len()) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, s.Len())
	}
	return h.storage.At(i), nil
}

// FindBinIndex returns the linear index of the bin containing xs.
func (h *Histogram[X, B]) FindBinIndex(xs ...X) (int, error) {
	if len(xs) != len(h.axes) {
		return 0, fmt.Errorf("%w: %d coordinates for %d axes", ErrArityMismatch, len(xs), len(h.axes))
	}
	return FindIndex(h.axes, xs), nil
}

func (h *Histogram[X, B]) FindBin(xs ...X) (*B, error) {
	i, err := h.FindBinIndex(xs...)
	if err != nil {
		return nil, err
	}
	return h.at(i)
}

// Fill locates the bin of xs and merges the payload into it with the
// histogram's filler.
func (h *Histogram[X, B]) Fill(xs []X, args ...float64) error {
	b, err := h.FindBin(xs...)
	if err != nil {
		return err
	}
	return h.filler.Fill(b, args...)
}

// FillAt is Fill with the bin given by index instead of coordinates.
func (h *Histogram[X, B]) FillAt(idx []int, args ...float64) error {
	b, err := h.BinAt(idx...)
	if err != nil {
		return err
	}
	return h.filler.Fill(b, args...)
}

// FillEvent merges the fill context ev into the bin of xs.
func (h *Histogram[X, B]) FillEvent(xs []X, ev *bin.Event) error {
	b, err := h.FindBin(xs...)
	if err != nil {
		return err
	}
	return bin.FillEvent(b, ev)
}

func (h *Histogram[X, B]) FillEventAt(idx []int, ev *bin.Event) error {
	b, err := h.BinAt(idx...)
	if err != nil {
		return err
	}
	return bin.FillEvent(b, ev)
}

// Sample is one fill request. When Event is set the fill goes through
// FillEvent and Args is ignored.
type Sample[X axis.Edge] struct {
	Coords []X
	Args   []float64
	Event  *bin.Event
}

func (h *Histogram[X, B]) FillSample(s Sample[X]) error {
	if s.Event != nil {
		return h.FillEvent(s.Coords, s.Event)
	}
	return h.Fill(s.Coords, s.Args...)
}

// Finalize commits buffered state of every bin that needs it. Histograms
// of NLO bins must be finalized before they are read.
func (h *Histogram[X, B]) Finalize() {
	if _, ok := any(new(B)).(bin.Finalizer); !ok {
		return
	}
	_ = h.storage.ForEach(func(_ int, b *B) error {
		any(b).(bin.Finalizer).Finalize()
		return nil
	})
}

// ForEach visits every stored bin in index order.
func (h *Histogram[X, B]) ForEach(fn func(i int, b *B) error) error {
	return h.storage.ForEach(fn)
}
