package hist

import (
	"golang.org/x/exp/slices"
)

// Storage holds the bins of a histogram addressed by linear index.
type Storage[B any] interface {
	// At returns the bin at index i. Implementations may create it.
	At(i int) *B

	// ForEach visits bins in ascending index order. If fn returns an
	// error the traversal stops and the error is returned.
	ForEach(fn func(i int, b *B) error) error
}

// Sized is implemented by storages with a fixed number of bins. Only sized
// storages are bounds checked.
type Sized interface {
	Len() int
}

// Dense stores every bin in a slice.
type Dense[B any] struct {
	bins []B
}

func NewDense[B any](n int, init func() B) *Dense[B] {
	bins := make([]B, n)
	if init != nil {
		for i := range bins {
			bins[i] = init()
		}
	}
	return &Dense[B]{bins: bins}
}

func (d *Dense[B]) At(i int) *B { return &d.bins[i] }
func (d *Dense[B]) Len() int    { return len(d.bins) }

func (d *Dense[B]) ForEach(fn func(i int, b *B) error) error {
	for i := range d.bins {
		if err := fn(i, &d.bins[i]); err != nil {
			return err
		}
	}
	return nil
}

// Sparse stores only the bins that were accessed. It is unsized: any index
// is accepted and a bin is created on first access.
type Sparse[B any] struct {
	bins map[int]*B
	init func() B
}

func NewSparse[B any](init func() B) *Sparse[B] {
	return &Sparse[B]{bins: make(map[int]*B), init: init}
}

func (s *Sparse[B]) At(i int) *B {
	if b, ok := s.bins[i]; ok {
		return b
	}
	b := new(B)
	if s.init != nil {
		*b = s.init()
	}
	s.bins[i] = b
	return b
}

// Count is the number of bins created so far.
func (s *Sparse[B]) Count() int { return len(s.bins) }

func (s *Sparse[B]) ForEach(fn func(i int, b *B) error) error {
	keys := make([]int, 0, len(s.bins))
	for k := range s.bins {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := fn(k, s.bins[k]); err != nil {
			return err
		}
	}
	return nil
}
