package hist

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/anthonydresser/fluent-bit-hist/bin"
)

// SameShape reports whether h and o have the same number of axes with the
// same bin edges each.
func (h *Histogram[X, B]) SameShape(o *Histogram[X, B]) bool {
	if len(h.sizes) != len(o.sizes) {
		return false
	}
	for i := range h.sizes {
		if h.sizes[i] != o.sizes[i] {
			return false
		}
	}
	for i := range h.axes {
		if !slices.Equal(h.axes[i].Edges(), o.axes[i].Edges()) {
			return false
		}
	}
	return true
}

// Merge adds every bin of o into the matching bin of h. Bins must
// implement bin.Merger. o may be modified when its bins finalize on merge.
func (h *Histogram[X, B]) Merge(o *Histogram[X, B]) error {
	if !h.SameShape(o) {
		return fmt.Errorf("%w: %v vs %v", ErrShapeMismatch, h.sizes, o.sizes)
	}
	if _, ok := any(new(B)).(bin.Merger[B]); !ok {
		return fmt.Errorf("%T bins cannot be merged", *new(B))
	}
	return o.storage.ForEach(func(i int, ob *B) error {
		b, err := h.at(i)
		if err != nil {
			return err
		}
		if err := any(b).(bin.Merger[B]).Merge(ob); err != nil {
			return fmt.Errorf("bin %d: %w", i, err)
		}
		return nil
	})
}
