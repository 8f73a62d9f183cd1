package bin

import "fmt"

// NLO accumulates weights of events that arrive as several correlated
// sub-contributions sharing one event ID. Contributions with the same ID
// landing in the same bin are summed first and committed as a single
// entry, so W2 squares the per-event sum rather than every piece.
//
// Sub-contributions of one event must be filled consecutively. The last
// event stays pending until Finalize; reading W or W2 before that misses it.
type NLO struct {
	W, W2 float64
	// N counts distinct committed or pending events.
	N uint64
	// Nent counts raw sub-contributions.
	Nent uint64

	pending bool
	prevID  int64
	wsum    float64
}

// Update records a contribution of weight w from event id.
func (b *NLO) Update(id int64, w float64) {
	switch {
	case !b.pending:
		b.pending = true
		b.prevID = id
		b.wsum = w
		b.N++
	case id == b.prevID:
		b.wsum += w
	default:
		b.commit()
		b.prevID = id
		b.wsum = w
		b.N++
	}
	b.Nent++
}

func (b *NLO) FillEvent(ev *Event) error {
	b.Update(ev.ID, ev.Weight)
	return nil
}

// Finalize commits the pending event. Calling it twice is harmless.
func (b *NLO) Finalize() {
	if !b.pending {
		return
	}
	b.commit()
	b.pending = false
}

func (b *NLO) commit() {
	b.W += b.wsum
	b.W2 += b.wsum * b.wsum
	b.wsum = 0
}

// Pending reports whether an uncommitted event sum is held.
func (b *NLO) Pending() bool { return b.pending }

// Merge finalizes both sides and sums the committed state.
func (b *NLO) Merge(o *NLO) error {
	b.Finalize()
	o.Finalize()
	b.W += o.W
	b.W2 += o.W2
	b.N += o.N
	b.Nent += o.Nent
	return nil
}

func (b *NLO) Fields() []string { return []string{"w", "w2", "n", "nent"} }

func (b *NLO) Values() []float64 {
	return []float64{b.W, b.W2, float64(b.N), float64(b.Nent)}
}

// MultiNLO is NLO over a vector of weights, one per variation, filled from
// Event.Weights. The vector length is fixed by the first fill.
type MultiNLO struct {
	W, W2 []float64
	N     uint64
	Nent  uint64

	pending bool
	prevID  int64
	wsum    []float64
}

func (b *MultiNLO) FillEvent(ev *Event) error {
	return b.Update(ev.ID, ev.Weights)
}

func (b *MultiNLO) Update(id int64, ws []float64) error {
	if b.W == nil {
		b.W = make([]float64, len(ws))
		b.W2 = make([]float64, len(ws))
		b.wsum = make([]float64, len(ws))
	}
	if len(ws) != len(b.W) {
		return fmt.Errorf("%w: got %d weights, bin holds %d", ErrWeightsMismatch, len(ws), len(b.W))
	}
	switch {
	case !b.pending:
		b.pending = true
		b.prevID = id
		copy(b.wsum, ws)
		b.N++
	case id == b.prevID:
		for i, w := range ws {
			b.wsum[i] += w
		}
	default:
		b.commit()
		b.prevID = id
		copy(b.wsum, ws)
		b.N++
	}
	b.Nent++
	return nil
}

func (b *MultiNLO) commit() {
	for i, w := range b.wsum {
		b.W[i] += w
		b.W2[i] += w * w
		b.wsum[i] = 0
	}
}

func (b *MultiNLO) Finalize() {
	if !b.pending {
		return
	}
	b.commit()
	b.pending = false
}

func (b *MultiNLO) Merge(o *MultiNLO) error {
	b.Finalize()
	o.Finalize()
	if o.W == nil {
		b.N += o.N
		b.Nent += o.Nent
		return nil
	}
	if b.W == nil {
		b.W = make([]float64, len(o.W))
		b.W2 = make([]float64, len(o.W))
		b.wsum = make([]float64, len(o.W))
	}
	if len(o.W) != len(b.W) {
		return fmt.Errorf("%w: merging %d weights into %d", ErrWeightsMismatch, len(o.W), len(b.W))
	}
	for i := range o.W {
		b.W[i] += o.W[i]
		b.W2[i] += o.W2[i]
	}
	b.N += o.N
	b.Nent += o.Nent
	return nil
}

// Fields lists w_i and w2_i for each variation followed by the counters.
func (b *MultiNLO) Fields() []string {
	fields := make([]string, 0, 2*len(b.W)+2)
	for i := range b.W {
		fields = append(fields, fmt.Sprintf("w_%d", i), fmt.Sprintf("w2_%d", i))
	}
	return append(fields, "n", "nent")
}

func (b *MultiNLO) Values() []float64 {
	values := make([]float64, 0, 2*len(b.W)+2)
	for i := range b.W {
		values = append(values, b.W[i], b.W2[i])
	}
	return append(values, float64(b.N), float64(b.Nent))
}
