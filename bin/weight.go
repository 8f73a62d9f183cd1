package bin

// Weight accumulates the sum of weights and the sum of squared weights.
// W2 lets consumers estimate the uncertainty of W; no uncertainty is
// computed here.
type Weight struct {
	W  float64 `json:"w"`
	W2 float64 `json:"w2"`
}

func (b *Weight) Inc() {
	b.W++
	b.W2++
}

func (b *Weight) Add(w float64) {
	b.W += w
	b.W2 += w * w
}

func (b *Weight) Merge(o *Weight) error {
	b.W += o.W
	b.W2 += o.W2
	return nil
}

// FillEvent adds the event weight, for callers that fix one weight per
// event instead of passing it with every fill.
func (b *Weight) FillEvent(ev *Event) error {
	b.Add(ev.Weight)
	return nil
}

func (b *Weight) Fields() []string  { return []string{"w", "w2"} }
func (b *Weight) Values() []float64 { return []float64{b.W, b.W2} }
