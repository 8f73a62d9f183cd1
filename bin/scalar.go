package bin

// Float is a plain sum of weights.
type Float float64

func (f *Float) Inc() { *f++ }

func (f *Float) Add(w float64) { *f += Float(w) }

func (f *Float) Merge(o *Float) error {
	*f += *o
	return nil
}

func (f *Float) FillEvent(ev *Event) error {
	f.Add(ev.Weight)
	return nil
}

// Int is a plain counter. Weights are truncated toward zero.
type Int int64

func (n *Int) Inc() { *n++ }

func (n *Int) Add(w float64) { *n += Int(w) }

func (n *Int) Merge(o *Int) error {
	*n += *o
	return nil
}

func (f *Float) Fields() []string  { return []string{"w"} }
func (f *Float) Values() []float64 { return []float64{float64(*f)} }

func (n *Int) Fields() []string  { return []string{"n"} }
func (n *Int) Values() []float64 { return []float64{float64(*n)} }
