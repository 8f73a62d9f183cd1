package bin

import "fmt"

// Counted wraps any bin and counts the raw number of updates it received.
type Counted[B any] struct {
	Bin B
	N   uint64
}

// Call forwards the payload to the wrapped bin through the default filler
// and counts it once the inner update succeeded.
func (c *Counted[B]) Call(args ...float64) error {
	if err := Fill(&c.Bin, args...); err != nil {
		return err
	}
	c.N++
	return nil
}

func (c *Counted[B]) FillEvent(ev *Event) error {
	if err := FillEvent(&c.Bin, ev); err != nil {
		return err
	}
	c.N++
	return nil
}

func (c *Counted[B]) Merge(o *Counted[B]) error {
	m, ok := any(&c.Bin).(Merger[B])
	if !ok {
		return fmt.Errorf("%T cannot be merged", &c.Bin)
	}
	if err := m.Merge(&o.Bin); err != nil {
		return err
	}
	c.N += o.N
	return nil
}

func (c *Counted[B]) Finalize() {
	if f, ok := any(&c.Bin).(Finalizer); ok {
		f.Finalize()
	}
}

func (c *Counted[B]) Fields() []string {
	var fields []string
	if s, ok := any(&c.Bin).(Schema); ok {
		fields = append(fields, s.Fields()...)
	}
	return append(fields, "n")
}

func (c *Counted[B]) Values() []float64 {
	var values []float64
	if s, ok := any(&c.Bin).(Schema); ok {
		values = append(values, s.Values()...)
	}
	return append(values, float64(c.N))
}
