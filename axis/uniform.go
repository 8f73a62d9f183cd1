package axis

import (
	"fmt"
	"math"
)

// Uniform partitions [min, max) into ndiv equal-width bins.
type Uniform[E Edge] struct {
	ndiv     int
	min, max E
	bounds   bounds[E]
}

// NewUniform creates a uniform axis. Reversed limits are swapped, and with
// ndiv == 0 the axis has a single edge at min.
func NewUniform[E Edge](ndiv int, min, max E) (Uniform[E], error) {
	if ndiv < 0 {
		return Uniform[E]{}, fmt.Errorf("%w: negative number of divisions %d", ErrInvalidAxisSpec, ndiv)
	}
	if max < min {
		min, max = max, min
	}
	if ndiv == 0 {
		max = min
	}
	return Uniform[E]{ndiv: ndiv, min: min, max: max, bounds: newBounds[E]()}, nil
}

func (u Uniform[E]) NBins() int  { return u.ndiv + 2 }
func (u Uniform[E]) NDiv() int   { return u.ndiv }
func (u Uniform[E]) NEdges() int { return u.ndiv + 1 }
func (u Uniform[E]) Min() E      { return u.min }
func (u Uniform[E]) Max() E      { return u.max }

// Edge returns edge i. Integral edges round each step up, so every
// integral x satisfies Lower(FindBinIndex(x)) <= x < Upper(FindBinIndex(x)).
func (u Uniform[E]) Edge(i int) E {
	switch i {
	case 0:
		return u.min
	case u.ndiv:
		return u.max
	}
	width, n := u.max-u.min, E(u.ndiv)
	if !integral[E]() {
		return u.min + E(i)*(width/n)
	}
	q := width / n
	part := (width - q*n) * E(i)
	step := part / n
	if step*n != part {
		step++
	}
	return u.min + q*E(i) + step
}

func integral[E Edge]() bool { return E(1)/E(2) == 0 }

func (u Uniform[E]) Lower(i int) E { return u.bounds.lower(i, u.NBins(), u.Edge) }
func (u Uniform[E]) Upper(i int) E { return u.bounds.upper(i, u.NBins(), u.Edge) }

func (u Uniform[E]) FindBinIndex(x E) int {
	if x < u.min {
		return 0
	}
	if !(x < u.max) {
		return u.ndiv + 1
	}
	f := float64(u.ndiv) * (float64(x) - float64(u.min)) / (float64(u.max) - float64(u.min))
	i := int(math.Floor(f)) + 1
	// rounding may push values just below max onto the overflow index
	if i > u.ndiv {
		i = u.ndiv
	}
	return i
}

func (u Uniform[E]) Edges() []E {
	edges := make([]E, u.NEdges())
	for i := range edges {
		edges[i] = u.Edge(i)
	}
	return edges
}
