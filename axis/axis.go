package axis

import (
	"errors"
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

// ErrInvalidAxisSpec is returned for malformed axis construction input.
var ErrInvalidAxisSpec = errors.New("invalid axis spec")

// Edge is the set of scalar types an axis can partition.
type Edge interface {
	constraints.Integer | constraints.Float
}

// Axis maps a coordinate to a bin index. Index 0 is the underflow bin and
// index NDiv()+1 the overflow bin, so NBins() == NDiv()+2.
type Axis[E Edge] interface {
	NBins() int
	NDiv() int
	NEdges() int

	Edge(i int) E
	Min() E
	Max() E
	Lower(i int) E
	Upper(i int) E

	FindBinIndex(x E) int

	// Edges returns the boundary values in ascending order. The returned
	// slice must not be modified.
	Edges() []E
}

// Lowest returns the sentinel used as the lower bound of the underflow bin:
// negative infinity for floating types, the minimum value otherwise.
func Lowest[E Edge]() E {
	var zero E
	t := reflect.TypeOf(zero)
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		inf := math.Inf(-1)
		return E(inf)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int64(-1) << (t.Bits() - 1)
		return E(v)
	default:
		return zero
	}
}

// Highest returns the sentinel used as the upper bound of the overflow bin:
// positive infinity for floating types, the maximum value otherwise.
func Highest[E Edge]() E {
	var zero E
	t := reflect.TypeOf(zero)
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		inf := math.Inf(1)
		return E(inf)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int64(1)<<(t.Bits()-1) - 1
		return E(v)
	default:
		v := uint64(math.MaxUint64) >> (64 - t.Bits())
		return E(v)
	}
}

// bounds implements Lower and Upper for any axis given its edge accessor.
type bounds[E Edge] struct {
	lowest  E
	highest E
}

func newBounds[E Edge]() bounds[E] {
	return bounds[E]{lowest: Lowest[E](), highest: Highest[E]()}
}

func (b bounds[E]) lower(i, nbins int, edge func(int) E) E {
	if i <= 0 {
		return b.lowest
	}
	if i >= nbins {
		return b.highest
	}
	return edge(i - 1)
}

func (b bounds[E]) upper(i, nbins int, edge func(int) E) E {
	if i >= nbins-1 {
		return b.highest
	}
	if i < 0 {
		return b.lowest
	}
	return edge(i)
}
