package axis

import (
	"fmt"
	"sort"

	"golang.org/x/exp/slices"
)

// List partitions its domain at an explicit, strictly increasing sequence
// of edges.
type List[E Edge] struct {
	edges  []E
	bounds bounds[E]
}

// NewList sorts and deduplicates a copy of edges. At least one edge is
// required.
func NewList[E Edge](edges ...E) (List[E], error) {
	if len(edges) == 0 {
		return List[E]{}, fmt.Errorf("%w: list axis needs at least one edge", ErrInvalidAxisSpec)
	}
	sorted := slices.Clone(edges)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return List[E]{edges: sorted, bounds: newBounds[E]()}, nil
}

func (l List[E]) NBins() int   { return len(l.edges) + 1 }
func (l List[E]) NDiv() int    { return len(l.edges) - 1 }
func (l List[E]) NEdges() int  { return len(l.edges) }
func (l List[E]) Edge(i int) E { return l.edges[i] }
func (l List[E]) Min() E       { return l.edges[0] }
func (l List[E]) Max() E       { return l.edges[len(l.edges)-1] }
func (l List[E]) Edges() []E   { return l.edges }

func (l List[E]) Lower(i int) E { return l.bounds.lower(i, l.NBins(), l.Edge) }
func (l List[E]) Upper(i int) E { return l.bounds.upper(i, l.NBins(), l.Edge) }

// FindBinIndex returns the position of the first edge strictly greater
// than x, so a value equal to an edge belongs to the bin above it.
func (l List[E]) FindBinIndex(x E) int {
	return sort.Search(len(l.edges), func(i int) bool { return l.edges[i] > x })
}
