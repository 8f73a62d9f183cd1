package axis

import "fmt"

// Chunk is one piece of a mixed edge list: either literal edges
// or a uniform sub-range of ndiv divisions.
type Chunk[E Edge] struct {
	edges    []E
	isRange  bool
	ndiv     int
	min, max E
}

// Edges returns a chunk of literal edge values.
func Edges[E Edge](edges ...E) Chunk[E] {
	return Chunk[E]{edges: edges}
}

// Range returns a chunk that expands to the ndiv+1 edges of a uniform
// partition of [min, max].
func Range[E Edge](ndiv int, min, max E) Chunk[E] {
	return Chunk[E]{isRange: true, ndiv: ndiv, min: min, max: max}
}

func (c Chunk[E]) expand() ([]E, error) {
	if !c.isRange {
		return c.edges, nil
	}
	u, err := NewUniform(c.ndiv, c.min, c.max)
	if err != nil {
		return nil, err
	}
	return u.Edges(), nil
}

// FromChunks expands every range, merges the result with the literal edges
// and builds a single List axis out of it.
func FromChunks[E Edge](chunks ...Chunk[E]) (List[E], error) {
	var edges []E
	for i, c := range chunks {
		expanded, err := c.expand()
		if err != nil {
			return List[E]{}, fmt.Errorf("chunk %d: %w", i, err)
		}
		edges = append(edges, expanded...)
	}
	return NewList(edges...)
}
