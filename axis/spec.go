package axis

import (
	"fmt"
	"math"

	"github.com/anthonydresser/fluent-bit-hist/utils"
)

const (
	uniformToken = "uniform"
	edgesToken   = "edges"
)

// ParseSpec builds an axis from a decoded configuration value:
//
//	[0, 1, 2.5, 10]            literal edges
//	[[10, 0, 1]]               uniform axis with 10 divisions of [0, 1)
//	[[5, 0, 1], 2, [2, 5, 10]] chunks, merged into one list axis
//	["edges", [10, 0, 1]]      force a list axis
//	{uniform: [10, 0, 1]}      mapping form, also {edges: [...]}
func ParseSpec[E Edge](spec any) (Variant[E], error) {
	switch s := spec.(type) {
	case []any:
		return parseSequence[E](s)
	case map[string]any:
		return parseMapping[E](s)
	case map[any]any:
		m := make(map[string]any, len(s))
		for k, v := range s {
			m[utils.ToString(k)] = v
		}
		return parseMapping[E](m)
	case nil:
		return Variant[E]{}, fmt.Errorf("%w: empty axis", ErrInvalidAxisSpec)
	}
	return Variant[E]{}, fmt.Errorf("%w: unexpected %T", ErrInvalidAxisSpec, spec)
}

func parseMapping[E Edge](m map[string]any) (Variant[E], error) {
	if len(m) != 1 {
		return Variant[E]{}, fmt.Errorf("%w: mapping must have exactly one of %q or %q", ErrInvalidAxisSpec, uniformToken, edgesToken)
	}
	for key, value := range m {
		items, ok := value.([]any)
		if !ok {
			return Variant[E]{}, fmt.Errorf("%w: %q must be a sequence", ErrInvalidAxisSpec, key)
		}
		switch key {
		case uniformToken:
			return parseSequence[E](append([]any{uniformToken}, items))
		case edgesToken:
			return parseSequence[E](append([]any{edgesToken}, items...))
		}
		return Variant[E]{}, fmt.Errorf("%w: unsupported key %q", ErrInvalidAxisSpec, key)
	}
	return Variant[E]{}, nil
}

func parseSequence[E Edge](items []any) (Variant[E], error) {
	flag := ""
	if len(items) > 0 {
		if token, ok := items[0].(string); ok {
			if token != uniformToken && token != edgesToken {
				return Variant[E]{}, fmt.Errorf("%w: unsupported flag token %q", ErrInvalidAxisSpec, token)
			}
			flag = token
			items = items[1:]
		}
	}
	if len(items) == 0 {
		return Variant[E]{}, fmt.Errorf("%w: no edges", ErrInvalidAxisSpec)
	}

	chunks := make([]Chunk[E], 0, len(items))
	var literals []E
	ranges := 0
	for i, item := range items {
		switch v := item.(type) {
		case []any:
			c, err := parseTriple[E](v)
			if err != nil {
				return Variant[E]{}, fmt.Errorf("item %d: %w", i, err)
			}
			chunks = append(chunks, c)
			ranges++
		case string:
			return Variant[E]{}, fmt.Errorf("%w: unexpected token %q at item %d", ErrInvalidAxisSpec, v, i)
		default:
			x, ok := utils.ToFloat64(v)
			if !ok || math.IsNaN(x) {
				return Variant[E]{}, fmt.Errorf("%w: item %d is not a number: %v", ErrInvalidAxisSpec, i, v)
			}
			literals = append(literals, E(x))
		}
	}
	if len(literals) > 0 {
		chunks = append(chunks, Edges(literals...))
	}

	single := ranges == 1 && len(literals) == 0
	if flag == uniformToken && !single {
		return Variant[E]{}, fmt.Errorf("%w: %q needs exactly one [ndiv, min, max] triple", ErrInvalidAxisSpec, uniformToken)
	}
	if single && flag != edgesToken {
		c := chunks[0]
		u, err := NewUniform(c.ndiv, c.min, c.max)
		if err != nil {
			return Variant[E]{}, err
		}
		return FromUniform(u), nil
	}
	l, err := FromChunks(chunks...)
	if err != nil {
		return Variant[E]{}, err
	}
	return FromList(l), nil
}

func parseTriple[E Edge](v []any) (Chunk[E], error) {
	if len(v) != 3 {
		return Chunk[E]{}, fmt.Errorf("%w: incomplete uniform triple %v", ErrInvalidAxisSpec, v)
	}
	var nums [3]float64
	for i, x := range v {
		f, ok := utils.ToFloat64(x)
		if !ok || math.IsNaN(f) {
			return Chunk[E]{}, fmt.Errorf("%w: triple element %d is not a number: %v", ErrInvalidAxisSpec, i, x)
		}
		nums[i] = f
	}
	if nums[0] < 0 || nums[0] != math.Trunc(nums[0]) {
		return Chunk[E]{}, fmt.Errorf("%w: number of divisions must be a non-negative integer, got %v", ErrInvalidAxisSpec, v[0])
	}
	return Range(int(nums[0]), E(nums[1]), E(nums[2])), nil
}
