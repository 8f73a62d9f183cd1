package axis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSentinels(t *testing.T) {
	assert.True(t, math.IsInf(Lowest[float64](), -1))
	assert.True(t, math.IsInf(float64(Highest[float32]()), 1))
	assert.Equal(t, int8(math.MinInt8), Lowest[int8]())
	assert.Equal(t, int32(math.MaxInt32), Highest[int32]())
	assert.Equal(t, math.MinInt, Lowest[int]())
	assert.Equal(t, uint16(0), Lowest[uint16]())
	assert.Equal(t, uint16(math.MaxUint16), Highest[uint16]())
}

func TestUniformFloat(t *testing.T) {
	u, err := NewUniform(10, 0.0, 1.0)
	require.NoError(t, err)

	assert.Equal(t, 12, u.NBins())
	assert.Equal(t, 10, u.NDiv())
	assert.Equal(t, 11, u.NEdges())
	assert.Equal(t, 3, u.FindBinIndex(0.25))
	assert.Equal(t, 0, u.FindBinIndex(-0.1))
	assert.Equal(t, 1, u.FindBinIndex(0))
	assert.Equal(t, 10, u.FindBinIndex(0.999999999))
	assert.Equal(t, 11, u.FindBinIndex(1))
	assert.Equal(t, 11, u.FindBinIndex(math.Inf(1)))
	assert.Equal(t, 0, u.FindBinIndex(math.Inf(-1)))
	assert.Equal(t, 11, u.FindBinIndex(math.NaN()))

	assert.Equal(t, 1.0, u.Edge(10))
	assert.InDelta(t, 0.3, u.Edge(3), 1e-12)
	assert.True(t, math.IsInf(u.Lower(0), -1))
	assert.Equal(t, 0.0, u.Upper(0))
	assert.Equal(t, 1.0, u.Lower(11))
	assert.True(t, math.IsInf(u.Upper(11), 1))
}

func TestUniformInt(t *testing.T) {
	u, err := NewUniform(4, 10, -10)
	require.NoError(t, err)

	assert.Equal(t, []int{-10, -5, 0, 5, 10}, u.Edges())
	assert.Equal(t, math.MinInt, u.Lower(0))
	assert.Equal(t, -10, u.Upper(0))
	assert.Equal(t, -10, u.Lower(1))
	assert.Equal(t, 10, u.Lower(5))
	assert.Equal(t, math.MaxInt, u.Upper(5))
	assert.Equal(t, 2, u.FindBinIndex(-5))
	assert.Equal(t, 5, u.FindBinIndex(10))
}

func TestUniformIntInexactStep(t *testing.T) {
	u, err := NewUniform(3, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 7, 10}, u.Edges())

	for x := 0; x < 10; x++ {
		i := u.FindBinIndex(x)
		assert.LessOrEqual(t, u.Lower(i), x, "x=%d", x)
		assert.Less(t, x, u.Upper(i), "x=%d", x)
	}

	w, err := NewUniform(4, uint8(3), uint8(13))
	require.NoError(t, err)
	assert.Equal(t, []uint8{3, 6, 8, 11, 13}, w.Edges())
	for x := uint8(3); x < 13; x++ {
		i := w.FindBinIndex(x)
		assert.LessOrEqual(t, w.Lower(i), x, "x=%d", x)
		assert.Less(t, x, w.Upper(i), "x=%d", x)
	}
}

func TestUniformDegenerate(t *testing.T) {
	u, err := NewUniform(0, 2.0, 5.0)
	require.NoError(t, err)
	assert.Equal(t, 2, u.NBins())
	assert.Equal(t, []float64{2}, u.Edges())
	assert.Equal(t, 0, u.FindBinIndex(1))
	assert.Equal(t, 1, u.FindBinIndex(2))

	_, err = NewUniform(-1, 0.0, 1.0)
	assert.ErrorIs(t, err, ErrInvalidAxisSpec)
}

func TestList(t *testing.T) {
	l, err := NewList(13.0, 1, 2, 3, 5, 7, 11, 2)
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 2, 3, 5, 7, 11, 13}, l.Edges())
	assert.Equal(t, 8, l.NBins())
	assert.Equal(t, 6, l.NDiv())
	assert.Equal(t, 1.0, l.Min())
	assert.Equal(t, 13.0, l.Max())

	for x, want := range map[float64]int{0: 0, 1: 1, 1.5: 1, 2: 2, 4: 3, 12.9: 6, 13: 7, 100: 7} {
		assert.Equal(t, want, l.FindBinIndex(x), "x=%v", x)
	}

	assert.True(t, math.IsInf(l.Lower(0), -1))
	assert.Equal(t, 1.0, l.Upper(0))
	assert.Equal(t, 5.0, l.Lower(4))
	assert.Equal(t, 7.0, l.Upper(4))
	assert.Equal(t, 13.0, l.Lower(7))
	assert.True(t, math.IsInf(l.Upper(7), 1))
	assert.True(t, math.IsInf(l.Lower(8), 1))

	_, err = NewList[float64]()
	assert.ErrorIs(t, err, ErrInvalidAxisSpec)
}

func TestListDoesNotAlias(t *testing.T) {
	in := []int{3, 1, 2}
	l, err := NewList(in...)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, in)
	assert.Equal(t, []int{1, 2, 3}, l.Edges())
}

func TestNBinsInvariant(t *testing.T) {
	u, _ := NewUniform(7, -1.0, 1.0)
	l, _ := NewList(1.0, 2, 4)
	for _, a := range []Axis[float64]{u, l, FromUniform(u), FromList(l)} {
		assert.Equal(t, a.NDiv()+2, a.NBins())
		assert.Equal(t, a.NDiv()+1, a.NEdges())
		assert.Len(t, a.Edges(), a.NEdges())
		assert.Equal(t, a.Edge(0), a.Min())
		assert.Equal(t, a.Edge(a.NDiv()), a.Max())
	}
}

func TestFromChunks(t *testing.T) {
	l, err := FromChunks(Range(5, 0.0, 1.0), Edges(2.0), Range(2, 5.0, 10.0))
	require.NoError(t, err)

	want := []float64{0, 0.2, 0.4, 0.6, 0.8, 1, 2, 5, 7.5, 10}
	require.Len(t, l.Edges(), len(want))
	for i, e := range want {
		assert.InDelta(t, e, l.Edge(i), 1e-12)
	}

	_, err = FromChunks(Range(-2, 0.0, 1.0))
	assert.ErrorIs(t, err, ErrInvalidAxisSpec)
}

func TestVariant(t *testing.T) {
	u, _ := NewUniform(4, 0.0, 4.0)
	v := FromUniform(u)
	assert.Equal(t, KindUniform, v.Kind())
	assert.Equal(t, "uniform", v.Kind().String())
	_, ok := v.List()
	assert.False(t, ok)
	got, ok := v.Uniform()
	assert.True(t, ok)
	assert.Equal(t, u, got)
	assert.Equal(t, 3, v.FindBinIndex(2.5))

	l, _ := NewList(0.0, 1, 10)
	v = FromList(l)
	assert.Equal(t, KindList, v.Kind())
	assert.Equal(t, 2, v.FindBinIndex(5))
	assert.Equal(t, 10.0, v.Upper(2))
}

func parseYAML(t *testing.T, doc string) (Variant[float64], error) {
	t.Helper()
	var spec any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &spec))
	return ParseSpec[float64](spec)
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		kind  Kind
		edges []float64
	}{
		{"literal", "[0, 1, 2.5, 10]", KindList, []float64{0, 1, 2.5, 10}},
		{"uniform", "[[4, 0, 2]]", KindUniform, []float64{0, 0.5, 1, 1.5, 2}},
		{"uniform flag", "[uniform, [2, 0, 1]]", KindUniform, []float64{0, 0.5, 1}},
		{"forced list", "[edges, [2, 0, 1]]", KindList, []float64{0, 0.5, 1}},
		{"chunks", "[[2, 0, 1], 3, [1, 5, 10]]", KindList, []float64{0, 0.5, 1, 3, 5, 10}},
		{"mapping uniform", "{uniform: [2, 0, 4]}", KindUniform, []float64{0, 2, 4}},
		{"mapping edges", "{edges: [3, 1, 2]}", KindList, []float64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parseYAML(t, tt.doc)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.edges, v.Edges())
		})
	}
}

func TestParseSpecErrors(t *testing.T) {
	for _, doc := range []string{
		"[]",
		"~",
		"[1, two]",
		"[[1, 2]]",
		"[[-1, 0, 1]]",
		"[[1.5, 0, 1]]",
		"[uniform, [1, 0, 1], 3]",
		"[bins, 1, 2]",
		"{uniform: [1, 0, 1], edges: [1]}",
		"{other: [1]}",
		"{edges: 3}",
		"42",
	} {
		_, err := parseYAML(t, doc)
		assert.ErrorIs(t, err, ErrInvalidAxisSpec, doc)
	}
}

func TestParseSpecIntEdges(t *testing.T) {
	v, err := ParseSpec[int]([]any{[]any{4, 10, -10}})
	require.NoError(t, err)
	assert.Equal(t, []int{-10, -5, 0, 5, 10}, v.Edges())
}
