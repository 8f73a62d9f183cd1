package common

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/anthonydresser/fluent-bit-hist/axis"
	"github.com/anthonydresser/fluent-bit-hist/bin"
	"github.com/anthonydresser/fluent-bit-hist/hist"
)

// HistogramDoc is the serialized form of a histogram:
//
//	{"axes": [[edges]...], "bins": [v0, v1, ...]}
//
// for numeric bins and
//
//	{"axes": [[edges]...], "bins": [["w","w2"], [[w,w2], ...]]}
//
// for bins that expose a bin.Schema. Bins are listed in linear index
// order, underflow and overflow included.
type HistogramDoc struct {
	Axes [][]float64 `json:"axes"`
	Bins any         `json:"bins"`
}

// SchemaBins holds the bins of a histogram whose bins have named fields.
type SchemaBins struct {
	Fields []string
	Values [][]float64
}

func (s SchemaBins) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Fields, s.Values})
}

// NewHistogramDoc snapshots h. Bins must be numeric or implement
// bin.Schema. Bins absent from sparse storage are written as zeros.
func NewHistogramDoc[X axis.Edge, B any](h *hist.Histogram[X, B]) (HistogramDoc, error) {
	doc := HistogramDoc{Axes: make([][]float64, h.NDim())}
	for i, a := range h.Axes() {
		doc.Axes[i] = edgesToFloat(a.Edges())
	}

	kind := reflect.TypeOf(new(B)).Elem().Kind()
	if isNumeric(kind) {
		values := make([]float64, h.Size())
		err := h.ForEach(func(i int, b *B) error {
			if i < 0 || i >= len(values) {
				return fmt.Errorf("bin %d outside of %d bins", i, len(values))
			}
			values[i] = reflect.ValueOf(b).Elem().Convert(float64Type).Float()
			return nil
		})
		if err != nil {
			return HistogramDoc{}, err
		}
		doc.Bins = values
		return doc, nil
	}

	if _, ok := any(new(B)).(bin.Schema); !ok {
		return HistogramDoc{}, fmt.Errorf("%T bins have no schema", new(B))
	}
	bins, err := schemaBins(h)
	if err != nil {
		return HistogramDoc{}, err
	}
	doc.Bins = bins
	return doc, nil
}

func schemaBins[X axis.Edge, B any](h *hist.Histogram[X, B]) (SchemaBins, error) {
	// the widest schema wins: bins sized lazily report fewer fields while
	// empty
	var fields []string
	_ = h.ForEach(func(_ int, b *B) error {
		if f := any(b).(bin.Schema).Fields(); len(f) > len(fields) {
			fields = f
		}
		return nil
	})
	if fields == nil {
		fields = any(new(B)).(bin.Schema).Fields()
	}

	values := make([][]float64, h.Size())
	err := h.ForEach(func(i int, b *B) error {
		if i < 0 || i >= len(values) {
			return fmt.Errorf("bin %d outside of %d bins", i, len(values))
		}
		v := any(b).(bin.Schema).Values()
		if len(v) != len(fields) {
			if !allZero(v) {
				return fmt.Errorf("bin %d has %d values for %d fields", i, len(v), len(fields))
			}
			v = nil
		}
		values[i] = v
		return nil
	})
	if err != nil {
		return SchemaBins{}, err
	}
	for i, v := range values {
		if v == nil {
			values[i] = make([]float64, len(fields))
		}
	}
	return SchemaBins{Fields: fields, Values: values}, nil
}

var float64Type = reflect.TypeOf(float64(0))

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func edgesToFloat[E axis.Edge](edges []E) []float64 {
	out := make([]float64, len(edges))
	for i, e := range edges {
		out[i] = float64(e)
	}
	return out
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
