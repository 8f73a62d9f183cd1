package common

import (
	"encoding/json"

	"golang.org/x/exp/slices"
)

// Dict collects several histograms into one document, storing every
// distinct axis and bin schema once:
//
//	{
//	  "axes":  [[edges]...],
//	  "bins":  [["w","w2"]...],
//	  "hists": {"name": {"axes": [0, 1], "bins": [0, [[w,w2]...]]}}
//	}
//
// Numeric histograms keep their bare "bins" array.
type Dict struct {
	Axes  [][]float64          `json:"axes"`
	Bins  [][]string           `json:"bins"`
	Hists map[string]DictEntry `json:"hists"`
}

type DictEntry struct {
	Axes []int `json:"axes"`
	Bins any   `json:"bins"`
}

// dictBins is a schema-bins entry pointing into Dict.Bins.
type dictBins struct {
	schema int
	values [][]float64
}

func (d dictBins) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{d.schema, d.values})
}

func NewDict() *Dict {
	return &Dict{
		Axes:  [][]float64{},
		Bins:  [][]string{},
		Hists: make(map[string]DictEntry),
	}
}

// Add stores doc under name, replacing any previous entry of that name.
// Shared axes and schemas are not duplicated.
func (d *Dict) Add(name string, doc HistogramDoc) {
	entry := DictEntry{Axes: make([]int, len(doc.Axes)), Bins: doc.Bins}
	for i, edges := range doc.Axes {
		entry.Axes[i] = d.axisIndex(edges)
	}
	if sb, ok := doc.Bins.(SchemaBins); ok {
		entry.Bins = dictBins{schema: d.schemaIndex(sb.Fields), values: sb.Values}
	}
	d.Hists[name] = entry
}

func (d *Dict) axisIndex(edges []float64) int {
	for i, a := range d.Axes {
		if slices.Equal(a, edges) {
			return i
		}
	}
	d.Axes = append(d.Axes, edges)
	return len(d.Axes) - 1
}

func (d *Dict) schemaIndex(fields []string) int {
	for i, f := range d.Bins {
		if slices.Equal(f, fields) {
			return i
		}
	}
	d.Bins = append(d.Bins, fields)
	return len(d.Bins) - 1
}
