package collector

import (
	"errors"
	"fmt"

	"github.com/anthonydresser/fluent-bit-hist/bin"
	"github.com/anthonydresser/fluent-bit-hist/hist"
	"github.com/anthonydresser/fluent-bit-hist/options"
	"github.com/anthonydresser/fluent-bit-hist/utils"
)

// Record is a decoded log record with string keys.
type Record map[string]any

var errMissingField = errors.New("missing field")

// extractor turns a record into a fill request for one histogram
// definition.
type extractor struct {
	kind    string
	axes    []string
	value   string
	weight  string
	event   string
	weights []string
}

func newExtractor(def *options.HistogramDefinition) extractor {
	e := extractor{
		kind:    def.Kind(),
		axes:    make([]string, len(def.Axes)),
		value:   def.Value,
		weight:  def.Weight,
		event:   def.Event,
		weights: def.Weights,
	}
	for i, a := range def.Axes {
		e.axes[i] = a.Field
	}
	return e
}

func (e extractor) number(rec Record, field string) (float64, error) {
	v, ok := rec[field]
	if !ok {
		return 0, fmt.Errorf("%w %q", errMissingField, field)
	}
	x, ok := utils.ToFloat64(v)
	if !ok {
		return 0, fmt.Errorf("field %q is not numeric: %v", field, v)
	}
	return x, nil
}

func (e extractor) sample(rec Record) (hist.Sample[float64], error) {
	var s hist.Sample[float64]
	s.Coords = make([]float64, len(e.axes))
	for i, field := range e.axes {
		x, err := e.number(rec, field)
		if err != nil {
			return s, err
		}
		s.Coords[i] = x
	}

	weight := 1.0
	if e.weight != "" {
		w, err := e.number(rec, e.weight)
		if err != nil {
			return s, err
		}
		weight = w
	}

	switch e.kind {
	case options.BinMoment:
		x, err := e.number(rec, e.value)
		if err != nil {
			return s, err
		}
		s.Args = []float64{x, weight}
	case options.BinNLO, options.BinMultiNLO:
		raw, ok := rec[e.event]
		if !ok {
			return s, fmt.Errorf("%w %q", errMissingField, e.event)
		}
		id, ok := utils.ToInt64(raw)
		if !ok {
			return s, fmt.Errorf("field %q is not an integer: %v", e.event, raw)
		}
		s.Event = &bin.Event{ID: id, Weight: weight}
		if e.kind == options.BinMultiNLO {
			s.Event.Weights = make([]float64, len(e.weights))
			for i, field := range e.weights {
				w, err := e.number(rec, field)
				if err != nil {
					return s, err
				}
				s.Event.Weights[i] = w
			}
		}
	default:
		if e.weight != "" {
			s.Args = []float64{weight}
		}
	}
	return s, nil
}
