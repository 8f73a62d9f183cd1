package options

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/anthonydresser/fluent-bit-hist/axis"
)

// Bin kinds accepted in a histogram definition.
const (
	BinFloat    = "float"
	BinInt      = "int"
	BinWeight   = "weight"
	BinCounted  = "counted"
	BinMoment   = "moment"
	BinNLO      = "nlo"
	BinMultiNLO = "nlo_multi"
)

var binKinds = []string{BinFloat, BinInt, BinWeight, BinCounted, BinMoment, BinNLO, BinMultiNLO}

// HistogramConfig is the content of a histograms file:
//
//	histograms:
//	  - name: latency
//	    bin: weight
//	    weight: sample_weight
//	    axes:
//	      - field: duration_ms
//	        edges: [[20, 0, 1000]]
type HistogramConfig struct {
	Histograms []HistogramDefinition `yaml:"histograms"`
}

type HistogramDefinition struct {
	Name string `yaml:"name"`
	// Bin is one of the Bin* kinds. Empty means weight.
	Bin string `yaml:"bin"`
	// Moments is the highest moment tracked by moment bins.
	Moments int  `yaml:"moments"`
	Sparse  bool `yaml:"sparse"`

	Axes []AxisDefinition `yaml:"axes"`

	// Value names the record field whose value moment bins accumulate.
	Value string `yaml:"value"`
	// Weight names the record field holding the sample weight. Without it
	// every record counts once.
	Weight string `yaml:"weight"`
	// Event names the record field holding the event id of nlo bins.
	Event string `yaml:"event"`
	// Weights names the record fields feeding nlo_multi bins.
	Weights []string `yaml:"weights"`
}

type AxisDefinition struct {
	Field string `yaml:"field"`
	// Edges is any form accepted by axis.ParseSpec.
	Edges any `yaml:"edges"`
}

func (a AxisDefinition) Axis() (axis.Variant[float64], error) {
	return axis.ParseSpec[float64](a.Edges)
}

// Kind returns the bin kind with the default applied.
func (d *HistogramDefinition) Kind() string {
	if d.Bin == "" {
		return BinWeight
	}
	return d.Bin
}

func (d *HistogramDefinition) Validate() error {
	var errs error

	if d.Name == "" {
		errs = multierr.Append(errs, errors.New("name must be specified"))
	}

	kind := d.Kind()
	known := false
	for _, k := range binKinds {
		known = known || k == kind
	}
	if !known {
		errs = multierr.Append(errs, fmt.Errorf("unknown bin kind %q", d.Bin))
	}

	if len(d.Axes) == 0 {
		errs = multierr.Append(errs, errors.New("at least one axis must be specified"))
	}
	for i, a := range d.Axes {
		if a.Field == "" {
			errs = multierr.Append(errs, fmt.Errorf("axis %d: field must be specified", i))
		}
		if _, err := a.Axis(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("axis %d: %w", i, err))
		}
	}

	switch kind {
	case BinMoment:
		if d.Value == "" {
			errs = multierr.Append(errs, errors.New("moment bins need a value field"))
		}
		if d.Moments < 0 || d.Moments > 4 {
			errs = multierr.Append(errs, fmt.Errorf("moments must be between 1 and 4, or 0 for the default, got %d", d.Moments))
		}
	case BinNLO:
		if d.Event == "" {
			errs = multierr.Append(errs, errors.New("nlo bins need an event field"))
		}
	case BinMultiNLO:
		if d.Event == "" {
			errs = multierr.Append(errs, errors.New("nlo_multi bins need an event field"))
		}
		if len(d.Weights) == 0 {
			errs = multierr.Append(errs, errors.New("nlo_multi bins need weight fields"))
		}
	}

	if errs != nil && d.Name != "" {
		return fmt.Errorf("histogram %q: %w", d.Name, errs)
	}
	return errs
}

func (c *HistogramConfig) Validate() error {
	var errs error

	if len(c.Histograms) == 0 {
		errs = multierr.Append(errs, errors.New("no histograms defined"))
	}
	seen := make(map[string]bool, len(c.Histograms))
	for i := range c.Histograms {
		d := &c.Histograms[i]
		if d.Name != "" && seen[d.Name] {
			errs = multierr.Append(errs, fmt.Errorf("histogram %q defined more than once", d.Name))
		}
		seen[d.Name] = true
		errs = multierr.Append(errs, d.Validate())
	}

	return errs
}

// ParseHistogramConfig decodes and validates a histograms document.
func ParseHistogramConfig(data []byte) (*HistogramConfig, error) {
	var conf HistogramConfig
	if err := yaml.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("failed to parse histograms: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func LoadHistogramConfig(path string) (*HistogramConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseHistogramConfig(data)
}
