package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/anthonydresser/fluent-bit-hist/axis"
	"github.com/anthonydresser/fluent-bit-hist/bin"
	"github.com/anthonydresser/fluent-bit-hist/common"
	"github.com/anthonydresser/fluent-bit-hist/hist"
	"github.com/anthonydresser/fluent-bit-hist/options"
	"github.com/anthonydresser/fluent-bit-hist/shard"
)

// series is one configured histogram, with its bin type erased.
type series interface {
	Name() string
	Add(rec Record) error
	AddAll(ctx context.Context, shards int, recs []Record) error
	// Doc finalizes the histogram and snapshots it.
	Doc() (common.HistogramDoc, error)
	Reset()
}

type histSeries[B any] struct {
	name    string
	extract extractor
	newHist func() *hist.Histogram[float64, B]
	h       *hist.Histogram[float64, B]

	// carry holds the trailing samples of the last batch that share one
	// event id; the event may continue in the next batch.
	carry []hist.Sample[float64]
	// open is the id of the last event filled in place into h.
	open *int64
}

func newSeries(def *options.HistogramDefinition) (series, error) {
	axes := make([]axis.Axis[float64], len(def.Axes))
	for i, a := range def.Axes {
		v, err := a.Axis()
		if err != nil {
			return nil, fmt.Errorf("histogram %q axis %d: %w", def.Name, i, err)
		}
		axes[i] = v
	}

	switch def.Kind() {
	case options.BinFloat:
		return newHistSeries[bin.Float](def, axes), nil
	case options.BinInt:
		return newHistSeries[bin.Int](def, axes), nil
	case options.BinWeight:
		return newHistSeries[bin.Weight](def, axes), nil
	case options.BinCounted:
		return newHistSeries[bin.Counted[bin.Weight]](def, axes), nil
	case options.BinMoment:
		k := def.Moments
		return newHistSeries(def, axes, hist.WithInit(func() bin.Moment { return bin.Moment{K: k} })), nil
	case options.BinNLO:
		return newHistSeries[bin.NLO](def, axes), nil
	case options.BinMultiNLO:
		return newHistSeries[bin.MultiNLO](def, axes), nil
	}
	return nil, fmt.Errorf("histogram %q: unknown bin kind %q", def.Name, def.Bin)
}

func newHistSeries[B any](def *options.HistogramDefinition, axes []axis.Axis[float64], opts ...hist.Option[B]) *histSeries[B] {
	if def.Sparse {
		opts = append(opts, hist.WithSparse[B]())
	}
	s := &histSeries[B]{
		name:    def.Name,
		extract: newExtractor(def),
		newHist: func() *hist.Histogram[float64, B] { return hist.New(axes, opts...) },
	}
	s.h = s.newHist()
	return s
}

func (s *histSeries[B]) Name() string { return s.name }

func (s *histSeries[B]) Add(rec Record) error {
	sample, err := s.extract.sample(rec)
	if err != nil {
		return err
	}
	if err := s.drain(); err != nil {
		return err
	}
	return s.fill(sample)
}

// fill fills one sample in place and remembers its event as open.
func (s *histSeries[B]) fill(sample hist.Sample[float64]) error {
	if err := s.h.FillSample(sample); err != nil {
		return err
	}
	if sample.Event != nil {
		id := sample.Event.ID
		s.open = &id
	}
	return nil
}

// drain fills the samples carried over from the last batch in place.
func (s *histSeries[B]) drain() error {
	carry := s.carry
	s.carry = nil
	for _, sample := range carry {
		if err := s.fill(sample); err != nil {
			return err
		}
	}
	return nil
}

func sameEvent(s hist.Sample[float64], id int64) bool {
	return s.Event != nil && s.Event.ID == id
}

// AddAll fills the records through shard.Fill and merges the result into
// the current histogram. Records that do not yield a sample are skipped
// and reported together.
//
// Shards are finalized before they are merged, so an event must not be
// split between the sharded part and a later fill. Samples of the event
// left open by the previous fill are filled in place, and the samples of
// the last event of the batch are held back until the next fill or Doc.
func (s *histSeries[B]) AddAll(ctx context.Context, shards int, recs []Record) error {
	samples := s.carry
	s.carry = nil
	var skipped int
	var firstErr error
	for _, rec := range recs {
		sample, err := s.extract.sample(rec)
		if err != nil {
			skipped++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		samples = append(samples, sample)
	}

	if err := s.fillBatch(ctx, shards, samples); err != nil {
		return err
	}
	if skipped > 0 {
		return fmt.Errorf("skipped %d of %d records: %w", skipped, len(recs), firstErr)
	}
	return nil
}

func (s *histSeries[B]) fillBatch(ctx context.Context, shards int, samples []hist.Sample[float64]) error {
	if _, ok := any(new(B)).(bin.Merger[B]); !ok {
		// bins without merge support are filled in place
		for _, sample := range samples {
			if err := s.fill(sample); err != nil {
				return err
			}
		}
		return nil
	}

	// samples of the open event continue it in place; samples of the last
	// event of the batch wait for the next fill
	var held *int64
	if n := len(samples); n > 0 && samples[n-1].Event != nil {
		id := samples[n-1].Event.ID
		held = &id
	}
	var rest []hist.Sample[float64]
	for _, sample := range samples {
		switch {
		case held != nil && sameEvent(sample, *held):
			s.carry = append(s.carry, sample)
		case s.open != nil && sameEvent(sample, *s.open):
			if err := s.fill(sample); err != nil {
				return err
			}
		default:
			rest = append(rest, sample)
		}
	}
	if len(rest) == 0 {
		return nil
	}

	filled, err := shard.Fill(ctx, shards, s.newHist, rest)
	if err != nil {
		return err
	}
	return s.h.Merge(filled)
}

func (s *histSeries[B]) Doc() (common.HistogramDoc, error) {
	if err := s.drain(); err != nil {
		return common.HistogramDoc{}, err
	}
	s.h.Finalize()
	s.open = nil
	return common.NewHistogramDoc(s.h)
}

func (s *histSeries[B]) Reset() {
	s.h = s.newHist()
	s.carry = nil
	s.open = nil
}

func exportEvents(list []series, at time.Time) ([]common.HistogramEvent, error) {
	events := make([]common.HistogramEvent, 0, len(list))
	for _, s := range list {
		doc, err := s.Doc()
		if err != nil {
			return nil, fmt.Errorf("histogram %q: %w", s.Name(), err)
		}
		events = append(events, common.NewHistogramEvent(s.Name(), at, doc))
	}
	return events, nil
}
