package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/anthonydresser/fluent-bit-hist/common"
	"github.com/anthonydresser/fluent-bit-hist/flush"
	"github.com/anthonydresser/fluent-bit-hist/log"
	"github.com/anthonydresser/fluent-bit-hist/options"
)

// Plugin context
type Collector struct {
	mu        sync.RWMutex
	series    []series
	flusher   flush.Flusher
	LastFlush time.Time
	Task      *ScheduledTask

	now func() time.Time
}

// NewCollector builds one histogram per definition. The flusher may be nil
// when the collector is only read through Dict.
func NewCollector(ctx context.Context, conf *options.HistogramConfig, flusher flush.Flusher, period time.Duration) (*Collector, error) {
	c := &Collector{
		flusher:   flusher,
		LastFlush: time.Now(),
		now:       time.Now,
	}
	for i := range conf.Histograms {
		s, err := newSeries(&conf.Histograms[i])
		if err != nil {
			return nil, err
		}
		c.series = append(c.series, s)
	}
	if period > 0 {
		c.Task = NewScheduledTask(ctx, period, c.Flush)
	}
	return c, nil
}

// AggregateRecord fills rec into every histogram. A histogram the record
// cannot be mapped onto is left untouched; the problems are returned
// together.
func (c *Collector) AggregateRecord(rec Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error
	for _, s := range c.series {
		if err := s.Add(rec); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errs
}

// AggregateRecords fills a batch of records into every histogram over the
// given number of shards.
//
// Batches need not be aligned on event ids. The records of the last event
// of a batch are held back until the next batch, the next AggregateRecord,
// or the next Dict or Flush, so an event split across batches is committed
// once.
func (c *Collector) AggregateRecords(ctx context.Context, shards int, recs []Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs error
	for _, s := range c.series {
		if err := s.AddAll(ctx, shards, recs); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errs
}

// Flush exports every histogram, resets them and hands the events to the
// flusher.
func (c *Collector) Flush(ctx context.Context) error {
	if c.flusher == nil {
		return fmt.Errorf("no flusher configured")
	}

	c.mu.Lock()
	at := c.now()
	events, err := exportEvents(c.series, at)
	if err == nil {
		for _, s := range c.series {
			s.Reset()
		}
		c.LastFlush = at
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}

	size, count, err := c.flusher.Flush(ctx, events)
	if err != nil {
		return err
	}
	log.Debug().Printf("flushed %d histograms, %d bytes\n", count, size)
	return nil
}

// Dict snapshots all histograms into one document without resetting them.
func (c *Collector) Dict() (*common.Dict, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := common.NewDict()
	for _, s := range c.series {
		doc, err := s.Doc()
		if err != nil {
			return nil, fmt.Errorf("histogram %q: %w", s.Name(), err)
		}
		d.Add(s.Name(), doc)
	}
	return d, nil
}

func (c *Collector) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.series))
	for i, s := range c.series {
		names[i] = s.Name()
	}
	return names
}

func (c *Collector) Start() {
	if c.Task != nil {
		c.Task.Start()
	}
}

// Close stops the periodic flush, flushes what is left and closes the
// flusher.
func (c *Collector) Close(ctx context.Context) error {
	if c.Task != nil {
		c.Task.Stop()
	}
	if c.flusher == nil {
		return nil
	}
	return multierr.Combine(c.Flush(ctx), c.flusher.Close())
}
