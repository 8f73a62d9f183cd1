package collector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/anthonydresser/fluent-bit-hist/common"
	"github.com/anthonydresser/fluent-bit-hist/options"
)

type recordingFlusher struct {
	mu     sync.Mutex
	events [][]common.HistogramEvent
	closed bool
	err    error
}

func (f *recordingFlusher) Flush(ctx context.Context, events []common.HistogramEvent) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, 0, f.err
	}
	f.events = append(f.events, events)
	return 0, len(events), nil
}

func (f *recordingFlusher) Close() error {
	f.closed = true
	return nil
}

func (f *recordingFlusher) batches() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

const config = `
histograms:
  - name: latency
    weight: w
    axes:
      - field: duration
        edges: [[4, 0, 100]]
  - name: counts
    bin: counted
    axes:
      - field: duration
        edges: [0, 50, 100]
      - field: route
        edges: [0, 1, 2]
  - name: size
    bin: moment
    value: bytes
    axes:
      - field: route
        edges: [0, 1, 2]
  - name: nlo
    bin: nlo
    event: event_id
    weight: w
    sparse: true
    axes:
      - field: duration
        edges: [[2, 0, 100]]
`

func newTestCollector(t *testing.T, f *recordingFlusher) *Collector {
	t.Helper()
	conf, err := options.ParseHistogramConfig([]byte(config))
	require.NoError(t, err)
	c, err := NewCollector(context.Background(), conf, f, 0)
	require.NoError(t, err)
	c.now = func() time.Time { return time.UnixMilli(1000) }
	return c
}

func records() []Record {
	return []Record{
		{"duration": 10, "route": 0.5, "w": 2.0, "bytes": 100, "event_id": 1},
		{"duration": []byte("30"), "route": 1.5, "w": 1.0, "bytes": 300, "event_id": 1},
		{"duration": 80.0, "route": 0.5, "w": 0.5, "bytes": 200, "event_id": int64(2)},
	}
}

func TestAggregateAndFlush(t *testing.T) {
	f := &recordingFlusher{}
	c := newTestCollector(t, f)
	assert.Equal(t, []string{"latency", "counts", "size", "nlo"}, c.Names())

	for _, rec := range records() {
		require.NoError(t, c.AggregateRecord(rec))
	}
	require.NoError(t, c.Flush(context.Background()))

	require.Len(t, f.events, 1)
	events := f.events[0]
	require.Len(t, events, 4)
	for _, ev := range events {
		assert.Equal(t, int64(1000), ev.Timestamp)
	}

	latency := events[0]
	assert.Equal(t, "latency", latency.Name)
	assert.Equal(t, [][]float64{{0, 25, 50, 75, 100}}, latency.Axes)
	sb := latency.Bins.(common.SchemaBins)
	assert.Equal(t, []float64{2, 4}, sb.Values[1])
	assert.Equal(t, []float64{1, 1}, sb.Values[2])
	assert.Equal(t, []float64{0.5, 0.25}, sb.Values[4])

	counts := events[1].Bins.(common.SchemaBins)
	assert.Equal(t, []string{"w", "w2", "n"}, counts.Fields)
	// duration 10 and 30 fall in [0, 50), route 0.5 and 1.5 in separate bins
	assert.Equal(t, []float64{1, 1, 1}, counts.Values[1*4+1])
	assert.Equal(t, []float64{1, 1, 1}, counts.Values[1*4+2])
	assert.Equal(t, []float64{1, 1, 1}, counts.Values[2*4+1])

	size := events[2].Bins.(common.SchemaBins)
	assert.Equal(t, []string{"n", "total", "mean", "variance"}, size.Fields)
	assert.Equal(t, 150.0, size.Values[1][2])

	nlo := events[3].Bins.(common.SchemaBins)
	// event 1 contributes 2+1 to the first bin, event 2 0.5 to the second
	assert.Equal(t, []float64{3, 9, 1, 2}, nlo.Values[1])
	assert.Equal(t, []float64{0.5, 0.25, 1, 1}, nlo.Values[2])

	// flushing resets the histograms
	require.NoError(t, c.Flush(context.Background()))
	require.Len(t, f.events, 2)
	assert.Equal(t, []float64{0, 0}, f.events[1][0].Bins.(common.SchemaBins).Values[1])
}

func TestAggregateRecordErrors(t *testing.T) {
	c := newTestCollector(t, &recordingFlusher{})
	err := c.AggregateRecord(Record{"duration": 10, "w": "heavy"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissingField)
	assert.Contains(t, err.Error(), `field "w" is not numeric`)

	// the counted histogram only needs duration and route
	require.Error(t, c.AggregateRecord(Record{"duration": 10, "route": 1}))
	d, err := c.Dict()
	require.NoError(t, err)
	counts := d.Hists["counts"].Bins
	assert.NotNil(t, counts)
}

func TestAggregateRecordsSharded(t *testing.T) {
	seq := newTestCollector(t, &recordingFlusher{})
	par := newTestCollector(t, &recordingFlusher{})

	var recs []Record
	for i := 0; i < 50; i++ {
		recs = append(recs, records()...)
	}
	for _, rec := range recs {
		require.NoError(t, seq.AggregateRecord(rec))
	}
	require.NoError(t, par.AggregateRecords(context.Background(), 4, recs))

	want, err := seq.Dict()
	require.NoError(t, err)
	got, err := par.Dict()
	require.NoError(t, err)
	assert.Equal(t, want.Axes, got.Axes)
	assert.Equal(t, want.Bins, got.Bins)
	// every event id lands in a single bin, so nlo bins agree as well
	for name := range want.Hists {
		assert.Equal(t, want.Hists[name], got.Hists[name], name)
	}
}

func TestAggregateRecordsReportsSkipped(t *testing.T) {
	c := newTestCollector(t, &recordingFlusher{})
	err := c.AggregateRecords(context.Background(), 2, []Record{{"duration": 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skipped 1 of 1 records")
}

const nloConfig = `
histograms:
  - name: nlo
    bin: nlo
    event: event_id
    weight: w
    axes:
      - field: duration
        edges: [[2, 0, 100]]
`

func newNLOCollector(t *testing.T, f *recordingFlusher) *Collector {
	t.Helper()
	conf, err := options.ParseHistogramConfig([]byte(nloConfig))
	require.NoError(t, err)
	c, err := NewCollector(context.Background(), conf, f, 0)
	require.NoError(t, err)
	return c
}

func TestAggregateRecordsEventAcrossBatches(t *testing.T) {
	ctx := context.Background()
	rec := Record{"duration": 10, "w": 1.0, "event_id": 7}

	tests := []struct {
		name string
		fill func(c *Collector) error
	}{
		{"two batches", func(c *Collector) error {
			return multierr.Combine(
				c.AggregateRecords(ctx, 2, []Record{rec}),
				c.AggregateRecords(ctx, 2, []Record{rec}),
			)
		}},
		{"record then batch", func(c *Collector) error {
			return multierr.Combine(
				c.AggregateRecord(rec),
				c.AggregateRecords(ctx, 2, []Record{rec}),
			)
		}},
		{"batch then record", func(c *Collector) error {
			return multierr.Combine(
				c.AggregateRecords(ctx, 2, []Record{rec}),
				c.AggregateRecord(rec),
			)
		}},
		{"batch ends mid event", func(c *Collector) error {
			other := Record{"duration": 60, "w": 3.0, "event_id": 8}
			return multierr.Combine(
				c.AggregateRecords(ctx, 4, []Record{other, other, rec}),
				c.AggregateRecords(ctx, 4, []Record{rec}),
			)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &recordingFlusher{}
			c := newNLOCollector(t, f)
			require.NoError(t, tt.fill(c))
			require.NoError(t, c.Flush(ctx))

			require.Len(t, f.events, 1)
			nlo := f.events[0][0].Bins.(common.SchemaBins)
			// one event with two entries of weight 1
			assert.Equal(t, []float64{2, 4, 1, 2}, nlo.Values[1])
		})
	}
}

func TestDictIncludesHeldBackEvent(t *testing.T) {
	f := &recordingFlusher{}
	c := newNLOCollector(t, f)
	rec := Record{"duration": 10, "w": 1.0, "event_id": 7}
	require.NoError(t, c.AggregateRecords(context.Background(), 2, []Record{rec}))

	d, err := c.Dict()
	require.NoError(t, err)
	require.Contains(t, d.Hists, "nlo")

	// the snapshot committed the held event exactly once
	require.NoError(t, c.Flush(context.Background()))
	require.Len(t, f.events, 1)
	assert.Equal(t, []float64{1, 1, 1, 1}, f.events[0][0].Bins.(common.SchemaBins).Values[1])
}

func TestFlushWithoutFlusherKeepsData(t *testing.T) {
	conf, err := options.ParseHistogramConfig([]byte(nloConfig))
	require.NoError(t, err)
	c, err := NewCollector(context.Background(), conf, nil, 0)
	require.NoError(t, err)
	rec := Record{"duration": 10, "w": 1.0, "event_id": 7}
	require.NoError(t, c.AggregateRecord(rec))

	last := c.LastFlush
	assert.EqualError(t, c.Flush(context.Background()), "no flusher configured")
	assert.Equal(t, last, c.LastFlush)

	// the histogram was not reset, so a later flush still sees the record
	f := &recordingFlusher{}
	c.flusher = f
	require.NoError(t, c.Flush(context.Background()))
	require.Len(t, f.events, 1)
	assert.Equal(t, []float64{1, 1, 1, 1}, f.events[0][0].Bins.(common.SchemaBins).Values[1])
}

func TestFlushError(t *testing.T) {
	f := &recordingFlusher{err: errors.New("sink down")}
	c := newTestCollector(t, f)
	assert.EqualError(t, c.Flush(context.Background()), "sink down")

	noSink, err := NewCollector(context.Background(), &options.HistogramConfig{}, nil, 0)
	require.NoError(t, err)
	assert.Error(t, noSink.Flush(context.Background()))
}

func TestScheduledFlush(t *testing.T) {
	f := &recordingFlusher{}
	conf, err := options.ParseHistogramConfig([]byte(config))
	require.NoError(t, err)
	c, err := NewCollector(context.Background(), conf, f, 10*time.Millisecond)
	require.NoError(t, err)

	c.Start()
	assert.Eventually(t, func() bool { return f.batches() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Close(context.Background()))
	assert.True(t, f.closed)
}

func TestScheduledTaskReportsErrors(t *testing.T) {
	task := NewScheduledTask(context.Background(), 5*time.Millisecond, func(ctx context.Context) error {
		return errors.New("boom")
	})
	task.Start()
	select {
	case err := <-task.Errors():
		assert.EqualError(t, err, "boom")
	case <-time.After(time.Second):
		t.Fatal("no error reported")
	}
	task.Stop()

	idle := NewScheduledTask(context.Background(), time.Second, func(ctx context.Context) error { return nil })
	idle.Stop()
}

func BenchmarkAggregateRecord(b *testing.B) {
	conf, err := options.ParseHistogramConfig([]byte(config))
	if err != nil {
		b.Fatal(err)
	}
	c, err := NewCollector(context.Background(), conf, &recordingFlusher{}, 0)
	if err != nil {
		b.Fatal(err)
	}
	recs := records()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, rec := range recs {
			if err := c.AggregateRecord(rec); err != nil {
				b.Fatal(err)
			}
		}
		if i%100 == 0 {
			if err := c.Flush(context.Background()); err != nil {
				b.Fatal(err)
			}
		}
	}
}
