// Package shard fills one histogram from many samples in parallel. Every
// worker owns a private histogram; results are finalized and reduced
// pairwise, so no locking happens on the fill path.
package shard

import (
	"context"
	"encoding/binary"
	"fmt"
	"runtime"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/anthonydresser/fluent-bit-hist/axis"
	"github.com/anthonydresser/fluent-bit-hist/hist"
	"github.com/anthonydresser/fluent-bit-hist/log"
)

// checkEvery is how many samples a worker fills between context checks.
const checkEvery = 1024

// Index returns the shard a sample is routed to. Samples of the same event
// always share a shard so deferred-commit bins see their sub-contributions
// in order; samples without an event are spread by position.
func Index[X axis.Edge](s hist.Sample[X], pos, n int) int {
	if s.Event == nil {
		return pos % n
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(s.Event.ID))
	return int(xxhash.Sum64(buf[:]) % uint64(n))
}

// Fill distributes samples over n histograms created by newHist, fills
// them concurrently, finalizes them and merges the result into one
// histogram. n <= 0 uses GOMAXPROCS workers. The first fill error cancels
// the remaining workers.
func Fill[X axis.Edge, B any](ctx context.Context, n int, newHist func() *hist.Histogram[X, B], samples []hist.Sample[X]) (*hist.Histogram[X, B], error) {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > len(samples) && len(samples) > 0 {
		n = len(samples)
	}

	parts := make([][]hist.Sample[X], n)
	for i, s := range samples {
		k := Index(s, i, n)
		parts[k] = append(parts[k], s)
	}
	log.Debug().Printf("filling %d samples over %d shards\n", len(samples), n)

	shards := make([]*hist.Histogram[X, B], n)
	g, gctx := errgroup.WithContext(ctx)
	for k := range parts {
		k := k
		shards[k] = newHist()
		g.Go(func() error {
			h := shards[k]
			for i, s := range parts[k] {
				if i%checkEvery == 0 {
					if err := gctx.Err(); err != nil {
						return err
					}
				}
				if err := h.FillSample(s); err != nil {
					return fmt.Errorf("shard %d: %w", k, err)
				}
			}
			h.Finalize()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Reduce(ctx, shards)
}

// Reduce merges histograms pairwise, each round in parallel, and returns
// the result. The inputs are consumed.
func Reduce[X axis.Edge, B any](ctx context.Context, hs []*hist.Histogram[X, B]) (*hist.Histogram[X, B], error) {
	if len(hs) == 0 {
		return nil, fmt.Errorf("nothing to reduce")
	}
	for len(hs) > 1 {
		next := make([]*hist.Histogram[X, B], (len(hs)+1)/2)
		g, gctx := errgroup.WithContext(ctx)
		for i := range next {
			i := i
			next[i] = hs[2*i]
			if 2*i+1 >= len(hs) {
				continue
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return hs[2*i].Merge(hs[2*i+1])
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		hs = next
	}
	return hs[0], nil
}
