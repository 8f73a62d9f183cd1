package main

/*
#include <stdlib.h>
#include <stdint.h>
#include "fluent-bit/flb_plugin.h"
*/
import (
	"C"
	"context"
	"time"
	"unsafe"

	"github.com/fluent/fluent-bit-go/output"

	"github.com/anthonydresser/fluent-bit-hist/collector"
	"github.com/anthonydresser/fluent-bit-hist/flush"
	"github.com/anthonydresser/fluent-bit-hist/log"
	"github.com/anthonydresser/fluent-bit-hist/options"
)

//export FLBPluginRegister
func FLBPluginRegister(def unsafe.Pointer) int {
	log.Init("hist-aggregator", log.WarnLevel)
	return output.FLBPluginRegister(def, "hist_aggregator", "Histogram Aggregator")
}

//export FLBPluginInit
func FLBPluginInit(plugin unsafe.Pointer) int {
	log.Info().Println("Initializing")

	opts := options.PluginOptions{}

	opts.HistogramsFile = output.FLBPluginConfigKey(plugin, "histograms_file")
	opts.OutputPath = output.FLBPluginConfigKey(plugin, "output_path")
	opts.LogGroupName = output.FLBPluginConfigKey(plugin, "log_group_name")
	opts.LogStreamName = output.FLBPluginConfigKey(plugin, "log_stream_name")
	if endpoint := output.FLBPluginConfigKey(plugin, "endpoint"); endpoint != "" {
		opts.CloudWatchEndpoint = &endpoint
	}
	opts.Protocol = output.FLBPluginConfigKey(plugin, "protocol")

	if logLevel := output.FLBPluginConfigKey(plugin, "log_level"); logLevel != "" {
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			log.Error().Printf("%v\n", err)
			return output.FLB_ERROR
		}
		log.SetLevel(level)
	}

	period := output.FLBPluginConfigKey(plugin, "aggregation_period")
	if period == "" {
		log.Info().Println("aggregation_period not set, defaulting to 1m")
		period = "1m"
	}
	aggregationPeriod, err := time.ParseDuration(period)
	if err != nil {
		log.Error().Printf("invalid aggregation period: %v\n", err)
		return output.FLB_ERROR
	}
	opts.AggregationPeriod = aggregationPeriod

	if err := opts.Validate(); err != nil {
		log.Error().Printf("invalid configuration: %v\n", err)
		return output.FLB_ERROR
	}

	conf, err := options.LoadHistogramConfig(opts.HistogramsFile)
	if err != nil {
		log.Error().Printf("failed to load histograms: %v\n", err)
		return output.FLB_ERROR
	}

	ctx := context.Background()
	flusher, err := flush.InitFlusher(ctx, &opts)
	if err != nil {
		log.Error().Printf("failed to create flusher: %v\n", err)
		return output.FLB_ERROR
	}

	c, err := collector.NewCollector(ctx, conf, flusher, opts.AggregationPeriod)
	if err != nil {
		log.Error().Printf("failed to create collector: %v\n", err)
		return output.FLB_ERROR
	}

	output.FLBPluginSetContext(plugin, c)
	c.Start()
	log.Info().Printf("aggregating %v every %v\n", c.Names(), opts.AggregationPeriod)

	return output.FLB_OK
}

//export FLBPluginFlushCtx
func FLBPluginFlushCtx(ctx, data unsafe.Pointer, length C.int, tag *C.char) int {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Printf("Recovered in FLBPluginFlush: %v\n", r)
		}
	}()
	c := output.FLBPluginGetContext(ctx).(*collector.Collector)

	c.Aggregate(data, int(length))

	return output.FLB_OK
}

//export FLBPluginExitCtx
func FLBPluginExitCtx(ctx unsafe.Pointer) int {
	c := output.FLBPluginGetContext(ctx).(*collector.Collector)
	if err := c.Close(context.Background()); err != nil {
		log.Error().Printf("final flush failed: %v\n", err)
	}
	_ = log.Sync()
	return output.FLB_OK
}

func main() {
}
