package options

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

type PluginOptions struct {
	HistogramsFile     string
	OutputPath         string
	AggregationPeriod  time.Duration
	LogGroupName       string
	LogStreamName      string
	CloudWatchEndpoint *string
	Protocol           string
}

func (o *PluginOptions) Validate() error {
	var errs error

	if o.HistogramsFile == "" {
		errs = multierr.Append(errs, errors.New("histograms_file must be specified"))
	}
	if o.AggregationPeriod <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("aggregation_period must be positive, got %v", o.AggregationPeriod))
	}
	if o.OutputPath == "" && (o.LogGroupName == "" || o.LogStreamName == "") {
		errs = multierr.Append(errs, errors.New("either output_path or log_group_name and log_stream_name must be specified"))
	}
	if o.Protocol != "" && o.Protocol != "http" && o.Protocol != "https" {
		errs = multierr.Append(errs, fmt.Errorf("protocol must be http or https, got %q", o.Protocol))
	}

	return errs
}
