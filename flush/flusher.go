package flush

import (
	"context"
	"fmt"

	"github.com/anthonydresser/fluent-bit-hist/common"
	"github.com/anthonydresser/fluent-bit-hist/options"
)

// Flusher writes histogram events to a sink. Flush returns the number of
// bytes and events written.
type Flusher interface {
	Flush(ctx context.Context, events []common.HistogramEvent) (int, int, error)
	Close() error
}

func InitFlusher(ctx context.Context, options *options.PluginOptions) (Flusher, error) {
	var flusher Flusher
	var err error
	if options.OutputPath != "" {
		flusher, err = initFileFlush(options.OutputPath)
	} else if options.LogGroupName != "" && options.LogStreamName != "" {
		endpoint := ""
		if options.CloudWatchEndpoint != nil {
			endpoint = *options.CloudWatchEndpoint
		}
		flusher, err = initCloudwatchFlush(ctx, options.LogGroupName, options.LogStreamName, endpoint, options.Protocol)
	} else {
		err = fmt.Errorf("no output configured")
	}

	return flusher, err
}
