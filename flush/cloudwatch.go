package flush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/anthonydresser/fluent-bit-hist/common"
	"github.com/anthonydresser/fluent-bit-hist/log"
)

const (
	// See: http://docs.aws.amazon.com/AmazonCloudWatchLogs/latest/APIReference/API_PutLogEvents.html
	perEventBytes          = 26
	maximumBytesPerPut     = 1048576
	maximumLogEventsPerPut = 10000
	maximumBytesPerEvent   = 1024 * 256 //256KB
)

type cloudwatchFlusher struct {
	client     *cloudwatchlogs.Client
	groupName  string
	streamName string
}

func initCloudwatchFlush(ctx context.Context, groupName, streamName, endpoint, protocol string) (*cloudwatchFlusher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}
	if endpoint != "" {
		destination := "https://"
		if protocol != "" {
			destination = protocol + "://"
		}
		destination += endpoint
		cfg.BaseEndpoint = aws.String(destination)
	}
	flusher := &cloudwatchFlusher{
		client:     cloudwatchlogs.NewFromConfig(cfg),
		groupName:  groupName,
		streamName: streamName,
	}
	_, err = flusher.client.CreateLogStream(ctx, &cloudwatchlogs.CreateLogStreamInput{
		LogGroupName:  aws.String(groupName),
		LogStreamName: aws.String(streamName),
	})
	var exists *types.ResourceAlreadyExistsException
	if errors.As(err, &exists) {
		log.Info().Printf("log stream %s already exists, reusing it\n", streamName)
	} else if err != nil {
		return nil, fmt.Errorf("failed to create log stream: %w", err)
	}
	return flusher, nil
}

// Flush sends events in batches that respect the CloudWatch Logs limits.
// Events too large for a single log event are dropped with a warning.
func (f *cloudwatchFlusher) Flush(ctx context.Context, events []common.HistogramEvent) (int, int, error) {
	currentBatch := make([]types.InputLogEvent, 0, min(len(events), maximumLogEventsPerPut))
	currentBatchSize := 0
	sentBytes, sentEvents := 0, 0

	send := func() error {
		if err := f.sendBatch(ctx, currentBatch); err != nil {
			return err
		}
		sentBytes += currentBatchSize
		sentEvents += len(currentBatch)
		currentBatch = make([]types.InputLogEvent, 0, cap(currentBatch))
		currentBatchSize = 0
		return nil
	}

	for _, event := range events {
		marshalled, err := json.Marshal(event)
		if err != nil {
			return sentBytes, sentEvents, fmt.Errorf("failed to marshal event %s: %w", event.Name, err)
		}

		data := string(marshalled)

		if (len(data) + perEventBytes) > maximumBytesPerEvent {
			log.Warn().Printf("dropping histogram %s that is too large to send, was %d\n", event.Name, len(data))
			continue
		}

		if (currentBatchSize+len(data)+perEventBytes) > maximumBytesPerPut || len(currentBatch) == maximumLogEventsPerPut {
			if err := send(); err != nil {
				return sentBytes, sentEvents, err
			}
		}

		currentBatch = append(currentBatch, types.InputLogEvent{
			Timestamp: aws.Int64(event.Timestamp),
			Message:   aws.String(data),
		})
		currentBatchSize += len(data) + perEventBytes
	}

	if len(currentBatch) > 0 {
		if err := send(); err != nil {
			return sentBytes, sentEvents, err
		}
	}

	return sentBytes, sentEvents, nil
}

func (f *cloudwatchFlusher) sendBatch(ctx context.Context, batch []types.InputLogEvent) error {
	if len(batch) == 0 {
		return nil
	}

	_, err := f.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  aws.String(f.groupName),
		LogStreamName: aws.String(f.streamName),
		LogEvents:     batch,
	})
	if err != nil {
		return fmt.Errorf("failed to put log events: %w", err)
	}

	return nil
}

func (f *cloudwatchFlusher) Close() error { return nil }
