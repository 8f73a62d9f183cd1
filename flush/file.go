package flush

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/anthonydresser/fluent-bit-hist/common"
)

type fileFlusher struct {
	file    *os.File
	encoder *json.Encoder
}

func initFileFlush(outputPath string) (*fileFlusher, error) {
	file, err := os.OpenFile(outputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", outputPath, err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "")
	return &fileFlusher{file: file, encoder: encoder}, nil
}

// Flush writes one JSON document per line.
func (f *fileFlusher) Flush(ctx context.Context, events []common.HistogramEvent) (int, int, error) {
	sizePrior, err := f.file.Stat()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat file %s: %w", f.file.Name(), err)
	}
	count := 0
	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return 0, count, err
		}
		if err := f.encoder.Encode(event); err != nil {
			return 0, count, fmt.Errorf("failed to write to file %s: %w", f.file.Name(), err)
		}
		count++
	}
	if err := f.file.Sync(); err != nil {
		return 0, count, fmt.Errorf("failed to sync file %s: %w", f.file.Name(), err)
	}

	sizeAfter, err := f.file.Stat()
	if err != nil {
		return 0, count, fmt.Errorf("failed to stat file %s: %w", f.file.Name(), err)
	}

	return int(sizeAfter.Size() - sizePrior.Size()), count, nil
}

func (f *fileFlusher) Close() error {
	return f.file.Close()
}
