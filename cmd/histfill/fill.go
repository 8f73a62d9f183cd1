package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/anthonydresser/fluent-bit-hist/collector"
	"github.com/anthonydresser/fluent-bit-hist/log"
	"github.com/anthonydresser/fluent-bit-hist/options"
)

var (
	inputPath  string
	outputPath string
	shards     int
	batchSize  int
)

func init() {
	rootCmd.AddCommand(fillCmd)
	fillCmd.Flags().StringVar(&inputPath, "input", "-", "JSON lines input, - for stdin")
	fillCmd.Flags().StringVar(&outputPath, "output", "-", "Output file, - for stdout")
	fillCmd.Flags().IntVar(&shards, "shards", 0, "Parallel fill shards (default GOMAXPROCS)")
	fillCmd.Flags().IntVar(&batchSize, "batch", 10000, "Records filled per batch")
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill histograms and print them as one dictionary",
	Long: `Fills every configured histogram from the input records and writes a
single JSON document sharing axes and bin schemas between histograms.
Records that do not carry the fields of a histogram are skipped for it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := options.LoadHistogramConfig(configFile)
		if err != nil {
			return err
		}
		c, err := collector.NewCollector(cmd.Context(), conf, nil, 0)
		if err != nil {
			return err
		}

		in, closeIn, err := openInput(cmd, inputPath)
		if err != nil {
			return err
		}
		defer closeIn()

		n, err := fillFrom(cmd, c, in)
		if err != nil {
			return err
		}
		log.Info().Printf("filled %d records into %d histograms\n", n, len(c.Names()))

		d, err := c.Dict()
		if err != nil {
			return err
		}
		out, closeOut, err := openOutput(cmd, outputPath)
		if err != nil {
			return err
		}
		defer closeOut()
		return json.NewEncoder(out).Encode(d)
	},
}

func fillFrom(cmd *cobra.Command, c *collector.Collector, in io.Reader) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch must be positive, got %d", batchSize)
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	total := 0
	batch := make([]collector.Record, 0, batchSize)
	flushBatch := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := c.AggregateRecords(cmd.Context(), shards, batch); err != nil {
			if cmd.Context().Err() != nil {
				return err
			}
			log.Warn().Printf("%v\n", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec collector.Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return total, fmt.Errorf("line %d: %w", line, err)
		}
		batch = append(batch, rec)
		if len(batch) == batchSize {
			if err := flushBatch(); err != nil {
				return total, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return total, err
	}
	return total, flushBatch()
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func openOutput(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "-" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
