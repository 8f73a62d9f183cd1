package main

import (
	"encoding/json"
	"fmt"
)

// HistogramEvent mirrors the message the aggregator writes for every
// histogram at each flush.
type HistogramEvent struct {
	Name      string          `json:"name"`
	Timestamp int64           `json:"timestamp"`
	Axes      [][]float64     `json:"axes"`
	Bins      json.RawMessage `json:"bins"`
}

// validateEvent checks that the bins of a histogram event cover every bin
// of its axes, underflow and overflow included. Bins are either a list of
// numbers or a [fields, values] pair.
func validateEvent(event HistogramEvent) error {
	if event.Name == "" {
		return fmt.Errorf("missing histogram name")
	}
	if len(event.Axes) == 0 {
		return fmt.Errorf("histogram %s has no axes", event.Name)
	}
	size := 1
	for i, edges := range event.Axes {
		if len(edges) < 2 {
			return fmt.Errorf("histogram %s axis %d has %d edges", event.Name, i, len(edges))
		}
		for j := 1; j < len(edges); j++ {
			if edges[j] < edges[j-1] {
				return fmt.Errorf("histogram %s axis %d edges are not sorted", event.Name, i)
			}
		}
		size *= len(edges) + 1
	}

	var numbers []float64
	if err := json.Unmarshal(event.Bins, &numbers); err == nil {
		if len(numbers) != size {
			return fmt.Errorf("histogram %s has %d bins, expected %d", event.Name, len(numbers), size)
		}
		return nil
	}

	var schema []json.RawMessage
	if err := json.Unmarshal(event.Bins, &schema); err != nil || len(schema) != 2 {
		return fmt.Errorf("histogram %s bins are neither numbers nor [fields, values]", event.Name)
	}
	var fields []string
	var values [][]float64
	if err := json.Unmarshal(schema[0], &fields); err != nil {
		return fmt.Errorf("histogram %s fields: %v", event.Name, err)
	}
	if err := json.Unmarshal(schema[1], &values); err != nil {
		return fmt.Errorf("histogram %s values: %v", event.Name, err)
	}
	if len(values) != size {
		return fmt.Errorf("histogram %s has %d bins, expected %d", event.Name, len(values), size)
	}
	for i, v := range values {
		if len(v) != len(fields) {
			return fmt.Errorf("histogram %s bin %d has %d values for %d fields", event.Name, i, len(v), len(fields))
		}
	}
	return nil
}

