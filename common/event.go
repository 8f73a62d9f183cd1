package common

import "time"

// HistogramEvent is the record emitted for one histogram at each flush.
type HistogramEvent struct {
	Name string `json:"name"`
	// Timestamp is in milliseconds since the epoch.
	Timestamp int64       `json:"timestamp"`
	Axes      [][]float64 `json:"axes"`
	Bins      any         `json:"bins"`
}

func NewHistogramEvent(name string, at time.Time, doc HistogramDoc) HistogramEvent {
	return HistogramEvent{
		Name:      name,
		Timestamp: at.UnixMilli(),
		Axes:      doc.Axes,
		Bins:      doc.Bins,
	}
}

func (e HistogramEvent) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}
