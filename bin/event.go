package bin

// Event is the fill context of one logical sample. It replaces process
// wide "current event" state: callers build one per sub-contribution and
// pass it to every fill explicitly.
type Event struct {
	// ID identifies the logical event. Sub-contributions of the same event
	// share it.
	ID int64
	// Weight is the weight of this sub-contribution.
	Weight float64
	// Weights carries a vector of weights (e.g. scale variations) for bins
	// that track several at once.
	Weights []float64
}
