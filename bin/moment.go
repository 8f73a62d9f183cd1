package bin

import (
	"fmt"
	"math"
)

const (
	defaultMoments = 2
	maxMoments     = 4
)

// Moment estimates total weight, mean, variance and optionally skewness
// and kurtosis of the values filled into it, using an incremental update
// that avoids accumulating raw power sums.
//
// K is the highest moment tracked (1 to 4). The zero value tracks up to
// the variance.
type Moment struct {
	K int
	// N is the number of samples.
	N uint64
	// Total is the sum of sample weights.
	Total float64
	Mean  float64
	// M2, M3, M4 are the central moment accumulators.
	M2, M3, M4 float64
}

func (m *Moment) order() int {
	switch {
	case m.K <= 0:
		return defaultMoments
	case m.K > maxMoments:
		return maxMoments
	}
	return m.K
}

// Call takes (x) for an unweighted sample or (x, weight).
func (m *Moment) Call(args ...float64) error {
	switch len(args) {
	case 1:
		m.update(args[0], 1)
	case 2:
		m.update(args[0], args[1])
	default:
		return fmt.Errorf("%w: moment bin takes (x) or (x, weight), got %d values", ErrUnsupportedFillShape, len(args))
	}
	return nil
}

// update merges a single point of weight w into the running moments.
// See Pébay, "Formulas for Robust, One-Pass Parallel Computation of
// Covariances and Arbitrary-Order Statistical Moments" (2008).
func (m *Moment) update(x, w float64) {
	k := m.order()
	prev := m.Total
	m.Total += w
	m.N++
	if m.N == 1 {
		m.Mean = x
		return
	}
	if w == 0 || m.Total == 0 {
		return
	}
	d := x - m.Mean
	r := d * w / m.Total
	m.Mean += r
	if k < 2 {
		return
	}
	t := d * r * prev
	if k >= 4 {
		m.M4 += t*r*r*(prev*prev-prev*w+w*w)/(w*w) + 6*r*r*m.M2 - 4*r*m.M3
	}
	if k >= 3 {
		m.M3 += t*r*(prev-w)/w - 3*r*m.M2
	}
	m.M2 += t
}

// Variance returns the unbiased weighted variance estimate.
func (m *Moment) Variance() float64 {
	if m.N < 2 || m.Total == 0 {
		return 0
	}
	n := float64(m.N)
	return n * m.M2 / ((n - 1) * m.Total)
}

func (m *Moment) Stdev() float64 { return math.Sqrt(m.Variance()) }

// Skewness is zero unless K >= 3.
func (m *Moment) Skewness() float64 {
	if m.order() < 3 || m.M2 == 0 {
		return 0
	}
	return math.Sqrt(m.Total) * m.M3 / math.Pow(m.M2, 1.5)
}

// Kurtosis returns the excess kurtosis and is zero unless K >= 4.
func (m *Moment) Kurtosis() float64 {
	if m.order() < 4 || m.M2 == 0 {
		return 0
	}
	return m.Total*m.M4/(m.M2*m.M2) - 3
}

func (m *Moment) Fields() []string {
	fields := []string{"n", "total", "mean", "variance", "skewness", "kurtosis"}
	return fields[:m.order()+2]
}

func (m *Moment) Values() []float64 {
	values := []float64{float64(m.N), m.Total, m.Mean, m.Variance(), m.Skewness(), m.Kurtosis()}
	return values[:m.order()+2]
}
