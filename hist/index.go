package hist

import "github.com/anthonydresser/fluent-bit-hist/axis"

// JoinIndex folds per-axis indices into a single row-major index: the first
// axis varies slowest. sizes and idx must have the same length; indices are
// not range checked.
func JoinIndex(sizes, idx []int) int {
	index := 0
	for i, n := range sizes {
		index = index*n + idx[i]
	}
	return index
}

// TotalSize is the number of bins spanned by axes of the given sizes.
func TotalSize(sizes []int) int {
	total := 1
	for _, n := range sizes {
		total *= n
	}
	return total
}

// FindIndex locates the bin of each coordinate and joins the results.
func FindIndex[X axis.Edge](axes []axis.Axis[X], xs []X) int {
	index := 0
	for i, a := range axes {
		index = index*a.NBins() + a.FindBinIndex(xs[i])
	}
	return index
}

// Sizes returns NBins of every axis.
func Sizes[X axis.Edge](axes []axis.Axis[X]) []int {
	sizes := make([]int, len(axes))
	for i, a := range axes {
		sizes[i] = a.NBins()
	}
	return sizes
}
