package fdr

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// sortedDesc returns a copy of xs sorted from highest to lowest.
func sortedDesc(xs []float64) []float64 {
	out := append([]float64(nil), xs...)
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

// distinctDesc drops repeated values from a descending slice.
func distinctDesc(sorted []float64) []float64 {
	var out []float64
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

// empiricalFDR walks the score thresholds from highest to lowest and returns
// decoy_cum / target_cum at each, where the cumulative counts include every
// ion scoring at or above the threshold. targets and decoys must be sorted
// descending. Thresholds with no target at or above them yield NaN.
func empiricalFDR(thresholds, targets, decoys []float64) []float64 {
	fdr := make([]float64, len(thresholds))
	ti, di := 0, 0
	for k, s := range thresholds {
		for ti < len(targets) && targets[ti] >= s {
			ti++
		}
		for di < len(decoys) && decoys[di] >= s {
			di++
		}
		if ti == 0 {
			fdr[k] = math.NaN()
			continue
		}
		fdr[k] = float64(di) / float64(ti)
	}
	return fdr
}

// medianCurve aggregates per-draw curves point by point. NaN points are
// skipped; a point that is NaN in every draw stays NaN.
func medianCurve(curves [][]float64) []float64 {
	if len(curves) == 0 {
		return nil
	}
	agg := make([]float64, len(curves[0]))
	buf := make([]float64, 0, len(curves))
	for k := range agg {
		buf = buf[:0]
		for _, c := range curves {
			if !math.IsNaN(c[k]) {
				buf = append(buf, c[k])
			}
		}
		agg[k] = median(buf)
	}
	return agg
}

// median sorts xs in place and returns the mean of its one or two central
// values.
func median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(xs)
	return stat.Mean(xs[(n-1)/2:n/2+1], nil)
}
