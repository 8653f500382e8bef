package fdr

import (
	"sort"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// scoreThreshold returns the lowest threshold whose aggregated FDR is below
// level. thresholds are descending, so that is the last qualifying one.
func scoreThreshold(thresholds, agg []float64, level float64) (float64, bool) {
	var (
		best  float64
		found bool
	)
	for k, s := range thresholds {
		if agg[k] < level {
			best, found = s, true
		}
	}
	return best, found
}

// digitize assigns every ion the smallest level whose score threshold it
// reaches. Levels are visited in ascending order and an ion keeps the first
// level it is assigned; ions reaching no threshold get core.UnqualifiedLevel.
func digitize(scores, thresholds, agg, levels []float64) []float64 {
	out := make([]float64, len(scores))
	for i := range out {
		out[i] = core.UnqualifiedLevel
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	assigned := make([]bool, len(scores))
	for _, level := range levels {
		thr, ok := scoreThreshold(thresholds, agg, level)
		if !ok {
			continue
		}
		for _, i := range order {
			if scores[i] < thr {
				break
			}
			if !assigned[i] {
				out[i] = level
				assigned[i] = true
			}
		}
	}

	return out
}
