// Package filter provides annotation filtering and per-level summaries
package filter

import (
	"sort"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	MaxFDR    float64  // Keep only annotations at or below this FDR level (0 = no cutoff)
	Modifiers []string // Keep only specified target modifiers (nil = all)
	TopN      int      // Keep only the N highest-scoring annotations per modifier (0 = no limit)
}

// Apply applies all configured filters. The input slice is not modified and
// the relative order of kept annotations is preserved.
func (c *Config) Apply(anns []core.Annotation) []core.Annotation {
	var kept []core.Annotation
	for _, a := range anns {
		if c.MaxFDR > 0 && a.FDR > c.MaxFDR {
			continue
		}
		if len(c.Modifiers) > 0 && !contains(c.Modifiers, a.Modifier) {
			continue
		}
		kept = append(kept, a)
	}

	if c.TopN > 0 {
		kept = c.filterTopN(kept)
	}

	return kept
}

// filterTopN keeps the TopN highest MSM annotations of each modifier
func (c *Config) filterTopN(anns []core.Annotation) []core.Annotation {
	byMod := make(map[string][]int)
	for i, a := range anns {
		byMod[a.Modifier] = append(byMod[a.Modifier], i)
	}

	keep := make([]bool, len(anns))
	for _, idx := range byMod {
		sort.SliceStable(idx, func(i, j int) bool {
			return anns[idx[i]].MSM > anns[idx[j]].MSM
		})
		if len(idx) > c.TopN {
			idx = idx[:c.TopN]
		}
		for _, i := range idx {
			keep[i] = true
		}
	}

	var out []core.Annotation
	for i, a := range anns {
		if keep[i] {
			out = append(out, a)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Summary counts the annotations of one target modifier passing each level.
type Summary struct {
	Modifier string
	Counts   []int // Counts[i] = annotations with FDR <= levels[i]
	Total    int
}

// Summarize counts annotations per modifier at each level, cumulatively.
// Modifiers appear in the order they are first seen.
func Summarize(anns []core.Annotation, levels []float64) []Summary {
	var out []Summary
	pos := make(map[string]int)

	for _, a := range anns {
		i, ok := pos[a.Modifier]
		if !ok {
			i = len(out)
			pos[a.Modifier] = i
			out = append(out, Summary{Modifier: a.Modifier, Counts: make([]int, len(levels))})
		}
		s := &out[i]
		s.Total++
		for j, l := range levels {
			if a.FDR <= l {
				s.Counts[j]++
			}
		}
	}

	return out
}
