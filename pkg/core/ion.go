package core

import "fmt"

// IonKey identifies an ion: a sum formula combined with a modifier. It is the
// unit the external scoring engine evaluates.
type IonKey struct {
	Formula  string
	Modifier string
}

func (k IonKey) String() string {
	return fmt.Sprintf("%s%s", k.Formula, k.Modifier)
}

// ScoreTable maps ions to their MSM score. Ions absent from the table score 0.
type ScoreTable map[IonKey]float64

// Score returns the score of an ion, 0 when absent.
func (t ScoreTable) Score(k IonKey) float64 {
	return t[k]
}

// Missing counts keys that have no entry in the table.
func (t ScoreTable) Missing(keys []IonKey) int {
	n := 0
	for _, k := range keys {
		if _, ok := t[k]; !ok {
			n++
		}
	}
	return n
}

// Annotation is the FDR result for one target ion, ready for persistence.
type Annotation struct {
	Formula     string
	Modifier    string
	ChemMod     string
	NeutralLoss string
	Adduct      string
	MSM         float64
	FDR         float64 // One of the configured levels or UnqualifiedLevel
}

// Key returns the ion the annotation belongs to.
func (a Annotation) Key() IonKey {
	return IonKey{Formula: a.Formula, Modifier: a.Modifier}
}

// UniqueFormulas drops repeated formulas, keeping the first occurrence.
func UniqueFormulas(formulas []string) []string {
	seen := make(map[string]bool, len(formulas))
	out := make([]string, 0, len(formulas))
	for _, f := range formulas {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
