package decoy

import "github.com/ChrisMcGann/FDRKey/pkg/core"

// IonSet returns every ion the scoring engine must evaluate before FDR can be
// estimated: all target ions followed by all decoy ions, without duplicates.
// Targets come in formula x catalog order, decoys in table order.
func IonSet(t *Table) []core.IonKey {
	size := len(t.formulas)*len(t.modifiers) + len(t.rows)
	seen := make(map[core.IonKey]bool, size)
	ions := make([]core.IonKey, 0, size)

	add := func(k core.IonKey) {
		if seen[k] {
			return
		}
		seen[k] = true
		ions = append(ions, k)
	}

	for _, f := range t.formulas {
		for _, tm := range t.modifiers {
			add(core.IonKey{Formula: f, Modifier: tm})
		}
	}
	for _, r := range t.rows {
		add(r.DecoyKey())
	}

	return ions
}
