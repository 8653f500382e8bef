package decoy

import "github.com/ChrisMcGann/FDRKey/pkg/core"

// Row is one decoy draw: a decoy modifier paired with the target modifier and
// formula it was drawn for.
type Row struct {
	Formula        string
	TargetModifier string
	DecoyModifier  string
}

// DecoyKey returns the decoy ion of the row.
func (r Row) DecoyKey() core.IonKey {
	return core.IonKey{Formula: r.Formula, Modifier: r.DecoyModifier}
}

// Table is the immutable output of a sampling pass.
type Table struct {
	sampleSize int
	formulas   []string
	modifiers  []string
	rows       []Row
	byTarget   map[string][]int // target modifier -> row indices, formula order
}

func newTable(sampleSize int, formulas, modifiers []string) *Table {
	return &Table{
		sampleSize: sampleSize,
		formulas:   formulas,
		modifiers:  modifiers,
		byTarget:   make(map[string][]int, len(modifiers)),
	}
}

func (t *Table) add(r Row) {
	t.byTarget[r.TargetModifier] = append(t.byTarget[r.TargetModifier], len(t.rows))
	t.rows = append(t.rows, r)
}

// SampleSize returns the number of draws per (formula, target modifier).
func (t *Table) SampleSize() int {
	return t.sampleSize
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Formulas returns the target formulas in sampling order.
func (t *Table) Formulas() []string {
	return append([]string(nil), t.formulas...)
}

// Modifiers returns the target modifiers in catalog order.
func (t *Table) Modifiers() []string {
	return append([]string(nil), t.modifiers...)
}

// Rows returns all rows in generation order.
func (t *Table) Rows() []Row {
	return append([]Row(nil), t.rows...)
}

// Targets returns the target ions of modifier tm, one per formula.
func (t *Table) Targets(tm string) []core.IonKey {
	keys := make([]core.IonKey, len(t.formulas))
	for i, f := range t.formulas {
		keys[i] = core.IonKey{Formula: f, Modifier: tm}
	}
	return keys
}

// Draw returns the decoy ions of draw i for target modifier tm: every
// SampleSize-th row of tm starting at offset i, one decoy ion per formula.
func (t *Table) Draw(tm string, i int) []core.IonKey {
	idx := t.byTarget[tm]
	if i < 0 || i >= t.sampleSize {
		return nil
	}
	keys := make([]core.IonKey, 0, len(idx)/t.sampleSize)
	for j := i; j < len(idx); j += t.sampleSize {
		keys = append(keys, t.rows[idx[j]].DecoyKey())
	}
	return keys
}
