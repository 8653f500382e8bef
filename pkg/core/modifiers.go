package core

// TargetModifier is one row of the modifier catalog: a combination of chemical
// modification, neutral loss and target adduct.
type TargetModifier struct {
	Modifier    string // ChemMod + NeutralLoss + Adduct
	ChemMod     string
	NeutralLoss string
	Adduct      string
	DecoyPrefix string // ChemMod + NeutralLoss, shared with decoys of this row
}

// ModifierCatalog enumerates every target modifier of a configuration.
// It is immutable once built.
type ModifierCatalog struct {
	rows  []TargetModifier
	index map[string]int // modifier -> row
}

// NewModifierCatalog builds the cross product chemMods x neutralLosses x
// targetAdducts, chemical modification major. Empty chemMods or neutralLosses
// lists mean "none" and behave like [""].
func NewModifierCatalog(chemMods, neutralLosses, targetAdducts []string) (*ModifierCatalog, error) {
	if len(targetAdducts) == 0 {
		return nil, configErrorf("TargetAdducts", "at least one target adduct is required")
	}
	if len(chemMods) == 0 {
		chemMods = []string{""}
	}
	if len(neutralLosses) == 0 {
		neutralLosses = []string{""}
	}

	c := &ModifierCatalog{
		index: make(map[string]int),
	}

	for _, cm := range chemMods {
		for _, nl := range neutralLosses {
			for _, ad := range targetAdducts {
				row := TargetModifier{
					Modifier:    cm + nl + ad,
					ChemMod:     cm,
					NeutralLoss: nl,
					Adduct:      ad,
					DecoyPrefix: cm + nl,
				}
				if prev, ok := c.index[row.Modifier]; ok {
					p := c.rows[prev]
					return nil, configErrorf("TargetModifiers",
						"target modifier '%s' is produced by both (%q, %q, %q) and (%q, %q, %q)",
						row.Modifier, p.ChemMod, p.NeutralLoss, p.Adduct, cm, nl, ad)
				}
				c.index[row.Modifier] = len(c.rows)
				c.rows = append(c.rows, row)
			}
		}
	}

	return c, nil
}

// NewModifierCatalogFromConfig builds the catalog of a validated configuration.
func NewModifierCatalogFromConfig(cfg *Config) (*ModifierCatalog, error) {
	return NewModifierCatalog(cfg.ChemMods, cfg.NeutralLosses, cfg.TargetAdducts)
}

// Len returns the number of target modifiers.
func (c *ModifierCatalog) Len() int {
	return len(c.rows)
}

// Rows returns the catalog rows in enumeration order.
func (c *ModifierCatalog) Rows() []TargetModifier {
	rows := make([]TargetModifier, len(c.rows))
	copy(rows, c.rows)
	return rows
}

// Modifiers returns the target modifier strings in enumeration order.
func (c *ModifierCatalog) Modifiers() []string {
	mods := make([]string, len(c.rows))
	for i, r := range c.rows {
		mods[i] = r.Modifier
	}
	return mods
}

// Lookup splits a target modifier back into its components.
func (c *ModifierCatalog) Lookup(modifier string) (TargetModifier, bool) {
	i, ok := c.index[modifier]
	if !ok {
		return TargetModifier{}, false
	}
	return c.rows[i], true
}

// IsTargetAdduct reports whether adduct is one of the configured target adducts.
func (c *ModifierCatalog) IsTargetAdduct(adduct string) bool {
	for _, r := range c.rows {
		if r.Adduct == adduct {
			return true
		}
	}
	return false
}
