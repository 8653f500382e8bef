// Package decoy generates the decoy ion population used for target-decoy FDR
// estimation, and the ion set the external scoring engine has to evaluate.
package decoy

import (
	"fmt"
	"math/rand"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// Adducts is the universe of implausible single-element adducts decoys are
// drawn from. The order is part of the reproducibility contract.
var Adducts = []string{
	"+He", "+Li", "+Be", "+B", "+C", "+N", "+O", "+F", "+Ne", "+Mg",
	"+Al", "+Si", "+P", "+S", "+Cl", "+Ar", "+Ca", "+Sc", "+Ti", "+V",
	"+Cr", "+Mn", "+Fe", "+Co", "+Ni", "+Cu", "+Zn", "+Ga", "+Ge", "+As",
	"+Se", "+Br", "+Kr", "+Rb", "+Sr", "+Y", "+Zr", "+Nb", "+Mo", "+Ru",
	"+Rh", "+Pd", "+Ag", "+Cd", "+In", "+Sn", "+Sb", "+Te", "+I", "+Xe",
	"+Cs", "+Ba", "+La", "+Ce", "+Pr", "+Nd", "+Sm", "+Eu", "+Gd", "+Tb",
	"+Dy", "+Ho", "+Ir", "+Th", "+Pt", "+Os", "+Yb", "+Lu", "+Bi", "+Pb",
	"+Re", "+Tl", "+Tm", "+U", "+W", "+Au", "+Er", "+Hf", "+Hg", "+Ta",
}

// Sampler draws decoy adducts for every (formula, target modifier) pair.
type Sampler struct {
	catalog    *core.ModifierCatalog
	sampleSize int
	seed       int64
	universe   []string
	candidates []string
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithSeed overrides core.DefaultSeed.
func WithSeed(seed int64) Option {
	return func(s *Sampler) {
		s.seed = seed
	}
}

// WithUniverse replaces the decoy adduct universe. Order is preserved.
func WithUniverse(adducts []string) Option {
	return func(s *Sampler) {
		s.universe = adducts
	}
}

// NewSampler validates that sampleSize adducts can be drawn without
// replacement from the decoy candidates of catalog.
func NewSampler(catalog *core.ModifierCatalog, sampleSize int, opts ...Option) (*Sampler, error) {
	s := &Sampler{
		catalog:    catalog,
		sampleSize: sampleSize,
		seed:       core.DefaultSeed,
		universe:   Adducts,
	}
	for _, opt := range opts {
		opt(s)
	}

	if sampleSize <= 0 {
		return nil, &core.ConfigError{
			Field:   "DecoySampleSize",
			Message: fmt.Sprintf("must be positive (received %d)", sampleSize),
		}
	}

	for _, ad := range s.universe {
		if !catalog.IsTargetAdduct(ad) {
			s.candidates = append(s.candidates, ad)
		}
	}

	if sampleSize > len(s.candidates) {
		return nil, &core.ConfigError{
			Field: "DecoySampleSize",
			Message: fmt.Sprintf("cannot draw %d decoy adducts without replacement from %d candidates",
				sampleSize, len(s.candidates)),
		}
	}

	return s, nil
}

// NewSamplerFromConfig builds a sampler for a validated configuration.
func NewSamplerFromConfig(catalog *core.ModifierCatalog, cfg *core.Config, opts ...Option) (*Sampler, error) {
	opts = append([]Option{WithSeed(cfg.Seed)}, opts...)
	return NewSampler(catalog, cfg.DecoySampleSize, opts...)
}

// Candidates returns the decoy adducts draws are made from.
func (s *Sampler) Candidates() []string {
	out := make([]string, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Sample generates the decoy table for formulas. A single generator seeded
// once governs the whole pass, so equal inputs give equal tables. Repeated
// formulas are sampled once.
func (s *Sampler) Sample(formulas []string) *Table {
	formulas = core.UniqueFormulas(formulas)
	mods := s.catalog.Rows()

	t := newTable(s.sampleSize, formulas, s.catalog.Modifiers())
	rng := rand.New(rand.NewSource(s.seed))
	pool := make([]string, len(s.candidates))

	for _, f := range formulas {
		for _, tm := range mods {
			copy(pool, s.candidates)
			// Partial Fisher-Yates: the first sampleSize slots hold the draw.
			for k := 0; k < s.sampleSize; k++ {
				j := k + rng.Intn(len(pool)-k)
				pool[k], pool[j] = pool[j], pool[k]
				t.add(Row{
					Formula:        f,
					TargetModifier: tm.Modifier,
					DecoyModifier:  tm.DecoyPrefix + pool[k],
				})
			}
		}
	}

	return t
}
