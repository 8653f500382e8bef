// Package core provides the FDR configuration, the modifier catalog and the
// ion/score/annotation types shared by the decoy sampler and the FDR calculator.
package core

import (
	"fmt"
	"math"
	"strings"
)

// Default values for configuration.
const (
	DefaultDecoySampleSize = 20
	DefaultSeed            = int64(42)

	// UnqualifiedLevel marks a target ion that did not pass any FDR level.
	UnqualifiedLevel = 1.0
)

// Polarity names accepted by DefaultAdducts.
const (
	PositivePolarity = "positive"
	NegativePolarity = "negative"
)

// DefaultLevels are the FDR levels annotations are digitized into, ascending.
var DefaultLevels = []float64{0.05, 0.1, 0.2, 0.5}

// DefaultAdducts returns the target adducts used when none are configured.
func DefaultAdducts(polarity string) ([]string, error) {
	switch strings.ToLower(polarity) {
	case PositivePolarity, "+", "pos":
		return []string{"+H", "+Na", "+K"}, nil
	case NegativePolarity, "-", "neg":
		return []string{"-H", "+Cl"}, nil
	default:
		return nil, configErrorf("Polarity", "unknown polarity '%s', must be positive or negative", polarity)
	}
}

// Config holds the dataset configuration the decoy sampler and FDR calculator
// are built from.
type Config struct {
	DecoySampleSize int       // Decoy adducts drawn per (formula, target modifier)
	TargetAdducts   []string  // Adducts of real annotation candidates
	NeutralLosses   []string  // Neutral loss tokens ("" = no loss)
	ChemMods        []string  // Chemical modification tokens ("" = unmodified)
	Seed            int64     // Seed of the single decoy generation pass
	Levels          []float64 // Ascending FDR levels (nil = DefaultLevels)
}

// FDRLevels returns the configured levels or DefaultLevels.
func (c *Config) FDRLevels() []float64 {
	if len(c.Levels) == 0 {
		return DefaultLevels
	}
	return c.Levels
}

// Validate checks the configuration before any sampling takes place.
func (c *Config) Validate() error {
	var errs []string

	if c.DecoySampleSize <= 0 {
		errs = append(errs, fmt.Sprintf("decoy sample size must be positive (received %d)", c.DecoySampleSize))
	}
	if len(c.TargetAdducts) == 0 {
		errs = append(errs, "at least one target adduct is required")
	}

	for _, group := range []struct {
		name   string
		tokens []string
	}{
		{"target adduct", c.TargetAdducts},
		{"neutral loss", c.NeutralLosses},
		{"chemical modification", c.ChemMods},
	} {
		for _, tok := range group.tokens {
			if group.name == "target adduct" && tok == "" {
				errs = append(errs, "target adducts cannot be empty strings")
				continue
			}
			if err := ValidateModifierToken(tok); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", group.name, err))
			}
		}
	}

	if err := ValidateLevels(c.Levels); err != nil {
		errs = append(errs, err.Message)
	}

	if len(errs) > 0 {
		return &ConfigError{
			Field:   "Config",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}

// ValidateLevels checks that FDR levels are strictly ascending in (0, 1).
func ValidateLevels(levels []float64) *ConfigError {
	for i, l := range levels {
		if math.IsNaN(l) || l <= 0 || l >= 1 {
			return configErrorf("Levels", "FDR level %v must be in (0, 1)", l)
		}
		if i > 0 && l <= levels[i-1] {
			return configErrorf("Levels", "FDR levels must be strictly ascending (%v after %v)", l, levels[i-1])
		}
	}
	return nil
}
