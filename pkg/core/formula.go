package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	formulaRe     = regexp.MustCompile(`^(?:[A-Z][a-z]?[0-9]*)+$`)
	formulaPartRe = regexp.MustCompile(`([A-Z][a-z]?)([0-9]*)`)
	tokenPartRe   = regexp.MustCompile(`([+-])([A-Za-z0-9]+)`)
)

// Element symbols accepted in sum formulas and modifier tokens.
var elementSymbols = map[string]bool{}

func init() {
	symbols := `H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca Sc Ti V Cr Mn Fe Co Ni Cu Zn
		Ga Ge As Se Br Kr Rb Sr Y Zr Nb Mo Tc Ru Rh Pd Ag Cd In Sn Sb Te I Xe Cs Ba La Ce Pr Nd
		Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W Re Os Ir Pt Au Hg Tl Pb Bi Po At Rn Fr Ra Ac Th
		Pa U Np Pu`
	for _, s := range strings.Fields(symbols) {
		elementSymbols[s] = true
	}
}

// ElementCount is one element of a sum formula with its multiplicity.
type ElementCount struct {
	Element string
	Count   int
}

// ParseFormula splits a sum formula such as "C6H12O6" into element counts, in
// the order they appear. Repeated elements are kept as separate entries.
func ParseFormula(formula string) ([]ElementCount, error) {
	if !formulaRe.MatchString(formula) {
		return nil, fmt.Errorf("invalid sum formula '%s'", formula)
	}

	var counts []ElementCount
	for _, m := range formulaPartRe.FindAllStringSubmatch(formula, -1) {
		if !elementSymbols[m[1]] {
			return nil, fmt.Errorf("unknown element '%s' in formula '%s'", m[1], formula)
		}
		n := 1
		if m[2] != "" {
			var err error
			n, err = strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("invalid count '%s' in formula '%s': %w", m[2], formula, err)
			}
			if n == 0 {
				return nil, fmt.Errorf("zero count for '%s' in formula '%s'", m[1], formula)
			}
		}
		counts = append(counts, ElementCount{Element: m[1], Count: n})
	}

	return counts, nil
}

// ValidateModifierToken checks a chemical modification, neutral loss or adduct
// token. Tokens are one or more signed formula parts ("+H", "-H2O", "-CO2+CO").
// The empty token means "none" and is valid.
func ValidateModifierToken(token string) error {
	if token == "" {
		return nil
	}

	parts := tokenPartRe.FindAllStringSubmatch(token, -1)
	var rebuilt strings.Builder
	for _, p := range parts {
		rebuilt.WriteString(p[0])
		if _, err := ParseFormula(p[2]); err != nil {
			return fmt.Errorf("invalid modifier token '%s': %w", token, err)
		}
	}
	if rebuilt.String() != token {
		return fmt.Errorf("invalid modifier token '%s', expected signed formula parts like '+H' or '-H2O'", token)
	}

	return nil
}
