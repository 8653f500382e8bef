package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    []ElementCount
		wantErr bool
	}{
		{
			name:    "water",
			formula: "H2O",
			want:    []ElementCount{{"H", 2}, {"O", 1}},
		},
		{
			name:    "glucose",
			formula: "C6H12O6",
			want:    []ElementCount{{"C", 6}, {"H", 12}, {"O", 6}},
		},
		{
			name:    "two letter elements",
			formula: "NaCl",
			want:    []ElementCount{{"Na", 1}, {"Cl", 1}},
		},
		{name: "empty", formula: "", wantErr: true},
		{name: "lowercase start", formula: "h2o", wantErr: true},
		{name: "unknown element", formula: "C6Xx2", wantErr: true},
		{name: "zero count", formula: "C0H4", wantErr: true},
		{name: "charge sign", formula: "C6H12O6+", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormula(tt.formula)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormula(%q) error = %v, wantErr %v", tt.formula, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFormula(%q) mismatch (-want +got):\n%s", tt.formula, diff)
			}
		})
	}
}

func TestValidateModifierToken(t *testing.T) {
	tests := []struct {
		token   string
		wantErr bool
	}{
		{"", false},
		{"+H", false},
		{"-H", false},
		{"-H2O", false},
		{"-CO2+CO", false},
		{"+Ta", false},
		{"H", true},
		{"+", true},
		{"+h", true},
		{"+H ", true},
		{"-H2O+", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			err := ValidateModifierToken(tt.token)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateModifierToken(%q) error = %v, wantErr %v", tt.token, err, tt.wantErr)
			}
		})
	}
}

func TestUniqueFormulas(t *testing.T) {
	got := UniqueFormulas([]string{"H2O", "CO2", "H2O", "C6H12O6", "CO2"})
	want := []string{"H2O", "CO2", "C6H12O6"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("UniqueFormulas() mismatch (-want +got):\n%s", diff)
	}
}
