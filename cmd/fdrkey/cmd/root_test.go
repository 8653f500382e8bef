package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/FDRKey/pkg/writer/parquet"
)

// resetFlags restores every flag of c and its subcommands to its default, so
// commands can be executed more than once per process.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	resetFlags(rootCmd)
	color.NoColor = true
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestIonsCommand(t *testing.T) {
	dir := t.TempDir()
	formulas := writeFile(t, dir, "formulas.txt", "C6H12O6\nC5H5N5\nnot-a-formula\n")
	out := filepath.Join(dir, "ions.csv")

	stdout, err := execute(t, "ions",
		"--formulas", formulas,
		"--target-adducts", "+H,+Na",
		"--decoy-sample-size", "3",
		"--log-level", "error",
		"--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Ions to score:")

	records := readCSV(t, out)
	require.NotEmpty(t, records)
	assert.Equal(t, []string{"formula", "modifier"}, records[0])

	ions := records[1:]
	assert.Equal(t, []string{"C6H12O6", "+H"}, ions[0])
	assert.Equal(t, []string{"C6H12O6", "+Na"}, ions[1])
	assert.Equal(t, []string{"C5H5N5", "+H"}, ions[2])
	assert.Equal(t, []string{"C5H5N5", "+Na"}, ions[3])
	// 2 formulas x 2 modifiers x 3 draws, repeats across adducts collapse.
	assert.GreaterOrEqual(t, len(ions), 4+6)
	assert.LessOrEqual(t, len(ions), 4+12)
}

func TestIonsCommandIsReproducible(t *testing.T) {
	dir := t.TempDir()
	formulas := writeFile(t, dir, "formulas.txt", "C6H12O6\nC5H5N5\nC2H6O\n")

	first := filepath.Join(dir, "first.csv")
	_, err := execute(t, "decoys", "--formulas", formulas, "--log-level", "error", "--out", first)
	require.NoError(t, err)

	second := filepath.Join(dir, "second.csv")
	_, err = execute(t, "decoys", "--formulas", formulas, "--log-level", "error", "--out", second)
	require.NoError(t, err)

	assert.Equal(t, readCSV(t, first), readCSV(t, second))
	// Three default positive adducts, 20 draws each.
	assert.Len(t, readCSV(t, first), 1+3*3*20)
}

func TestEstimateCommand(t *testing.T) {
	dir := t.TempDir()
	formulas := writeFile(t, dir, "formulas.txt", "formula\nC6H12O6\nC5H5N5\n")
	ions := filepath.Join(dir, "ions.csv")

	args := []string{
		"--formulas", formulas,
		"--target-adducts", "+H",
		"--decoy-sample-size", "5",
		"--log-level", "error",
	}
	_, err := execute(t, append([]string{"ions", "--out", ions}, args...)...)
	require.NoError(t, err)

	var scores strings.Builder
	scores.WriteString("formula,modifier,msm\n")
	for _, rec := range readCSV(t, ions)[1:] {
		msm := "0"
		if rec[1] == "+H" {
			msm = "0.8"
			if rec[0] == "C5H5N5" {
				msm = "0.6"
			}
		}
		scores.WriteString(rec[0] + "," + rec[1] + "," + msm + "\n")
	}
	scorePath := writeFile(t, dir, "scores.csv", scores.String())
	pq := filepath.Join(dir, "annotations.parquet")

	stdout, err := execute(t, append([]string{"estimate", "--scores", scorePath, "--parquet", pq}, args...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Target annotations: 2 (kept 2)")
	assert.Contains(t, stdout, "Annotations at 5% FDR: 2")

	anns, err := parquet.ReadAnnotations(pq)
	require.NoError(t, err)
	require.Len(t, anns, 2)
	for _, a := range anns {
		assert.Equal(t, 0.05, a.FDR)
		assert.Equal(t, "+H", a.Adduct)
	}
}

func TestEstimateCommandRequiresScores(t *testing.T) {
	dir := t.TempDir()
	formulas := writeFile(t, dir, "formulas.txt", "H2O\n")

	_, err := execute(t, "estimate", "--formulas", formulas, "--log-level", "error")
	assert.Error(t, err)
}

func TestInvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	formulas := writeFile(t, dir, "formulas.txt", "H2O\n")

	tests := []struct {
		name string
		args []string
	}{
		{name: "unsigned adduct", args: []string{"--target-adducts", "H"}},
		{name: "sample size too large", args: []string{"--decoy-sample-size", "81"}},
		{name: "descending levels", args: []string{"--fdr-levels", "0.2,0.1"}},
		{name: "unknown polarity", args: []string{"--polarity", "neutral"}},
		{name: "bad level", args: []string{"--fdr-levels", "five"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"ions", "--formulas", formulas, "--log-level", "error",
				"--out", filepath.Join(dir, "ions.csv")}, tt.args...)
			_, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}

func TestWithNone(t *testing.T) {
	assert.Equal(t, []string{""}, withNone(nil))
	assert.Equal(t, []string{"", "-H2O", "-NH3"}, withNone([]string{" -H2O", "", "-NH3"}))
}

func TestLevelLabel(t *testing.T) {
	assert.Equal(t, "5%", levelLabel(0.05))
	assert.Equal(t, "50%", levelLabel(0.5))
	assert.Equal(t, "1%", levelLabel(0.01))
}

func TestListSettingsFromEnv(t *testing.T) {
	dir := t.TempDir()
	formulas := writeFile(t, dir, "formulas.txt", "C6H12O6\n")
	out := filepath.Join(dir, "ions.csv")

	t.Setenv("FDRKEY_TARGET_ADDUCTS", "+H,+Na")
	t.Setenv("FDRKEY_NEUTRAL_LOSSES", "-H2O")

	_, err := execute(t, "ions", "--formulas", formulas, "--decoy-sample-size", "2",
		"--log-level", "error", "--out", out)
	require.NoError(t, err)

	records := readCSV(t, out)
	require.GreaterOrEqual(t, len(records), 5)
	assert.Equal(t, [][]string{
		{"C6H12O6", "+H"},
		{"C6H12O6", "+Na"},
		{"C6H12O6", "-H2O+H"},
		{"C6H12O6", "-H2O+Na"},
	}, records[1:5])
}

func TestLoadConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("FDRKEY_TARGET_ADDUCTS", "+H, +K")
	t.Setenv("FDRKEY_CHEM_MODS", "-CO2+CO")
	t.Setenv("FDRKEY_FDR_LEVELS", "0.01,0.1")
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"+H", "+K"}, cfg.TargetAdducts)
	assert.Equal(t, []string{"", "-CO2+CO"}, cfg.ChemMods)
	assert.Equal(t, []string{""}, cfg.NeutralLosses)
	assert.Equal(t, []float64{0.01, 0.1}, cfg.Levels)
}

func TestStringList(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("target-adducts", []string{"+H", "+Na,+K", " "})
	assert.Equal(t, []string{"+H", "+Na", "+K"}, stringList("target-adducts"))

	viper.Set("chem-mods", "-CO2+CO")
	assert.Equal(t, []string{"-CO2+CO"}, stringList("chem-mods"))

	assert.Empty(t, stringList("neutral-losses"))
}

func TestWriteCSV(t *testing.T) {
	header := []string{"formula", "modifier"}
	rows := [][]string{{"H2O", "+H"}, {"H2O", "+He"}}

	path := filepath.Join(t.TempDir(), "ions.csv")
	require.NoError(t, writeCSV(rootCmd, path, header, rows))
	assert.Equal(t, append([][]string{header}, rows...), readCSV(t, path))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	require.NoError(t, writeCSV(rootCmd, "", header, rows))
	assert.Equal(t, "formula,modifier\nH2O,+H\nH2O,+He\n", out.String())

	missing := filepath.Join(t.TempDir(), "missing", "ions.csv")
	assert.Error(t, writeCSV(rootCmd, missing, header, rows))
}
