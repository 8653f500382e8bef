// Package cmd provides CLI command implementations
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

var rootCmd = &cobra.Command{
	Use:   "fdrkey",
	Short: "FDRKey - target-decoy FDR estimation for imaging MS annotations",
	Long: `FDRKey estimates false discovery rates for molecular annotations of imaging
mass spectrometry datasets using target-decoy competition.

Workflow:
  1. fdrkey ions      list every target and decoy ion the scoring engine must score
  2. (score the ions externally, producing formula,modifier,msm rows)
  3. fdrkey estimate  digitize target annotations into FDR levels and store them

Decoy adducts are drawn with a fixed seed, so the same formulas and configuration
always give the same decoys in every step.`,
	Version:           "1.0.0",
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(ionsCmd)
	rootCmd.AddCommand(decoysCmd)
	rootCmd.AddCommand(estimateCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default .fdrkey.yaml in . or $HOME)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.StringP("formulas", "i", "", "Target formula list, one sum formula per line (required)")
	pf.Int("decoy-sample-size", core.DefaultDecoySampleSize, "Decoy adducts drawn per formula and target modifier")
	pf.StringSlice("target-adducts", nil, "Target adducts, e.g. +H,+Na,+K (default depends on --polarity)")
	pf.String("polarity", core.PositivePolarity, "Polarity used for default adducts: positive or negative")
	pf.StringSlice("neutral-losses", nil, "Neutral losses in addition to no loss, e.g. -H2O")
	pf.StringSlice("chem-mods", nil, "Chemical modifications in addition to none, e.g. -CO2+CO")
	pf.Int64("seed", core.DefaultSeed, "Seed of the decoy sampling pass")
	pf.StringSlice("fdr-levels", nil, "Ascending FDR levels (default 0.05,0.1,0.2,0.5)")
}

// setup binds the executing command's flags and reads the config file.
func setup(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	initConfig()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// initConfig sets the config file location, environment and defaults.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".fdrkey")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix("FDRKEY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("decoy-sample-size", core.DefaultDecoySampleSize)
	viper.SetDefault("polarity", core.PositivePolarity)
	viper.SetDefault("seed", core.DefaultSeed)
	viper.SetDefault("log-level", "info")
}

// loadConfig assembles and validates the FDR configuration.
func loadConfig() (*core.Config, error) {
	adducts := stringList("target-adducts")
	if len(adducts) == 0 {
		var err error
		adducts, err = core.DefaultAdducts(viper.GetString("polarity"))
		if err != nil {
			return nil, err
		}
	}

	levels, err := parseLevels(stringList("fdr-levels"))
	if err != nil {
		return nil, err
	}

	cfg := &core.Config{
		DecoySampleSize: viper.GetInt("decoy-sample-size"),
		TargetAdducts:   adducts,
		NeutralLosses:   withNone(stringList("neutral-losses")),
		ChemMods:        withNone(stringList("chem-mods")),
		Seed:            viper.GetInt64("seed"),
		Levels:          levels,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// stringList reads a list setting. Flags arrive split already, but env and
// config values may be a single "a,b,c" string.
func stringList(key string) []string {
	var out []string
	for _, v := range viper.GetStringSlice(key) {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// withNone puts the "no modification" token first, as every dataset is
// searched for unmodified ions too.
func withNone(tokens []string) []string {
	out := []string{""}
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func parseLevels(raw []string) ([]float64, error) {
	var levels []float64
	for _, s := range raw {
		l, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid FDR level '%s': %w", s, err)
		}
		levels = append(levels, l)
	}
	return levels, nil
}
