package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
	"github.com/ChrisMcGann/FDRKey/pkg/decoy"
	"github.com/ChrisMcGann/FDRKey/pkg/reader/formulas"
)

// pipeline holds everything derived from the configuration and formula list.
// It is rebuilt identically by every command.
type pipeline struct {
	cfg      *core.Config
	catalog  *core.ModifierCatalog
	decoys   *decoy.Table
	formulas []string
	logger   *zap.Logger
}

// newLogger builds a console logger writing to stderr.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}

	return cfg.Build()
}

// buildPipeline validates the configuration, reads the formulas and samples
// the decoy table. Configuration errors surface here, before any scoring.
func buildPipeline() (*pipeline, error) {
	logger, err := newLogger(viper.GetString("log-level"))
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	path := viper.GetString("formulas")
	if path == "" {
		return nil, fmt.Errorf("--formulas is required")
	}
	fs, err := readFormulas(path, logger)
	if err != nil {
		return nil, err
	}

	catalog, err := core.NewModifierCatalogFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	sampler, err := decoy.NewSamplerFromConfig(catalog, cfg)
	if err != nil {
		return nil, err
	}

	table := sampler.Sample(fs)
	logger.Debug("sampled decoys",
		zap.Int("formulas", len(fs)),
		zap.Int("target_modifiers", catalog.Len()),
		zap.Int("decoy_rows", table.Len()))

	return &pipeline{
		cfg:      cfg,
		catalog:  catalog,
		decoys:   table,
		formulas: fs,
		logger:   logger,
	}, nil
}

func readFormulas(path string, logger *zap.Logger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open formula file: %w", err)
	}
	defer f.Close()

	fs, skipped, err := formulas.ReadAll(f)
	if err != nil {
		return nil, err
	}
	for _, e := range skipped {
		logger.Warn("skipping malformed formula", zap.Error(e))
	}
	if len(fs) == 0 {
		logger.Warn("formula list is empty", zap.String("path", path))
	}
	return fs, nil
}
