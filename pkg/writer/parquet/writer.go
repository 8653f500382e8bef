// Package parquet exports FDR annotation tables to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// AnnotationRow is the Parquet schema of one annotation.
type AnnotationRow struct {
	Formula     string  `parquet:"formula,snappy"`
	Modifier    string  `parquet:"modifier,snappy"`
	ChemMod     string  `parquet:"chem_mod,snappy"`
	NeutralLoss string  `parquet:"neutral_loss,snappy"`
	Adduct      string  `parquet:"adduct,snappy"`
	MSM         float64 `parquet:"msm,snappy"`
	FDR         float64 `parquet:"fdr,snappy"`
}

// FromAnnotations converts annotations to Parquet rows.
func FromAnnotations(anns []core.Annotation) []AnnotationRow {
	rows := make([]AnnotationRow, len(anns))
	for i, a := range anns {
		rows[i] = AnnotationRow{
			Formula:     a.Formula,
			Modifier:    a.Modifier,
			ChemMod:     a.ChemMod,
			NeutralLoss: a.NeutralLoss,
			Adduct:      a.Adduct,
			MSM:         a.MSM,
			FDR:         a.FDR,
		}
	}
	return rows
}

// WriteAnnotations writes annotations to a Parquet file at outputPath.
func WriteAnnotations(anns []core.Annotation, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[AnnotationRow](file)
	if _, err := writer.Write(FromAnnotations(anns)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	return nil
}

// ReadAnnotations reads a file written by WriteAnnotations.
func ReadAnnotations(path string) ([]core.Annotation, error) {
	rows, err := parquet.ReadFile[AnnotationRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file: %w", err)
	}
	anns := make([]core.Annotation, len(rows))
	for i, r := range rows {
		anns[i] = core.Annotation{
			Formula:     r.Formula,
			Modifier:    r.Modifier,
			ChemMod:     r.ChemMod,
			NeutralLoss: r.NeutralLoss,
			Adduct:      r.Adduct,
			MSM:         r.MSM,
			FDR:         r.FDR,
		}
	}
	return anns, nil
}
