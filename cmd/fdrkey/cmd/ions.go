package cmd

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ChrisMcGann/FDRKey/pkg/decoy"
)

var ionsCmd = &cobra.Command{
	Use:   "ions",
	Short: "List the target and decoy ions that must be scored",
	Long: `Write every (formula, modifier) ion the scoring engine has to evaluate before
FDR can be estimated, as CSV rows "formula,modifier". Target ions come first,
decoy ions follow; no ion is listed twice.

Examples:
  fdrkey ions --formulas hmdb.txt --out ions.csv
  fdrkey ions --formulas hmdb.txt --target-adducts +H,+Na --neutral-losses -H2O`,
	RunE: runIons,
}

var decoysCmd = &cobra.Command{
	Use:   "decoys",
	Short: "Write the decoy table",
	Long:  `Write the sampled decoy table as CSV rows "formula,target_modifier,decoy_modifier".`,
	RunE:  runDecoys,
}

func init() {
	ionsCmd.Flags().StringP("out", "o", "", "Output CSV file (default stdout)")
	decoysCmd.Flags().StringP("out", "o", "", "Output CSV file (default stdout)")
}

func runIons(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.logger.Sync()

	ions := decoy.IonSet(p.decoys)
	rows := make([][]string, len(ions))
	for i, k := range ions {
		rows[i] = []string{k.Formula, k.Modifier}
	}

	if err := writeCSV(cmd, viper.GetString("out"), []string{"formula", "modifier"}, rows); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Formulas: %d\nTarget modifiers: %d\nIons to score: %d\n",
		len(p.formulas), p.catalog.Len(), len(ions))
	return nil
}

func runDecoys(cmd *cobra.Command, _ []string) error {
	p, err := buildPipeline()
	if err != nil {
		return err
	}
	defer p.logger.Sync()

	var rows [][]string
	for _, r := range p.decoys.Rows() {
		rows = append(rows, []string{r.Formula, r.TargetModifier, r.DecoyModifier})
	}

	return writeCSV(cmd, viper.GetString("out"), []string{"formula", "target_modifier", "decoy_modifier"}, rows)
}

// writeCSV writes a header and rows to path, or to the command output when
// path is empty.
func writeCSV(cmd *cobra.Command, path string, header []string, rows [][]string) error {
	if path == "" {
		return encodeCSV(cmd.OutOrStdout(), header, rows)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := encodeCSV(f, header, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

func encodeCSV(out io.Writer, header []string, rows [][]string) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	// WriteAll flushes
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
