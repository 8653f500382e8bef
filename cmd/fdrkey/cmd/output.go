package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/ChrisMcGann/FDRKey/pkg/filter"
)

var (
	strictColor   = color.New(color.FgGreen, color.Bold) // best level
	relaxedColor  = color.New(color.FgYellow)            // intermediate levels
	marginalColor = color.New(color.FgHiBlack)           // worst level
)

// levelLabel formats a level as a percentage, e.g. 0.05 -> "5%".
func levelLabel(level float64) string {
	return strconv.FormatFloat(level*100, 'f', -1, 64) + "%"
}

// colorLevel picks a colour by the level's position among all levels.
func colorLevel(i, n int, s string) string {
	switch {
	case i == 0:
		return strictColor.Sprint(s)
	case i == n-1:
		return marginalColor.Sprint(s)
	default:
		return relaxedColor.Sprint(s)
	}
}

// printSummary prints annotation counts per target modifier at each level.
func printSummary(out io.Writer, summaries []filter.Summary, levels []float64) error {
	table := tablewriter.NewWriter(out)

	headers := []string{"Modifier", "Ions"}
	for _, l := range levels {
		headers = append(headers, "FDR "+levelLabel(l))
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	totals := make([]int, len(levels))
	var data [][]string
	for _, s := range summaries {
		row := []string{s.Modifier, strconv.Itoa(s.Total)}
		for i, c := range s.Counts {
			row = append(row, strconv.Itoa(c))
			totals[i] += c
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for i, l := range levels {
		fmt.Fprintf(out, "Annotations at %s FDR: %d\n", colorLevel(i, len(levels), levelLabel(l)), totals[i])
	}
	return nil
}
