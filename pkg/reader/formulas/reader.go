// Package formulas provides a streaming reader for target formula lists
package formulas

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// Reader provides streaming access to formula list files: one sum formula per
// line, blank lines and lines starting with '#' are ignored. An optional
// second comma- or tab-separated column (e.g. a molecule name) is dropped, and
// a "formula" header on the first data line is skipped.
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	started bool // a data line has been read
	formula string
	skipped []error
	err     error
}

// NewReader creates a new formula list reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Next advances to the next valid formula. Malformed formulas are skipped and
// recorded in Skipped. Returns false at end of input or on a read error.
func (r *Reader) Next() bool {
	r.formula = ""

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		field := line
		if i := strings.IndexAny(line, ",\t"); i >= 0 {
			field = strings.TrimSpace(line[:i])
		}
		first := !r.started
		r.started = true
		if first && strings.EqualFold(field, "formula") {
			continue
		}

		if _, err := core.ParseFormula(field); err != nil {
			r.skipped = append(r.skipped, fmt.Errorf("line %d: %w", r.lineNum, err))
			continue
		}

		r.formula = field
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("error reading formulas: %w", err)
	}
	return false
}

// Formula returns the current formula
func (r *Reader) Formula() string {
	return r.formula
}

// Skipped returns the lines rejected as malformed so far
func (r *Reader) Skipped() []error {
	return r.skipped
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every valid formula, dropping repeats. Malformed lines are
// returned separately.
func ReadAll(rd io.Reader) ([]string, []error, error) {
	r := NewReader(rd)
	var out []string
	for r.Next() {
		out = append(out, r.Formula())
	}
	if err := r.Err(); err != nil {
		return nil, r.Skipped(), err
	}
	return core.UniqueFormulas(out), r.Skipped(), nil
}
