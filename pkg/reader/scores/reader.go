// Package scores reads MSM score tables produced by the external scoring engine
package scores

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// Entry is one scored ion
type Entry struct {
	Ion core.IonKey
	MSM float64
}

// Reader provides streaming access to score files with lines
// "formula,modifier,msm". A header on the first data line (after comments and
// blank lines) starting with "formula" is skipped.
type Reader struct {
	scanner *bufio.Scanner
	lineNum int
	started bool // a data line has been read
	entry   Entry
	err     error
}

// NewReader creates a new score file reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Next advances to the next entry. Returns false when no more entries or error.
func (r *Reader) Next() bool {
	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			r.err = fmt.Errorf("line %d: expected 3 fields (formula,modifier,msm), got %d", r.lineNum, len(parts))
			return false
		}

		formula := strings.TrimSpace(parts[0])
		modifier := strings.TrimSpace(parts[1])
		msmStr := strings.TrimSpace(parts[2])

		first := !r.started
		r.started = true
		if first && strings.EqualFold(formula, "formula") {
			continue
		}

		msm, err := strconv.ParseFloat(msmStr, 64)
		if err != nil {
			r.err = fmt.Errorf("line %d: invalid msm value '%s': %w", r.lineNum, msmStr, err)
			return false
		}
		if math.IsNaN(msm) || math.IsInf(msm, 0) || msm < 0 {
			r.err = fmt.Errorf("line %d: msm must be a finite non-negative number, got %s", r.lineNum, msmStr)
			return false
		}

		r.entry = Entry{
			Ion: core.IonKey{Formula: formula, Modifier: modifier},
			MSM: msm,
		}
		return true
	}

	if err := r.scanner.Err(); err != nil {
		r.err = fmt.Errorf("error reading scores: %w", err)
	}
	return false
}

// Entry returns the current entry
func (r *Reader) Entry() Entry {
	return r.entry
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadTable reads a whole score file. An ion listed twice is an error.
func ReadTable(rd io.Reader) (core.ScoreTable, error) {
	r := NewReader(rd)
	table := make(core.ScoreTable)
	for r.Next() {
		e := r.Entry()
		if _, dup := table[e.Ion]; dup {
			return nil, fmt.Errorf("line %d: duplicate score for ion %s", r.lineNum, e.Ion)
		}
		table[e.Ion] = e.MSM
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return table, nil
}
