// Package sqldb writes FDR annotation tables to SQL databases for bulk
// persistence. SQLite, PostgreSQL and MySQL backends are supported.
package sqldb

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

// Backend selects the database flavour.
type Backend string

// Supported backends.
const (
	SQLiteBackend   Backend = "sqlite"
	PostgresBackend Backend = "postgres"
	MySQLBackend    Backend = "mysql"
)

// Table names.
const (
	runTable        = "fdr_run"
	annotationTable = "annotation"
)

// Date format for fdr_run.created_at (ISO 8601)
const createdAtFormat = time.RFC3339

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case SQLiteBackend, PostgresBackend, MySQLBackend:
		return b, nil
	case "postgresql", "pg":
		return PostgresBackend, nil
	case "sqlite3":
		return SQLiteBackend, nil
	default:
		return "", fmt.Errorf("unsupported backend '%s', must be sqlite, postgres or mysql", s)
	}
}

func (b Backend) driverName() string {
	switch b {
	case PostgresBackend:
		return "pgx"
	case MySQLBackend:
		return "mysql"
	default:
		return "sqlite3"
	}
}

// RunInfo describes the configuration an annotation table was produced with.
type RunInfo struct {
	DecoySampleSize int
	TargetAdducts   []string
	NeutralLosses   []string
	ChemMods        []string
	Seed            int64
	Formulas        int
}

// RunInfoFromConfig fills RunInfo from a configuration.
func RunInfoFromConfig(cfg *core.Config, formulas int) RunInfo {
	return RunInfo{
		DecoySampleSize: cfg.DecoySampleSize,
		TargetAdducts:   cfg.TargetAdducts,
		NeutralLosses:   cfg.NeutralLosses,
		ChemMods:        cfg.ChemMods,
		Seed:            cfg.Seed,
		Formulas:        formulas,
	}
}

// Writer handles writing annotation tables to a database
type Writer struct {
	db      *sql.DB
	backend Backend
}

// NewWriter opens the database and creates the schema if needed. For SQLite
// dsn is a file path.
func NewWriter(backend Backend, dsn string) (*Writer, error) {
	db, err := sql.Open(backend.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == SQLiteBackend {
		// Avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}

	w := &Writer{
		db:      db,
		backend: backend,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	for _, q := range schemaStatements(w.backend) {
		if _, err := w.db.Exec(q); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}

func schemaStatements(b Backend) []string {
	idCol := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	switch b {
	case PostgresBackend:
		idCol = "id BIGSERIAL PRIMARY KEY"
	case MySQLBackend:
		idCol = "id BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		%s,
		decoy_sample_size INTEGER NOT NULL,
		target_adducts TEXT,
		neutral_losses TEXT,
		chem_mods TEXT,
		seed BIGINT,
		formulas INTEGER,
		created_at TEXT
	)`, runTable, idCol),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id BIGINT NOT NULL,
		formula TEXT NOT NULL,
		modifier TEXT NOT NULL,
		chem_mod TEXT,
		neutral_loss TEXT,
		adduct TEXT,
		msm DOUBLE PRECISION,
		fdr DOUBLE PRECISION
	)`, annotationTable),
	}
}

// placeholders returns n bind parameters in the backend's syntax
func placeholders(b Backend, n int) string {
	ps := make([]string, n)
	for i := range ps {
		if b == PostgresBackend {
			ps[i] = fmt.Sprintf("$%d", i+1)
		} else {
			ps[i] = "?"
		}
	}
	return strings.Join(ps, ", ")
}

// WriteRun stores the run header and all annotations in one transaction and
// returns the run id.
func (w *Writer) WriteRun(info RunInfo, anns []core.Annotation) (int64, error) {
	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Run header first, annotations reference its id
	runID, err := w.insertRun(tx, info)
	if err != nil {
		return 0, err
	}

	// One prepared insert for all annotations
	stmt, err := tx.Prepare(fmt.Sprintf(`
		INSERT INTO %s (run_id, formula, modifier, chem_mod, neutral_loss, adduct, msm, fdr)
		VALUES (%s)
	`, annotationTable, placeholders(w.backend, 8)))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare annotation statement: %w", err)
	}
	defer stmt.Close()

	for _, a := range anns {
		_, err := stmt.Exec(
			runID,         // run_id
			a.Formula,     // formula
			a.Modifier,    // modifier
			a.ChemMod,     // chem_mod
			a.NeutralLoss, // neutral_loss
			a.Adduct,      // adduct
			a.MSM,         // msm
			a.FDR,         // fdr
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert annotation %s: %w", a.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit annotations: %w", err)
	}

	return runID, nil
}

func (w *Writer) insertRun(tx *sql.Tx, info RunInfo) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (decoy_sample_size, target_adducts, neutral_losses, chem_mods, seed, formulas, created_at)
		VALUES (%s)
	`, runTable, placeholders(w.backend, 7))
	args := []interface{}{
		info.DecoySampleSize,
		strings.Join(info.TargetAdducts, ","),
		strings.Join(info.NeutralLosses, ","),
		strings.Join(info.ChemMods, ","),
		info.Seed,
		info.Formulas,
		time.Now().UTC().Format(createdAtFormat),
	}

	// PostgreSQL drivers do not implement LastInsertId
	if w.backend == PostgresBackend {
		var id int64
		if err := tx.QueryRow(query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		return id, nil
	}

	res, err := tx.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// ReadAnnotations loads the annotations of a run, ordered as written.
func (w *Writer) ReadAnnotations(runID int64) ([]core.Annotation, error) {
	rows, err := w.db.Query(fmt.Sprintf(`
		SELECT formula, modifier, chem_mod, neutral_loss, adduct, msm, fdr
		FROM %s WHERE run_id = %s
	`, annotationTable, placeholders(w.backend, 1)), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var out []core.Annotation
	for rows.Next() {
		var a core.Annotation
		if err := rows.Scan(&a.Formula, &a.Modifier, &a.ChemMod, &a.NeutralLoss, &a.Adduct, &a.MSM, &a.FDR); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Close closes the database connection
func (w *Writer) Close() error {
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}
