package sqldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/FDRKey/pkg/core"
)

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{in: "sqlite", want: SQLiteBackend},
		{in: "SQLite3", want: SQLiteBackend},
		{in: "postgres", want: PostgresBackend},
		{in: "postgresql", want: PostgresBackend},
		{in: " pg ", want: PostgresBackend},
		{in: "mysql", want: MySQLBackend},
		{in: "oracle", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBackend(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(SQLiteBackend, 3))
	assert.Equal(t, "?, ?", placeholders(MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3", placeholders(PostgresBackend, 3))
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "sqlite3", SQLiteBackend.driverName())
	assert.Equal(t, "pgx", PostgresBackend.driverName())
	assert.Equal(t, "mysql", MySQLBackend.driverName())
}

func TestSchemaStatements(t *testing.T) {
	for _, b := range []Backend{SQLiteBackend, PostgresBackend, MySQLBackend} {
		stmts := schemaStatements(b)
		require.Len(t, stmts, 2)
		assert.Contains(t, stmts[0], runTable)
		assert.Contains(t, stmts[1], annotationTable)
	}
	assert.Contains(t, schemaStatements(PostgresBackend)[0], "BIGSERIAL")
	assert.Contains(t, schemaStatements(MySQLBackend)[0], "AUTO_INCREMENT")
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotations.db")
	w, err := NewWriter(SQLiteBackend, path)
	if err != nil {
		t.Skipf("sqlite3 driver unavailable: %v", err)
	}
	defer w.Close()

	cfg := &core.Config{
		DecoySampleSize: 20,
		TargetAdducts:   []string{"+H", "+Na"},
		NeutralLosses:   []string{"", "-H2O"},
		ChemMods:        []string{""},
		Seed:            core.DefaultSeed,
	}
	anns := []core.Annotation{
		{Formula: "C6H12O6", Modifier: "+H", Adduct: "+H", MSM: 0.91, FDR: 0.05},
		{Formula: "C6H12O6", Modifier: "-H2O+Na", NeutralLoss: "-H2O", Adduct: "+Na", MSM: 0.2, FDR: 1},
	}

	first, err := w.WriteRun(RunInfoFromConfig(cfg, 1), anns)
	require.NoError(t, err)
	second, err := w.WriteRun(RunInfoFromConfig(cfg, 1), anns[:1])
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, err := w.ReadAnnotations(first)
	require.NoError(t, err)
	assert.Equal(t, anns, got)

	got, err = w.ReadAnnotations(second)
	require.NoError(t, err)
	assert.Equal(t, anns[:1], got)
}
