package postgres

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The init migration carries constraints the code layer relies on:
// the seat unique index name drives conflict translation, and name
// uniqueness must match the entity definitions (train names unique,
// station names not).
func TestInitMigrationConstraints(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("..", "..", "..", "migrations", "0001_init.sql"))
	require.NoError(t, err)
	schema := string(raw)

	assert.Contains(t, schema, ticketSeatConstraint)
	assert.Contains(t, schema, "UNIQUE (journey_id, cargo, place)")

	train := tableDef(t, schema, "train")
	assert.Regexp(t, regexp.MustCompile(`name\s+TEXT NOT NULL UNIQUE`), train)

	trainType := tableDef(t, schema, "train_type")
	assert.Regexp(t, regexp.MustCompile(`name\s+TEXT NOT NULL UNIQUE`), trainType)

	// duplicate station names are allowed
	station := tableDef(t, schema, "station")
	assert.NotContains(t, station, "UNIQUE")
}

// tableDef cuts one CREATE TABLE body out of the schema.
func tableDef(t *testing.T, schema, table string) string {
	t.Helper()

	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(schema, marker)
	require.GreaterOrEqual(t, start, 0, "table %s not found", table)

	rest := schema[start+len(marker):]
	end := strings.Index(rest, ");")
	require.GreaterOrEqual(t, end, 0)

	return rest[:end]
}
