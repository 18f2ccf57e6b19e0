package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateIsIdempotent(t *testing.T) {
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, db))
	require.NoError(t, Migrate(ctx, db))

	var n int
	require.NoError(t, db.GetContext(ctx, &n, "SELECT COUNT(*) FROM categories"))
	assert.Equal(t, 8, n)
	assert.True(t, IsSQLite(db))
}

func TestSplitStatements(t *testing.T) {
	src := "-- header\nCREATE TABLE a (x INT);\n\nCREATE TABLE b (\n  y INT\n);\nINSERT INTO a VALUES (1)"
	stmts := splitStatements(src)
	require.Len(t, stmts, 3)
	assert.Equal(t, "CREATE TABLE a (x INT)", stmts[0])
	assert.Contains(t, stmts[1], "y INT")
	assert.Equal(t, "INSERT INTO a VALUES (1)", stmts[2])
}

func TestMySQLSchemaParses(t *testing.T) {
	raw, err := schemaFS.ReadFile("schema/mysql.sql")
	require.NoError(t, err)
	stmts := splitStatements(string(raw))
	// ten tables plus the category seed
	assert.Len(t, stmts, 11)
}
