package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShippedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestOrdersMigrationEnforcesInvariants(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_order_number",
		"REFERENCES orders(id) ON DELETE CASCADE",
		"REFERENCES products(id) ON DELETE SET NULL",
		"ux_order_lines_single_paper",
		"ux_order_lines_single_ribbon",
		"CHECK (quantity > 0)",
		"DROP TABLE IF EXISTS order_lines",
	} {
		require.Truef(t, strings.Contains(content, sub), "missing expected statement %q", sub)
	}
}

func TestProductsMigrationRestrictsCategories(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_products.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "category IN ('flower', 'foliage', 'paper', 'ribbon')")
	require.Contains(t, string(data), "trg_products_category_immutable")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()

	path, err := CreateSQLMigration(dir, "Add Vase Options!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_vase_options.sql"))
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "create_things.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_things.sql"), []byte("-- +goose Up\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}
