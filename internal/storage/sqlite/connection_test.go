package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoSim-25-26J-441/tee-designer/config"
)

func TestNewConnection_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "designer.db")

	db, err := NewConnection(context.Background(), &config.SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}
