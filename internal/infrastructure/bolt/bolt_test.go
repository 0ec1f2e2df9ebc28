package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupBolt(t *testing.T) *Database {
	t.Helper()

	db, err := Open(Config{
		Path:    filepath.Join(t.TempDir(), "data", "test.db"),
		Timeout: 1000,
		NoSync:  true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, db.Stop())
	})

	return db
}

func TestOpenTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(Config{Path: path, Timeout: 1000})
	require.NoError(t, err)
	require.NoError(t, db.Stop())

	db, err = Open(Config{Path: path, Timeout: 1000})
	require.NoError(t, err)
	require.NoError(t, db.Stop())
}

func TestOpenLocked(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(Config{Path: path, Timeout: 1000})
	require.NoError(t, err)
	defer db.Stop()

	_, err = Open(Config{Path: path, Timeout: 100})
	require.Error(t, err)
}
