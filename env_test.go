package keydi_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ksotala/keydi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvFile(t *testing.T) {
	t.Run("loads variables as string services", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("DB_HOST=localhost\nDB_PORT=5432\n"), 0o600))

		c, err := keydi.FromEnvFile(path)
		require.NoError(t, err)

		assert.Equal(t, "localhost", c.MustGet("DB_HOST"))
		assert.Equal(t, "5432", c.MustGet("DB_PORT"))
	})

	t.Run("fails for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := keydi.FromEnvFile(filepath.Join(t.TempDir(), "nope.env"))
		assert.Error(t, err)
	})

	t.Run("loaded values merge like any container", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("DSN=env://db\n"), 0o600))

		env, err := keydi.FromEnvFile(path)
		require.NoError(t, err)

		app := keydi.New().MustProvide(keydi.MustFactory("db", []keydi.Key{"DSN"},
			func(dsn string) string { return "connected to " + dsn }))

		merged, err := app.ProvideContainer(env)
		require.NoError(t, err)

		assert.Equal(t, "connected to env://db", merged.MustGet("db"))
	})
}

func TestFromEnviron(t *testing.T) {
	t.Parallel()

	c := keydi.FromEnviron([]string{
		"HOME=/home/app",
		"EMPTY=",
		"malformed",
		"=novar",
	})

	assert.Equal(t, "/home/app", c.MustGet("HOME"))
	assert.Equal(t, "", c.MustGet("EMPTY"))
	assert.Equal(t, 2, c.Len())
}
