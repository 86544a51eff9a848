package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kutbudev/blog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDatabaseSQLite(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "blog.db"),
	}}

	db, err := NewDatabase(cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Health(context.Background()))
	for _, table := range []string{"users", "posts", "tags", "comments", "post_tags", "post_likes"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}

	// Running the migration again is harmless
	assert.NoError(t, db.Migrate())
}

func TestNewDatabaseUnknownDriver(t *testing.T) {
	_, err := NewDatabase(&config.Config{Database: config.DatabaseConfig{Driver: "oracle"}})
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "blog.db?_foreign_keys=on", sqliteDSN("blog.db"))
	assert.Equal(t, "file:x?mode=memory&_foreign_keys=on", sqliteDSN("file:x?mode=memory"))
	assert.Equal(t, "blog.db?_fk=1", sqliteDSN("blog.db?_fk=1"))
}
