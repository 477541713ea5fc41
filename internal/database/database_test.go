package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/procurement/internal/config"
	"github.com/MrJamesThe3rd/procurement/internal/database"
)

func TestNewTestDB_TablesExist(t *testing.T) {
	db := database.NewTestDB(t)

	for _, table := range []string{"purchases", "sequences", "notifications"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := database.NewTestDB(t)

	require.NoError(t, database.Migrate(context.Background(), db, config.DriverSQLite))
	require.NoError(t, database.Ping(context.Background(), db))
}

func TestNew_UnsupportedDriver(t *testing.T) {
	_, err := database.New("oracle", "x")
	assert.Error(t, err)
}
