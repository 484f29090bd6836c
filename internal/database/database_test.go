package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestAutoMigrate_PersistentModels(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(PersistentModels()...))

	for _, table := range []string{"users", "posts", "auth_tokens"} {
		assert.True(t, db.Migrator().HasTable(table), "expected table %q", table)
	}
}

func TestMigrationRegistry(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)

	first := GetMigrationByVersion(1)
	require.NotNil(t, first)
	assert.Equal(t, "create_core_tables", first.Name)
	assert.Contains(t, first.UpScript, "auth_tokens")
	assert.Contains(t, first.DownScript, "DROP TABLE")
	assert.Equal(t, "000001_create_core_tables", first.String())
}

func TestValidateAppliedVersions_UnknownVersion(t *testing.T) {
	err := validateAppliedVersions([]int{1, 99}, GetMigrations())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "000099")
}

func TestMigrationStore_RoundTrip(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&MigrationLog{}))

	ctx := context.Background()
	store := NewMigrationStore(db)

	require.NoError(t, store.ApplyMigration(ctx, 1, "create_core_tables",
		"CREATE TABLE IF NOT EXISTS probe (id INTEGER PRIMARY KEY)"))

	applied, err := store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, applied)

	require.NoError(t, store.RemoveMigration(ctx, 1))
	applied, err = store.GetAppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}
