package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestRunMigrationsCreatesAllTables(t *testing.T) {
	t.Parallel()

	db := openRawTestDB(t)
	defer closeNoErr(t, db)

	err := RunMigrations(db, DefaultMigrations())
	require.NoError(t, err)

	require.Equal(t, CurrentSchemaVersion(), mustSchemaVersion(t, db))

	expected := []string{
		"meta",
		"schema_migrations",
		"accounts",
		"master_skills",
		"assist_skills",
		"cultivations",
		"spend_logs",
		"change_logs",
	}
	for _, table := range expected {
		require.Truef(t, tableExists(t, db, table), "expected table %s to exist", table)
	}

	for _, column := range []string{"name", "mode", "current_exp"} {
		ok, err := columnExists(db, "cultivations", column)
		require.NoError(t, err)
		require.Truef(t, ok, "expected cultivations.%s to exist", column)
	}
	hasGold, err := columnExists(db, "accounts", "gold")
	require.NoError(t, err)
	require.True(t, hasGold)

	legacy, err := cultivationsHaveTypeConstraint(db)
	require.NoError(t, err)
	require.False(t, legacy)
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openRawTestDB(t)
	defer closeNoErr(t, db)

	require.NoError(t, RunMigrations(db, DefaultMigrations()))

	_, err := db.Exec(`INSERT INTO accounts(name, school, level, experience) VALUES('lin', 'datang', 89, 1000)`)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, RunMigrations(db, DefaultMigrations()))
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM accounts`).Scan(&count))
	require.Equal(t, 1, count)
	require.Equal(t, CurrentSchemaVersion(), mustSchemaVersion(t, db))
}

func TestRunMigrationsIsAtomic(t *testing.T) {
	t.Parallel()

	db := openRawTestDB(t)
	defer closeNoErr(t, db)

	migrations := []Migration{
		{
			Version:     1,
			Description: "create a",
			Up: func(tx *sql.Tx) error {
				_, err := tx.Exec(`CREATE TABLE test_a (id INTEGER PRIMARY KEY)`)
				return err
			},
		},
		{
			Version:     2,
			Description: "create b then fail",
			Up: func(tx *sql.Tx) error {
				if _, err := tx.Exec(`CREATE TABLE test_b (id INTEGER PRIMARY KEY)`); err != nil {
					return err
				}
				return errors.New("boom")
			},
		},
	}

	err := RunMigrations(db, migrations)
	require.Error(t, err)
	require.Equal(t, 1, mustSchemaVersion(t, db))
	require.True(t, tableExists(t, db, "test_a"))
	require.False(t, tableExists(t, db, "test_b"))
}

func TestOpenRefusesNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mhxy.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, DefaultMigrations()))
	_, err = db.Exec(`UPDATE meta SET value = ? WHERE key = 'schema_version'`, CurrentSchemaVersion()+1)
	require.NoError(t, err)
	closeNoErr(t, db)

	_, err = Open(path)
	require.ErrorIs(t, err, ErrSchemaTooNew)
}

func TestUpgradeFromLegacySchemaPreservesRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mhxy.db")

	// Build a v1-era data file with rows in the legacy shape.
	_, err := open(path, DefaultMigrations()[:1])
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO accounts(name, school, level, experience) VALUES('lin', 'datang', 89, 1000)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO cultivations(account_id, type, current_level, target_level) VALUES(1, 'attack_res', 5, 20)`)
	require.NoError(t, err)
	closeNoErr(t, db)

	store, err := Open(path)
	require.NoError(t, err)

	ctx := context.Background()
	accounts, err := store.Accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, "lin", accounts[0].Name)
	require.Equal(t, int64(0), accounts[0].Gold)

	tracks, err := store.Cultivations.ListByAccount(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, int64(1), tracks[0].ID)
	require.Equal(t, "attack_res", tracks[0].Type)
	require.Equal(t, "2w", tracks[0].Mode)
	// Backfilled from the defaulted mode.
	require.Equal(t, "defense", tracks[0].Name)

	// The legacy per-type uniqueness is gone: a second track of the same
	// type must be accepted.
	_, err = store.Cultivations.Create(ctx, Cultivation{AccountID: 1, Type: "attack_res"})
	require.NoError(t, err)
}

func TestUpgradeBackfillsAttackNameForNonDefaultMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mhxy.db")

	// Stop before the name column exists, then store a non-default mode.
	_, err := open(path, DefaultMigrations()[:3])
	require.NoError(t, err)

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO accounts(name, school, level, experience) VALUES('lin', 'datang', 89, 1000)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO cultivations(account_id, type, mode, current_level, target_level) VALUES(1, 'attack_res', '3w', 5, 20)`)
	require.NoError(t, err)
	closeNoErr(t, db)

	store, err := Open(path)
	require.NoError(t, err)

	tracks, err := store.Cultivations.ListByAccount(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	require.Equal(t, "attack", tracks[0].Name)
}

func TestOpenIsIdempotentAcrossRestarts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "mhxy.db")

	store, err := Open(path)
	require.NoError(t, err)

	id, err := store.Accounts.Create(context.Background(), "lin", "datang", 89, 1000)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		store, err = Open(path)
		require.NoError(t, err)
	}

	accounts, err := store.Accounts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, id, accounts[0].ID)
}

func openRawTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "mhxy.db"))
	require.NoError(t, err)
	return db
}

func closeNoErr(t *testing.T, db *sql.DB) {
	t.Helper()
	require.NoError(t, db.Close())
}

func mustSchemaVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	version, err := readSchemaVersion(db)
	require.NoError(t, err)
	return version
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count > 0
}
