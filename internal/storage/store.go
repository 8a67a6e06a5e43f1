package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

const (
	pragmaJournalModeWAL = `PRAGMA journal_mode=WAL`
	pragmaForeignKeysOn  = `PRAGMA foreign_keys=ON`
	pragmaBusyTimeout    = `PRAGMA busy_timeout=5000`
)

// initMu serializes schema initialization across stores opened in the same
// process. It is held only for the duration of Open; repository operations
// never touch it.
var initMu sync.Mutex

// Store is a stateless handle over the data file. Opening it runs schema
// migrations once on a dedicated connection; every repository call after
// that acquires its own short-lived connection and relies on SQLite's own
// locking for contention.
type Store struct {
	path string

	// Recorded once during initialization; cultivation listing branches
	// on it instead of probing the result shape per call.
	hasCultivationName bool

	Accounts     AccountRepository
	MasterSkills SkillRepository
	AssistSkills SkillRepository
	Cultivations CultivationRepository
	Spends       SpendRepository
	ChangeLogs   ChangeLogRepository
}

// Open initializes the schema at path and returns a ready store. It is
// idempotent and safe to call on every process start.
func Open(path string) (*Store, error) {
	return open(path, DefaultMigrations())
}

func open(path string, migrations []Migration) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("open storage: empty path")
	}

	initMu.Lock()
	defer initMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("open storage: create parent dir: %w", err)
	}

	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(pragmaJournalModeWAL); err != nil {
		return nil, fmt.Errorf("open storage: enable wal: %w", err)
	}
	if err := RunMigrations(db, migrations); err != nil {
		return nil, err
	}

	hasName, err := columnExists(db, "cultivations", "name")
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store := &Store{
		path:               path,
		hasCultivationName: hasName,
	}
	store.Accounts = &accountRepository{store: store}
	store.MasterSkills = &skillRepository{store: store, table: "master_skills"}
	store.AssistSkills = &skillRepository{store: store, table: "assist_skills"}
	store.Cultivations = &cultivationRepository{store: store}
	store.Spends = &spendRepository{store: store}
	store.ChangeLogs = &changeLogRepository{store: store}
	return store, nil
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// acquire opens a fresh connection for one logical operation. The caller
// closes it when the operation completes.
func (s *Store) acquire() (*sql.DB, error) {
	return openDB(s.path)
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	// One underlying connection per handle so the session pragmas below
	// cover every statement issued through it.
	db.SetMaxOpenConns(1)

	for _, stmt := range []string{pragmaForeignKeysOn, pragmaBusyTimeout} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure sqlite %q: %w", stmt, err)
		}
	}
	return db, nil
}
