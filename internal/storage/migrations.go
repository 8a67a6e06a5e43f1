package storage

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const schemaVersionMetaKey = "schema_version"

// Migration is one schema step. Up runs inside a transaction and must be
// written so that re-running against an already-migrated database is a
// checked no-op rather than a swallowed error.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

var defaultMigrations = []Migration{
	{
		Version:     1,
		Description: "create entity tables",
		Up: func(tx *sql.Tx) error {
			// cultivations is created in its legacy shape here so that
			// data files predating the later steps take the same upgrade
			// path as fresh ones.
			statements := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT NOT NULL,
					school TEXT NOT NULL,
					level INTEGER NOT NULL DEFAULT 0,
					experience INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS master_skills (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					skill_name TEXT NOT NULL,
					current_level INTEGER NOT NULL DEFAULT 0,
					target_level INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE,
					UNIQUE(account_id, skill_name)
				)`,
				`CREATE TABLE IF NOT EXISTS assist_skills (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					skill_name TEXT NOT NULL,
					current_level INTEGER NOT NULL DEFAULT 0,
					target_level INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE,
					UNIQUE(account_id, skill_name)
				)`,
				`CREATE TABLE IF NOT EXISTS cultivations (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					type TEXT NOT NULL,
					current_level INTEGER NOT NULL DEFAULT 0,
					target_level INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE,
					UNIQUE(account_id, type)
				)`,
				`CREATE TABLE IF NOT EXISTS spend_logs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					amount INTEGER NOT NULL,
					date TEXT NOT NULL,
					note TEXT,
					created_at TEXT NOT NULL DEFAULT (datetime('now','localtime')),
					FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
				)`,
				`CREATE TABLE IF NOT EXISTS change_logs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					category TEXT NOT NULL,
					name TEXT NOT NULL,
					from_level INTEGER,
					to_level INTEGER,
					from_exp INTEGER,
					to_exp INTEGER,
					consumed_exp INTEGER NOT NULL DEFAULT 0,
					consumed_money INTEGER NOT NULL DEFAULT 0,
					consumed_gang INTEGER NOT NULL DEFAULT 0,
					consumed_cultivation_exp INTEGER NOT NULL DEFAULT 0,
					date TEXT NOT NULL,
					created_at TEXT NOT NULL DEFAULT (datetime('now','localtime')),
					FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
				)`,
			}
			for _, stmt := range statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("apply migration v1 statement: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "add accounts gold balance",
		Up: func(tx *sql.Tx) error {
			ok, err := columnExists(tx, "accounts", "gold")
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
			if _, err := tx.Exec(`ALTER TABLE accounts ADD COLUMN gold INTEGER NOT NULL DEFAULT 0`); err != nil {
				return fmt.Errorf("add accounts.gold: %w", err)
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "add cultivation mode and experience",
		Up: func(tx *sql.Tx) error {
			type columnSpec struct {
				name       string
				definition string
			}

			columns := []columnSpec{
				{name: "mode", definition: `TEXT NOT NULL DEFAULT '2w'`},
				{name: "current_exp", definition: `INTEGER NOT NULL DEFAULT 0`},
			}
			for _, column := range columns {
				exists, err := columnExists(tx, "cultivations", column.name)
				if err != nil {
					return err
				}
				if exists {
					continue
				}
				if _, err := tx.Exec(`ALTER TABLE cultivations ADD COLUMN ` + column.name + ` ` + column.definition); err != nil {
					return fmt.Errorf("add cultivations.%s: %w", column.name, err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "add cultivation name",
		Up: func(tx *sql.Tx) error {
			exists, err := columnExists(tx, "cultivations", "name")
			if err != nil {
				return err
			}
			if !exists {
				if _, err := tx.Exec(`ALTER TABLE cultivations ADD COLUMN name TEXT NOT NULL DEFAULT ''`); err != nil {
					return fmt.Errorf("add cultivations.name: %w", err)
				}
			}

			// One-time backfill: legacy rows carry no label, infer one
			// from the training mode.
			if _, err := tx.Exec(`UPDATE cultivations
				SET name = CASE WHEN mode = '2w' THEN 'defense' ELSE 'attack' END
				WHERE name = ''`); err != nil {
				return fmt.Errorf("backfill cultivation names: %w", err)
			}
			return nil
		},
	},
	{
		Version:     5,
		Description: "drop cultivation per-type uniqueness",
		Up: func(tx *sql.Tx) error {
			// SQLite cannot drop a table constraint in place, so the table
			// is rebuilt through a shadow copy and renamed into place. The
			// surrounding migration transaction keeps the original intact
			// on a crash mid-rebuild.
			legacy, err := cultivationsHaveTypeConstraint(tx)
			if err != nil {
				return err
			}
			if !legacy {
				return nil
			}

			statements := []string{
				`CREATE TABLE IF NOT EXISTS cultivations_v2 (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					account_id INTEGER NOT NULL,
					name TEXT NOT NULL DEFAULT '',
					type TEXT NOT NULL,
					mode TEXT NOT NULL DEFAULT '2w',
					current_exp INTEGER NOT NULL DEFAULT 0,
					current_level INTEGER NOT NULL DEFAULT 0,
					target_level INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE
				)`,
				`INSERT INTO cultivations_v2 (id, account_id, name, type, mode, current_exp, current_level, target_level)
					SELECT id, account_id, name, type, mode, current_exp, current_level, target_level FROM cultivations`,
				`DROP TABLE cultivations`,
				`ALTER TABLE cultivations_v2 RENAME TO cultivations`,
			}
			for _, stmt := range statements {
				if _, err := tx.Exec(stmt); err != nil {
					return fmt.Errorf("rebuild cultivations: %w", err)
				}
			}
			return nil
		},
	},
}

func DefaultMigrations() []Migration {
	out := make([]Migration, len(defaultMigrations))
	copy(out, defaultMigrations)
	return out
}

func CurrentSchemaVersion() int {
	return maxMigrationVersion(defaultMigrations)
}

// RunMigrations applies every migration above the recorded schema version,
// each in its own transaction. Calling it against an up-to-date database is
// a no-op; a database stamped newer than the code is refused.
func RunMigrations(db *sql.DB, migrations []Migration) error {
	if db == nil {
		return fmt.Errorf("run migrations: db is nil")
	}

	if err := ensureMigrationTables(db); err != nil {
		return err
	}

	ordered := make([]Migration, len(migrations))
	copy(ordered, migrations)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Version < ordered[j].Version })

	current, err := readSchemaVersion(db)
	if err != nil {
		return err
	}

	maxVersion := maxMigrationVersion(ordered)
	if current > maxVersion {
		return fmt.Errorf("%w: db=%d code=%d", ErrSchemaTooNew, current, maxVersion)
	}

	for _, migration := range ordered {
		if migration.Version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration v%d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration v%d (%s): %w", migration.Version, migration.Description, err)
		}

		if _, err := tx.Exec(`INSERT OR REPLACE INTO schema_migrations(version, applied_at) VALUES (?, ?)`, migration.Version, nowUTCString()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record schema migration v%d: %w", migration.Version, err)
		}

		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key, value) VALUES(?, ?)`, schemaVersionMetaKey, strconv.Itoa(migration.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("update schema version v%d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration v%d: %w", migration.Version, err)
		}
	}

	return nil
}

func ensureMigrationTables(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)`,
		`INSERT OR IGNORE INTO meta(key, value) VALUES('` + schemaVersionMetaKey + `', '0')`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure migration tables: %w", err)
		}
	}
	return nil
}

func readSchemaVersion(db *sql.DB) (int, error) {
	var versionStr string
	if err := db.QueryRow(`SELECT value FROM meta WHERE key = ?`, schemaVersionMetaKey).Scan(&versionStr); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	version, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", versionStr, err)
	}
	return version, nil
}

func maxMigrationVersion(migrations []Migration) int {
	max := 0
	for _, migration := range migrations {
		if migration.Version > max {
			max = migration.Version
		}
	}
	return max
}

type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func columnExists(q querier, table, column string) (bool, error) {
	rows, err := q.Query(`PRAGMA table_info(` + table + `)`)
	if err != nil {
		return false, fmt.Errorf("query table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dfltVal sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dfltVal, &pk); err != nil {
			return false, fmt.Errorf("scan table info %s: %w", table, err)
		}
		if name == column {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate table info %s: %w", table, err)
	}
	return false, nil
}

// cultivationsHaveTypeConstraint inspects the recorded table definition for
// the legacy UNIQUE(account_id, type) constraint.
func cultivationsHaveTypeConstraint(q querier) (bool, error) {
	rows, err := q.Query(`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = 'cultivations'`)
	if err != nil {
		return false, fmt.Errorf("query cultivations definition: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, fmt.Errorf("iterate cultivations definition: %w", err)
		}
		return false, nil
	}
	var definition sql.NullString
	if err := rows.Scan(&definition); err != nil {
		return false, fmt.Errorf("scan cultivations definition: %w", err)
	}
	normalized := strings.ReplaceAll(definition.String, " ", "")
	return strings.Contains(normalized, "UNIQUE(account_id,type)"), nil
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
