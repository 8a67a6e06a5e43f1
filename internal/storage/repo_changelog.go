package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ChangeLogRepository interface {
	// Create appends an audit record and returns its identifier. The
	// consumption counters default to 0 through the struct's zero values;
	// CreatedAt is assigned by the database.
	Create(ctx context.Context, entry ChangeLog) (int64, error)
	// ListByAccount returns the account's records ordered by identifier
	// descending, newest first.
	ListByAccount(ctx context.Context, accountID int64) ([]ChangeLog, error)
}

type changeLogRepository struct {
	store *Store
}

func (r *changeLogRepository) Create(ctx context.Context, entry ChangeLog) (int64, error) {
	db, err := r.store.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `
		INSERT INTO change_logs(
			account_id, category, name,
			from_level, to_level, from_exp, to_exp,
			consumed_exp, consumed_money, consumed_gang, consumed_cultivation_exp,
			date
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.AccountID, entry.Category, entry.Name,
		nullInt(entry.FromLevel), nullInt(entry.ToLevel), nullInt(entry.FromExp), nullInt(entry.ToExp),
		entry.ConsumedExp, entry.ConsumedMoney, entry.ConsumedGang, entry.ConsumedCultivationExp,
		entry.Date)
	if err != nil {
		return 0, fmt.Errorf("create change log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create change log: last insert id: %w", err)
	}
	return id, nil
}

func (r *changeLogRepository) ListByAccount(ctx context.Context, accountID int64) ([]ChangeLog, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, account_id, category, name,
			from_level, to_level, from_exp, to_exp,
			consumed_exp, consumed_money, consumed_gang, consumed_cultivation_exp,
			date, created_at
		FROM change_logs
		WHERE account_id = ?
		ORDER BY id DESC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list change logs: %w", err)
	}
	defer rows.Close()

	var out []ChangeLog
	for rows.Next() {
		var (
			entry     ChangeLog
			fromLevel sql.NullInt64
			toLevel   sql.NullInt64
			fromExp   sql.NullInt64
			toExp     sql.NullInt64
		)
		if err := rows.Scan(&entry.ID, &entry.AccountID, &entry.Category, &entry.Name,
			&fromLevel, &toLevel, &fromExp, &toExp,
			&entry.ConsumedExp, &entry.ConsumedMoney, &entry.ConsumedGang, &entry.ConsumedCultivationExp,
			&entry.Date, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("list change logs: scan: %w", err)
		}
		entry.FromLevel = intPtr(fromLevel)
		entry.ToLevel = intPtr(toLevel)
		entry.FromExp = intPtr(fromExp)
		entry.ToExp = intPtr(toExp)
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list change logs: iterate: %w", err)
	}
	return out, nil
}
