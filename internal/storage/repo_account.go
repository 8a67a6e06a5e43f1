package storage

import (
	"context"
	"fmt"
)

type AccountRepository interface {
	// Create inserts a new account with a zero gold balance and returns
	// its generated identifier.
	Create(ctx context.Context, name, school string, level int, experience int64) (int64, error)
	// Update replaces every mutable field except gold, which only
	// SpendRepository.Record may touch.
	Update(ctx context.Context, id int64, name, school string, level int, experience int64) error
	// Delete removes the account and, through foreign-key cascade, all of
	// its skills, cultivations, spend logs and change logs.
	Delete(ctx context.Context, id int64) error
	// List returns every account ordered by identifier ascending.
	List(ctx context.Context) ([]Account, error)
}

type accountRepository struct {
	store *Store
}

func (r *accountRepository) Create(ctx context.Context, name, school string, level int, experience int64) (int64, error) {
	db, err := r.store.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `
		INSERT INTO accounts(name, school, level, experience)
		VALUES(?, ?, ?, ?)
	`, name, school, level, experience)
	if err != nil {
		return 0, fmt.Errorf("create account: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create account: last insert id: %w", err)
	}
	return id, nil
}

func (r *accountRepository) Update(ctx context.Context, id int64, name, school string, level int, experience int64) error {
	db, err := r.store.acquire()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, school = ?, level = ?, experience = ?
		WHERE id = ?
	`, name, school, level, experience, id)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update account: rows affected: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.store.acquire()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete account: rows affected: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]Account, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, name, school, level, experience, gold
		FROM accounts
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		var account Account
		if err := rows.Scan(&account.ID, &account.Name, &account.School, &account.Level, &account.Experience, &account.Gold); err != nil {
			return nil, fmt.Errorf("list accounts: scan: %w", err)
		}
		out = append(out, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list accounts: iterate: %w", err)
	}
	return out, nil
}
