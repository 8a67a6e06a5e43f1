package storage

import (
	"context"
	"fmt"
)

const defaultCultivationMode = "2w"

type CultivationRepository interface {
	// Create inserts a training track and returns its identifier. An empty
	// mode defaults to "2w"; name, experience and levels default to their
	// zero values.
	Create(ctx context.Context, c Cultivation) (int64, error)
	// Update replaces mode, experience and levels. A nil name leaves the
	// stored name unchanged.
	Update(ctx context.Context, id int64, name *string, mode string, currentExp, currentLevel, targetLevel int) error
	Delete(ctx context.Context, id int64) error
	// ListByAccount returns the account's tracks ordered by identifier
	// ascending. Against a schema predating the name column it falls back
	// to a narrower query and synthesizes empty names.
	ListByAccount(ctx context.Context, accountID int64) ([]Cultivation, error)
}

type cultivationRepository struct {
	store *Store
}

func (r *cultivationRepository) Create(ctx context.Context, c Cultivation) (int64, error) {
	if c.Mode == "" {
		c.Mode = defaultCultivationMode
	}

	db, err := r.store.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `
		INSERT INTO cultivations(account_id, name, type, mode, current_exp, current_level, target_level)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`, c.AccountID, c.Name, c.Type, c.Mode, c.CurrentExp, c.CurrentLevel, c.TargetLevel)
	if err != nil {
		return 0, fmt.Errorf("create cultivation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create cultivation: last insert id: %w", err)
	}
	return id, nil
}

func (r *cultivationRepository) Update(ctx context.Context, id int64, name *string, mode string, currentExp, currentLevel, targetLevel int) error {
	if mode == "" {
		mode = defaultCultivationMode
	}

	db, err := r.store.acquire()
	if err != nil {
		return err
	}
	defer db.Close()

	query := `
		UPDATE cultivations
		SET mode = ?, current_exp = ?, current_level = ?, target_level = ?
		WHERE id = ?
	`
	args := []any{mode, currentExp, currentLevel, targetLevel, id}
	if name != nil {
		query = `
			UPDATE cultivations
			SET name = ?, mode = ?, current_exp = ?, current_level = ?, target_level = ?
			WHERE id = ?
		`
		args = []any{*name, mode, currentExp, currentLevel, targetLevel, id}
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update cultivation: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update cultivation: rows affected: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cultivationRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.store.acquire()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `DELETE FROM cultivations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete cultivation: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete cultivation: rows affected: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *cultivationRepository) ListByAccount(ctx context.Context, accountID int64) ([]Cultivation, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT id, account_id, name, type, mode, current_exp, current_level, target_level
		FROM cultivations
		WHERE account_id = ?
		ORDER BY id ASC
	`
	if !r.store.hasCultivationName {
		query = `
			SELECT id, account_id, type, mode, current_exp, current_level, target_level
			FROM cultivations
			WHERE account_id = ?
			ORDER BY id ASC
		`
	}

	rows, err := db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list cultivations: %w", err)
	}
	defer rows.Close()

	var out []Cultivation
	for rows.Next() {
		var c Cultivation
		if r.store.hasCultivationName {
			err = rows.Scan(&c.ID, &c.AccountID, &c.Name, &c.Type, &c.Mode, &c.CurrentExp, &c.CurrentLevel, &c.TargetLevel)
		} else {
			err = rows.Scan(&c.ID, &c.AccountID, &c.Type, &c.Mode, &c.CurrentExp, &c.CurrentLevel, &c.TargetLevel)
		}
		if err != nil {
			return nil, fmt.Errorf("list cultivations: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cultivations: iterate: %w", err)
	}
	return out, nil
}
