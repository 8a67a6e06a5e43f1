package storage

import (
	"context"
	"fmt"
)

// SkillRepository manages one skill kind. The master and assist tables share
// a shape, so a single implementation serves both behind Store.MasterSkills
// and Store.AssistSkills.
type SkillRepository interface {
	// Create returns the new skill's identifier. Inserting a name already
	// used by the same account within this kind fails with the driver's
	// constraint violation.
	Create(ctx context.Context, accountID int64, skillName string, currentLevel, targetLevel int) (int64, error)
	UpdateLevels(ctx context.Context, id int64, currentLevel, targetLevel int) error
	Delete(ctx context.Context, id int64) error
	// ListByAccount returns the account's skills ordered by identifier
	// ascending.
	ListByAccount(ctx context.Context, accountID int64) ([]Skill, error)
}

type skillRepository struct {
	store *Store
	table string
}

func (r *skillRepository) Create(ctx context.Context, accountID int64, skillName string, currentLevel, targetLevel int) (int64, error) {
	db, err := r.store.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `
		INSERT INTO `+r.table+`(account_id, skill_name, current_level, target_level)
		VALUES(?, ?, ?, ?)
	`, accountID, skillName, currentLevel, targetLevel)
	if err != nil {
		return 0, fmt.Errorf("create %s skill: %w", r.kind(), err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create %s skill: last insert id: %w", r.kind(), err)
	}
	return id, nil
}

func (r *skillRepository) UpdateLevels(ctx context.Context, id int64, currentLevel, targetLevel int) error {
	db, err := r.store.acquire()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `
		UPDATE `+r.table+`
		SET current_level = ?, target_level = ?
		WHERE id = ?
	`, currentLevel, targetLevel, id)
	if err != nil {
		return fmt.Errorf("update %s skill: %w", r.kind(), err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s skill: rows affected: %w", r.kind(), err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *skillRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.store.acquire()
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete %s skill: %w", r.kind(), err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s skill: rows affected: %w", r.kind(), err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *skillRepository) ListByAccount(ctx context.Context, accountID int64) ([]Skill, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT id, account_id, skill_name, current_level, target_level
		FROM `+r.table+`
		WHERE account_id = ?
		ORDER BY id ASC
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list %s skills: %w", r.kind(), err)
	}
	defer rows.Close()

	var out []Skill
	for rows.Next() {
		var skill Skill
		if err := rows.Scan(&skill.ID, &skill.AccountID, &skill.SkillName, &skill.CurrentLevel, &skill.TargetLevel); err != nil {
			return nil, fmt.Errorf("list %s skills: scan: %w", r.kind(), err)
		}
		out = append(out, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s skills: iterate: %w", r.kind(), err)
	}
	return out, nil
}

func (r *skillRepository) kind() string {
	if r.table == "master_skills" {
		return "master"
	}
	return "assist"
}
