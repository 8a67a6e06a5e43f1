package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// SpendFilter narrows spend-log listings. Nil fields are ignored; Start and
// End form an inclusive "YYYY-MM-DD" range.
type SpendFilter struct {
	AccountID *int64
	Start     *string
	End       *string
}

type SpendRepository interface {
	// Record appends a spend log and decrements the owning account's gold
	// balance by amount in one transaction. There is no non-negative
	// balance check; overdraft is a representable state. Returns the new
	// log's identifier.
	Record(ctx context.Context, accountID, amount int64, date string, note *string) (int64, error)
	// List returns matching logs ordered by date descending, then
	// identifier descending.
	List(ctx context.Context, filter SpendFilter) ([]SpendLog, error)
	// DailySummary sums amounts per exact date within the inclusive
	// range, ordered ascending by date.
	DailySummary(ctx context.Context, start, end string) ([]SpendSummary, error)
	// MonthlySummary sums amounts per year-month prefix for the given
	// year, ordered ascending.
	MonthlySummary(ctx context.Context, year int) ([]SpendSummary, error)
}

type spendRepository struct {
	store *Store
}

func (r *spendRepository) Record(ctx context.Context, accountID, amount int64, date string, note *string) (int64, error) {
	db, err := r.store.acquire()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("record spend: begin tx: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO spend_logs(account_id, amount, date, note)
		VALUES(?, ?, ?, ?)
	`, accountID, amount, date, nullString(note))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("record spend: insert log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("record spend: last insert id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET gold = gold - ? WHERE id = ?
	`, amount, accountID); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("record spend: decrement gold: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("record spend: commit: %w", err)
	}
	return id, nil
}

func (r *spendRepository) List(ctx context.Context, filter SpendFilter) ([]SpendLog, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := `
		SELECT id, account_id, amount, date, note, created_at
		FROM spend_logs
		WHERE 1=1
	`
	args := []any{}
	if filter.AccountID != nil {
		query += ` AND account_id = ? `
		args = append(args, *filter.AccountID)
	}
	if filter.Start != nil {
		query += ` AND date >= ? `
		args = append(args, *filter.Start)
	}
	if filter.End != nil {
		query += ` AND date <= ? `
		args = append(args, *filter.End)
	}
	query += ` ORDER BY date DESC, id DESC `

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spend logs: %w", err)
	}
	defer rows.Close()

	var out []SpendLog
	for rows.Next() {
		var (
			log  SpendLog
			note sql.NullString
		)
		if err := rows.Scan(&log.ID, &log.AccountID, &log.Amount, &log.Date, &note, &log.CreatedAt); err != nil {
			return nil, fmt.Errorf("list spend logs: scan: %w", err)
		}
		log.Note = stringPtr(note)
		out = append(out, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list spend logs: iterate: %w", err)
	}
	return out, nil
}

func (r *spendRepository) DailySummary(ctx context.Context, start, end string) ([]SpendSummary, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT date, SUM(amount) AS total
		FROM spend_logs
		WHERE date BETWEEN ? AND ?
		GROUP BY date
		ORDER BY date ASC
	`, start, end)
	if err != nil {
		return nil, fmt.Errorf("daily spend summary: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows, "daily spend summary")
}

func (r *spendRepository) MonthlySummary(ctx context.Context, year int) ([]SpendSummary, error) {
	db, err := r.store.acquire()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
		SELECT substr(date, 1, 7) AS ym, SUM(amount) AS total
		FROM spend_logs
		WHERE substr(date, 1, 4) = ?
		GROUP BY ym
		ORDER BY ym ASC
	`, strconv.Itoa(year))
	if err != nil {
		return nil, fmt.Errorf("monthly spend summary: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows, "monthly spend summary")
}

func scanSummaries(rows *sql.Rows, op string) ([]SpendSummary, error) {
	var out []SpendSummary
	for rows.Next() {
		var summary SpendSummary
		if err := rows.Scan(&summary.Date, &summary.Total); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate: %w", op, err)
	}
	return out, nil
}
