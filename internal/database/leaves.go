package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talento/internal/models"
)

func (db *DB) CreateLeave(ctx context.Context, l *models.Leave) error {
	if l.Status == "" {
		l.Status = models.LeavePending
	}
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO leaves (employee_id, type, start_date, end_date, status, reason, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.EmployeeID, l.Type, l.StartDate, l.EndDate, l.Status, l.Reason, now, now,
	)
	if err != nil {
		return fmt.Errorf("create leave: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	l.ID = id
	l.CreatedAt = now
	l.UpdatedAt = now
	return nil
}

func (db *DB) GetLeave(ctx context.Context, id int64) (*models.Leave, error) {
	var l models.Leave
	err := db.QueryRowContext(ctx,
		`SELECT id, employee_id, type, start_date, end_date, status, COALESCE(reason, ''), created_at, updated_at
         FROM leaves WHERE id = ?`, id,
	).Scan(&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate, &l.Status, &l.Reason, &l.CreatedAt, &l.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get leave: %w", err)
	}
	return &l, nil
}

func (db *DB) UpdateLeaveStatus(ctx context.Context, id int64, status string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE leaves SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update leave status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListLeaves(ctx context.Context, employeeID int64, status string) ([]models.Leave, error) {
	query := `SELECT id, employee_id, type, start_date, end_date, status, COALESCE(reason, ''), created_at, updated_at
        FROM leaves WHERE 1=1`
	args := []any{}
	if employeeID != 0 {
		query += ` AND employee_id = ?`
		args = append(args, employeeID)
	}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY start_date DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	defer rows.Close()

	var leaves []models.Leave
	for rows.Next() {
		var l models.Leave
		err := rows.Scan(&l.ID, &l.EmployeeID, &l.Type, &l.StartDate, &l.EndDate,
			&l.Status, &l.Reason, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan leave: %w", err)
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

func (db *DB) ListPendingLeaves(ctx context.Context) ([]models.Leave, error) {
	return db.ListLeaves(ctx, 0, models.LeavePending)
}

func (db *DB) DeleteLeave(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM leaves WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete leave: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
