package database

import (
	"context"
	"fmt"
	"time"

	"talento/internal/models"
)

// ReplaceAttendanceLine removes any record for (employee, date) and inserts
// the new one inside a single transaction. Returns whether a prior record
// existed. Same last-import-wins policy as payroll.
func (db *DB) ReplaceAttendanceLine(ctx context.Context, line *models.AttendanceLine) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM attendance_lines WHERE employee_id = ? AND date = ?`,
		line.EmployeeID, line.Date,
	)
	if err != nil {
		return false, fmt.Errorf("delete prior attendance line: %w", err)
	}
	deleted, _ := result.RowsAffected()

	now := time.Now()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO attendance_lines (
            employee_id, date, check_in, check_out, hours_worked, observations, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		line.EmployeeID,
		line.Date,
		line.CheckIn,
		line.CheckOut,
		line.HoursWorked,
		line.Observations,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("insert attendance line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit attendance replace: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		line.ID = id
	}
	line.CreatedAt = now
	return deleted > 0, nil
}

func (db *DB) ListAttendanceByEmployee(ctx context.Context, employeeID int64, from, to string) ([]models.AttendanceLine, error) {
	query := `SELECT id, employee_id, date, COALESCE(check_in, ''), COALESCE(check_out, ''),
               hours_worked, COALESCE(observations, ''), created_at
        FROM attendance_lines WHERE employee_id = ?`
	args := []any{employeeID}
	if from != "" && to != "" {
		query += ` AND date BETWEEN ? AND ?`
		args = append(args, from, to)
	}
	query += ` ORDER BY date`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance by employee: %w", err)
	}
	defer rows.Close()

	var lines []models.AttendanceLine
	for rows.Next() {
		var a models.AttendanceLine
		err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut,
			&a.HoursWorked, &a.Observations, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan attendance line: %w", err)
		}
		lines = append(lines, a)
	}
	return lines, rows.Err()
}

func (db *DB) ListAttendanceByDate(ctx context.Context, date string) ([]models.AttendanceLine, error) {
	query := `SELECT a.id, a.employee_id, a.date, COALESCE(a.check_in, ''), COALESCE(a.check_out, ''),
               a.hours_worked, COALESCE(a.observations, ''), a.created_at,
               e.cedula, e.first_name || ' ' || e.last_name
        FROM attendance_lines a
        JOIN employees e ON e.id = a.employee_id
        WHERE a.date = ?
        ORDER BY e.last_name, e.first_name`

	rows, err := db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list attendance by date: %w", err)
	}
	defer rows.Close()

	var lines []models.AttendanceLine
	for rows.Next() {
		var a models.AttendanceLine
		err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut,
			&a.HoursWorked, &a.Observations, &a.CreatedAt, &a.Cedula, &a.EmployeeName)
		if err != nil {
			return nil, fmt.Errorf("scan attendance line: %w", err)
		}
		lines = append(lines, a)
	}
	return lines, rows.Err()
}

// CountMissingAttendance returns how many active employees have no clock
// record for the given date. Used by the attendance reminder digest.
func (db *DB) CountMissingAttendance(ctx context.Context, date string) (int, error) {
	query := `SELECT COUNT(*) FROM employees e
        WHERE e.status = ?
          AND NOT EXISTS (SELECT 1 FROM attendance_lines a WHERE a.employee_id = e.id AND a.date = ?)`

	var count int
	if err := db.QueryRowContext(ctx, query, models.StatusActive, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("count missing attendance: %w", err)
	}
	return count, nil
}
