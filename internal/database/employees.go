package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"talento/internal/models"
)

const employeeColumns = `id, cedula, first_name, last_name, email, phone, address,
       COALESCE(department_id, 0), COALESCE(position_id, 0), salary,
       COALESCE(hire_date, ''), COALESCE(contract_end_date, ''), status, created_at, updated_at`

func scanEmployee(row interface{ Scan(...any) error }) (*models.Employee, error) {
	var e models.Employee
	err := row.Scan(
		&e.ID,
		&e.Cedula,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&e.Phone,
		&e.Address,
		&e.DepartmentID,
		&e.PositionID,
		&e.Salary,
		&e.HireDate,
		&e.ContractEndDate,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (db *DB) CreateEmployee(ctx context.Context, e *models.Employee) error {
	if e.Status == "" {
		e.Status = models.StatusActive
	}
	now := time.Now()

	query := `INSERT INTO employees (
            cedula, first_name, last_name, email, phone, address,
            department_id, position_id, salary, hire_date, contract_end_date, status,
            created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := db.ExecContext(ctx, query,
		e.Cedula,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Phone,
		e.Address,
		nullableID(e.DepartmentID),
		nullableID(e.PositionID),
		e.Salary,
		e.HireDate,
		e.ContractEndDate,
		e.Status,
		now,
		now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: employees.cedula") {
			return ErrDuplicateCedula
		}
		return fmt.Errorf("create employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (db *DB) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	e, err := scanEmployee(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

func (db *DB) GetEmployeeByCedula(ctx context.Context, cedula string) (*models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE cedula = ?`
	e, err := scanEmployee(db.QueryRowContext(ctx, query, cedula))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmployeeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get employee by cedula: %w", err)
	}
	return e, nil
}

func (db *DB) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	query := `UPDATE employees SET
            cedula = ?, first_name = ?, last_name = ?, email = ?, phone = ?, address = ?,
            department_id = ?, position_id = ?, salary = ?, hire_date = ?,
            contract_end_date = ?, status = ?, updated_at = ?
        WHERE id = ?`

	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		e.Cedula,
		e.FirstName,
		e.LastName,
		e.Email,
		e.Phone,
		e.Address,
		nullableID(e.DepartmentID),
		nullableID(e.PositionID),
		e.Salary,
		e.HireDate,
		e.ContractEndDate,
		e.Status,
		now,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	e.UpdatedAt = now
	return nil
}

func (db *DB) DeleteEmployee(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListEmployees(ctx context.Context, status string) ([]models.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// ListExpiringContracts returns active employees whose contract ends within
// the given window from today.
func (db *DB) ListExpiringContracts(ctx context.Context, within time.Duration) ([]models.Employee, error) {
	today := time.Now().Format("2006-01-02")
	limit := time.Now().Add(within).Format("2006-01-02")

	query := `SELECT ` + employeeColumns + ` FROM employees
        WHERE status = ? AND contract_end_date IS NOT NULL AND contract_end_date != ''
          AND contract_end_date BETWEEN ? AND ?
        ORDER BY contract_end_date`

	rows, err := db.QueryContext(ctx, query, models.StatusActive, today, limit)
	if err != nil {
		return nil, fmt.Errorf("list expiring contracts: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
