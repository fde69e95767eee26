package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talento/internal/models"
)

const payrollColumns = `id, employee_id, year, month, base_salary, overtime, bonuses,
       food_allowance, other_income, iess_contribution, income_tax,
       food_allowance_charge, other_deductions, net_pay, created_at, updated_at`

func scanPayrollLine(row interface{ Scan(...any) error }) (*models.PayrollLine, error) {
	var p models.PayrollLine
	err := row.Scan(
		&p.ID,
		&p.EmployeeID,
		&p.Year,
		&p.Month,
		&p.BaseSalary,
		&p.Overtime,
		&p.Bonuses,
		&p.FoodAllowance,
		&p.OtherIncome,
		&p.IESSContribution,
		&p.IncomeTax,
		&p.FoodAllowanceCharge,
		&p.OtherDeductions,
		&p.NetPay,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplacePayrollLine removes any line for (employee, year, month) and inserts
// the new one inside a single transaction. Returns whether a prior line was
// replaced. Last import wins: a re-import of a period fully overwrites it.
func (db *DB) ReplacePayrollLine(ctx context.Context, line *models.PayrollLine) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM payroll_lines WHERE employee_id = ? AND year = ? AND month = ?`,
		line.EmployeeID, line.Year, line.Month,
	)
	if err != nil {
		return false, fmt.Errorf("delete prior payroll line: %w", err)
	}
	deleted, _ := result.RowsAffected()

	now := time.Now()
	insert := `INSERT INTO payroll_lines (
            employee_id, year, month, base_salary, overtime, bonuses,
            food_allowance, other_income, iess_contribution, income_tax,
            food_allowance_charge, other_deductions, net_pay, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := tx.ExecContext(ctx, insert,
		line.EmployeeID,
		line.Year,
		line.Month,
		line.BaseSalary,
		line.Overtime,
		line.Bonuses,
		line.FoodAllowance,
		line.OtherIncome,
		line.IESSContribution,
		line.IncomeTax,
		line.FoodAllowanceCharge,
		line.OtherDeductions,
		line.NetPay,
		now,
		now,
	)
	if err != nil {
		return false, fmt.Errorf("insert payroll line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit payroll replace: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil {
		line.ID = id
	}
	line.CreatedAt = now
	line.UpdatedAt = now
	return deleted > 0, nil
}

func (db *DB) GetPayrollLine(ctx context.Context, employeeID int64, year, month int) (*models.PayrollLine, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_lines
        WHERE employee_id = ? AND year = ? AND month = ?`
	p, err := scanPayrollLine(db.QueryRowContext(ctx, query, employeeID, year, month))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payroll line: %w", err)
	}
	return p, nil
}

// ListPayrollPeriod returns every line of a (year, month) period with the
// employee's cedula and name joined in.
func (db *DB) ListPayrollPeriod(ctx context.Context, year, month int) ([]models.PayrollLine, error) {
	query := `SELECT p.id, p.employee_id, p.year, p.month, p.base_salary, p.overtime,
               p.bonuses, p.food_allowance, p.other_income, p.iess_contribution,
               p.income_tax, p.food_allowance_charge, p.other_deductions, p.net_pay,
               p.created_at, p.updated_at, e.cedula, e.first_name || ' ' || e.last_name
        FROM payroll_lines p
        JOIN employees e ON e.id = p.employee_id
        WHERE p.year = ? AND p.month = ?
        ORDER BY e.last_name, e.first_name`

	rows, err := db.QueryContext(ctx, query, year, month)
	if err != nil {
		return nil, fmt.Errorf("list payroll period: %w", err)
	}
	defer rows.Close()

	var lines []models.PayrollLine
	for rows.Next() {
		var p models.PayrollLine
		err := rows.Scan(
			&p.ID, &p.EmployeeID, &p.Year, &p.Month, &p.BaseSalary, &p.Overtime,
			&p.Bonuses, &p.FoodAllowance, &p.OtherIncome, &p.IESSContribution,
			&p.IncomeTax, &p.FoodAllowanceCharge, &p.OtherDeductions, &p.NetPay,
			&p.CreatedAt, &p.UpdatedAt, &p.Cedula, &p.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan payroll line: %w", err)
		}
		lines = append(lines, p)
	}
	return lines, rows.Err()
}

func (db *DB) ListPayrollByEmployee(ctx context.Context, employeeID int64) ([]models.PayrollLine, error) {
	query := `SELECT ` + payrollColumns + ` FROM payroll_lines
        WHERE employee_id = ? ORDER BY year DESC, month DESC`

	rows, err := db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list payroll by employee: %w", err)
	}
	defer rows.Close()

	var lines []models.PayrollLine
	for rows.Next() {
		p, err := scanPayrollLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payroll line: %w", err)
		}
		lines = append(lines, *p)
	}
	return lines, rows.Err()
}

// GetPayrollSummary aggregates a period for the payroll digest notification.
func (db *DB) GetPayrollSummary(ctx context.Context, year, month int) (*models.PayrollSummary, error) {
	query := `SELECT COUNT(*),
               COALESCE(SUM(base_salary + overtime + bonuses + food_allowance + other_income), 0),
               COALESCE(SUM(iess_contribution + income_tax + food_allowance_charge + other_deductions), 0),
               COALESCE(SUM(net_pay), 0)
        FROM payroll_lines WHERE year = ? AND month = ?`

	summary := models.PayrollSummary{Year: year, Month: month}
	err := db.QueryRowContext(ctx, query, year, month).Scan(
		&summary.Employees,
		&summary.TotalIncome,
		&summary.TotalDeductions,
		&summary.TotalNetPay,
	)
	if err != nil {
		return nil, fmt.Errorf("payroll summary: %w", err)
	}
	return &summary, nil
}
