package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talento/internal/models"
)

func (db *DB) CreateDepartment(ctx context.Context, d *models.Department) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO departments (name, description, created_at) VALUES (?, ?, ?)`,
		d.Name, d.Description, now,
	)
	if err != nil {
		return fmt.Errorf("create department: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	d.ID = id
	d.CreatedAt = now
	return nil
}

func (db *DB) GetDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	var d models.Department
	err := db.QueryRowContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM departments WHERE name = ?`, name,
	).Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get department by name: %w", err)
	}
	return &d, nil
}

func (db *DB) ListDepartments(ctx context.Context) ([]models.Department, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, COALESCE(description, ''), created_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (db *DB) UpdateDepartment(ctx context.Context, d *models.Department) error {
	result, err := db.ExecContext(ctx,
		`UPDATE departments SET name = ?, description = ? WHERE id = ?`,
		d.Name, d.Description, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeleteDepartment(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) CreatePosition(ctx context.Context, p *models.Position) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO positions (title, department_id, base_salary, created_at) VALUES (?, ?, ?, ?)`,
		p.Title, nullableID(p.DepartmentID), p.BaseSalary, now,
	)
	if err != nil {
		return fmt.Errorf("create position: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	return nil
}

func (db *DB) GetPositionByTitle(ctx context.Context, title string) (*models.Position, error) {
	var p models.Position
	err := db.QueryRowContext(ctx,
		`SELECT id, title, COALESCE(department_id, 0), base_salary, created_at FROM positions WHERE title = ?`, title,
	).Scan(&p.ID, &p.Title, &p.DepartmentID, &p.BaseSalary, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get position by title: %w", err)
	}
	return &p, nil
}

func (db *DB) ListPositions(ctx context.Context) ([]models.Position, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, title, COALESCE(department_id, 0), base_salary, created_at FROM positions ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Title, &p.DepartmentID, &p.BaseSalary, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (db *DB) UpdatePosition(ctx context.Context, p *models.Position) error {
	result, err := db.ExecContext(ctx,
		`UPDATE positions SET title = ?, department_id = ?, base_salary = ? WHERE id = ?`,
		p.Title, nullableID(p.DepartmentID), p.BaseSalary, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update position: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) DeletePosition(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM positions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
