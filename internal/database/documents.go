package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"talento/internal/models"

	"github.com/google/uuid"
)

func (db *DB) CreateDocument(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now()
	_, err := db.ExecContext(ctx,
		`INSERT INTO documents (id, employee_id, name, type, path, uploaded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.EmployeeID, d.Name, d.Type, d.Path, now,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	d.UploadedAt = now
	return nil
}

func (db *DB) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var d models.Document
	err := db.QueryRowContext(ctx,
		`SELECT id, employee_id, name, COALESCE(type, ''), path, uploaded_at FROM documents WHERE id = ?`, id,
	).Scan(&d.ID, &d.EmployeeID, &d.Name, &d.Type, &d.Path, &d.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func (db *DB) ListDocuments(ctx context.Context, employeeID int64) ([]models.Document, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, employee_id, name, COALESCE(type, ''), path, uploaded_at
         FROM documents WHERE employee_id = ? ORDER BY uploaded_at DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.EmployeeID, &d.Name, &d.Type, &d.Path, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

func (db *DB) DeleteDocument(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
