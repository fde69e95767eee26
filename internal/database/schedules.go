package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talento/internal/models"
)

const scheduleColumns = `id, type, COALESCE(day_of_week, ''), COALESCE(day_of_month, 0),
       hour, minute, enabled, channels, COALESCE(recipient_email, ''),
       COALESCE(description, ''), created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }) (*models.NotificationSchedule, error) {
	var s models.NotificationSchedule
	var channels string
	err := row.Scan(
		&s.ID,
		&s.Type,
		&s.DayOfWeek,
		&s.DayOfMonth,
		&s.Hour,
		&s.Minute,
		&s.Enabled,
		&channels,
		&s.RecipientEmail,
		&s.Description,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(channels), &s.Channels); err != nil {
		// Leave channels empty rather than failing the read.
		s.Channels = nil
	}
	return &s, nil
}

func (db *DB) CreateSchedule(ctx context.Context, s *models.NotificationSchedule) error {
	channels, err := json.Marshal(s.Channels)
	if err != nil {
		return fmt.Errorf("encode channels: %w", err)
	}

	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO notification_schedules (
            type, day_of_week, day_of_month, hour, minute, enabled, channels,
            recipient_email, description, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Type, s.DayOfWeek, s.DayOfMonth, s.Hour, s.Minute, s.Enabled,
		string(channels), s.RecipientEmail, s.Description, now, now,
	)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	s.ID = id
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

func (db *DB) GetSchedule(ctx context.Context, id int64) (*models.NotificationSchedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM notification_schedules WHERE id = ?`
	s, err := scanSchedule(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return s, nil
}

func (db *DB) UpdateSchedule(ctx context.Context, s *models.NotificationSchedule) error {
	channels, err := json.Marshal(s.Channels)
	if err != nil {
		return fmt.Errorf("encode channels: %w", err)
	}

	now := time.Now()
	result, err := db.ExecContext(ctx,
		`UPDATE notification_schedules SET
            type = ?, day_of_week = ?, day_of_month = ?, hour = ?, minute = ?,
            enabled = ?, channels = ?, recipient_email = ?, description = ?, updated_at = ?
        WHERE id = ?`,
		s.Type, s.DayOfWeek, s.DayOfMonth, s.Hour, s.Minute,
		s.Enabled, string(channels), s.RecipientEmail, s.Description, now, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	s.UpdatedAt = now
	return nil
}

func (db *DB) DeleteSchedule(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM notification_schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) ListSchedules(ctx context.Context) ([]models.NotificationSchedule, error) {
	return db.listSchedules(ctx, `SELECT `+scheduleColumns+` FROM notification_schedules ORDER BY id`)
}

func (db *DB) ListEnabledSchedules(ctx context.Context) ([]models.NotificationSchedule, error) {
	return db.listSchedules(ctx, `SELECT `+scheduleColumns+` FROM notification_schedules WHERE enabled = 1 ORDER BY id`)
}

func (db *DB) listSchedules(ctx context.Context, query string) ([]models.NotificationSchedule, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.NotificationSchedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}
