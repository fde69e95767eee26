package database

import (
	"context"
	"fmt"
	"time"

	"talento/internal/models"
)

func (db *DB) CreateNotification(ctx context.Context, n *models.Notification) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO notifications (recipient, title, message, read, created_at) VALUES (?, ?, ?, 0, ?)`,
		n.Recipient, n.Title, n.Message, now,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	n.ID = id
	n.CreatedAt = now
	return nil
}

func (db *DB) CreateNotificationDelivery(ctx context.Context, d *models.NotificationDelivery) error {
	now := time.Now()
	result, err := db.ExecContext(ctx,
		`INSERT INTO notification_deliveries (notification_id, channel, success, created_at) VALUES (?, ?, ?, ?)`,
		d.NotificationID, d.Channel, d.Success, now,
	)
	if err != nil {
		return fmt.Errorf("create notification delivery: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	d.ID = id
	d.CreatedAt = now
	return nil
}

func (db *DB) ListNotifications(ctx context.Context, recipient string, unreadOnly bool) ([]models.Notification, error) {
	query := `SELECT id, recipient, title, COALESCE(message, ''), read, created_at FROM notifications WHERE recipient = ?`
	args := []any{recipient}
	if unreadOnly {
		query += ` AND read = 0`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.Recipient, &n.Title, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (db *DB) MarkNotificationRead(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `UPDATE notifications SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
