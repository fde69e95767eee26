package models

import "time"

// NotificationSchedule is a persisted recurrence definition. DayOfWeek wins
// over DayOfMonth; when both are empty the schedule fires daily.
type NotificationSchedule struct {
	ID             int64     `json:"id"`
	Type           string    `json:"type"`
	DayOfWeek      string    `json:"day_of_week,omitempty"`
	DayOfMonth     int       `json:"day_of_month,omitempty"`
	Hour           int       `json:"hour"`
	Minute         int       `json:"minute"`
	Enabled        bool      `json:"enabled"`
	Channels       []string  `json:"channels"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NotificationPayload is the unit handed to a channel backend. Not persisted.
type NotificationPayload struct {
	To      string            `json:"to"`
	Subject string            `json:"subject,omitempty"`
	Title   string            `json:"title"`
	Message string            `json:"message"`
	Data    map[string]string `json:"data,omitempty"`
}

// Notification is an in-app notification row.
type Notification struct {
	ID        int64     `json:"id"`
	Recipient string    `json:"recipient"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationDelivery records one channel attempt for a notification.
type NotificationDelivery struct {
	ID             int64     `json:"id"`
	NotificationID int64     `json:"notification_id"`
	Channel        string    `json:"channel"`
	Success        bool      `json:"success"`
	CreatedAt      time.Time `json:"created_at"`
}

// RowError ties a 1-based source row to a human-readable import error.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// NotFoundEmployee marks a payroll/attendance row whose cedula resolved to
// no employee in the directory.
type NotFoundEmployee struct {
	Row    int    `json:"row"`
	Cedula string `json:"cedula"`
	Name   string `json:"name"`
}

// ImportResult is the per-file report returned by the importer. Invariant:
// Processed == Created + Updated, and every data row lands either in a
// success count or in Errors (not-found rows appear in both lists).
type ImportResult struct {
	Kind              string             `json:"kind"`
	Processed         int                `json:"processed"`
	Created           int                `json:"created"`
	Updated           int                `json:"updated"`
	Errors            []RowError         `json:"errors"`
	NotFoundEmployees []NotFoundEmployee `json:"not_found_employees,omitempty"`
	StartedAt         time.Time          `json:"started_at"`
	FinishedAt        time.Time          `json:"finished_at"`
}

func (r *ImportResult) AddError(row int, msg string) {
	r.Errors = append(r.Errors, RowError{Row: row, Error: msg})
}
