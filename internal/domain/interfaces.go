package domain

import (
	"context"
	"time"

	"talento/internal/models"
)

// ImportStore is the slice of the store the bulk importer writes through.
type ImportStore interface {
	GetEmployeeByCedula(ctx context.Context, cedula string) (*models.Employee, error)
	CreateEmployee(ctx context.Context, e *models.Employee) error
	UpdateEmployee(ctx context.Context, e *models.Employee) error
	GetDepartmentByName(ctx context.Context, name string) (*models.Department, error)
	GetPositionByTitle(ctx context.Context, title string) (*models.Position, error)
	ReplacePayrollLine(ctx context.Context, line *models.PayrollLine) (replaced bool, err error)
	ReplaceAttendanceLine(ctx context.Context, line *models.AttendanceLine) (replaced bool, err error)
}

// ScheduleStore is what the scheduler needs to derive triggers and payloads.
type ScheduleStore interface {
	GetSchedule(ctx context.Context, id int64) (*models.NotificationSchedule, error)
	ListEnabledSchedules(ctx context.Context) ([]models.NotificationSchedule, error)
	GetPayrollSummary(ctx context.Context, year, month int) (*models.PayrollSummary, error)
	ListPendingLeaves(ctx context.Context) ([]models.Leave, error)
	ListExpiringContracts(ctx context.Context, within time.Duration) ([]models.Employee, error)
	CountMissingAttendance(ctx context.Context, date string) (int, error)
}

// Channel is one notification backend. Send never returns an error: internal
// failures are logged and reported as false.
type Channel interface {
	Name() string
	IsConfigured() bool
	Send(ctx context.Context, payload *models.NotificationPayload) bool
}

// Dispatcher fans a payload out over named channels.
type Dispatcher interface {
	SendVia(ctx context.Context, channel string, payload *models.NotificationPayload) bool
	SendViaAll(ctx context.Context, channels []string, payload *models.NotificationPayload) map[string]bool
}

// BenefitRepository holds benefit records. The default implementation is
// process-memory only; swapping in a persistent one must not touch callers.
type BenefitRepository interface {
	ListByEmployee(ctx context.Context, employeeID int64) ([]models.Benefit, error)
	Save(ctx context.Context, benefit *models.Benefit) error
	Delete(ctx context.Context, id int64) error
}

// ImportResultCache keeps the last report per import kind so the SPA can
// re-fetch it after upload.
type ImportResultCache interface {
	SetLastResult(ctx context.Context, kind string, result *models.ImportResult) error
	GetLastResult(ctx context.Context, kind string) (*models.ImportResult, error)
}

// EventPublisher mirrors the in-process event bus surface.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}
