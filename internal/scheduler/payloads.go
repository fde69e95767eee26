package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"talento/internal/domain"
	"talento/internal/models"
)

// BuildPayload assembles the notification content for a schedule type from
// live store data. Called at fire time, never ahead of it. The recipient is
// the schedule's address, or defaultRecipient when the schedule has none.
func BuildPayload(ctx context.Context, store domain.ScheduleStore, schedule *models.NotificationSchedule, defaultRecipient string) (*models.NotificationPayload, error) {
	var payload *models.NotificationPayload
	var err error

	switch schedule.Type {
	case models.ScheduleTypePayroll:
		payload, err = payrollPayload(ctx, store)
	case models.ScheduleTypeLeaves:
		payload, err = leavesPayload(ctx, store)
	case models.ScheduleTypeAttendance:
		payload, err = attendancePayload(ctx, store)
	case models.ScheduleTypeContractExpiry:
		payload, err = contractExpiryPayload(ctx, store)
	default:
		return nil, fmt.Errorf("unknown schedule type %q", schedule.Type)
	}
	if err != nil {
		return nil, err
	}

	payload.To = schedule.RecipientEmail
	if payload.To == "" {
		payload.To = defaultRecipient
	}
	return payload, nil
}

// payrollPayload summarizes the previous month, which is the period being
// closed when a payroll reminder fires.
func payrollPayload(ctx context.Context, store domain.ScheduleStore) (*models.NotificationPayload, error) {
	prev := time.Now().AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	summary, err := store.GetPayrollSummary(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("payroll summary %d-%02d: %w", year, month, err)
	}

	return &models.NotificationPayload{
		Subject: fmt.Sprintf("Resumen de nómina %d-%02d", year, month),
		Title:   "Resumen de nómina",
		Message: fmt.Sprintf("Período %d-%02d: %d empleados, ingresos $%.2f, descuentos $%.2f, neto $%.2f.",
			year, month, summary.Employees, summary.TotalIncome, summary.TotalDeductions, summary.TotalNetPay),
		Data: map[string]string{
			"year":      strconv.Itoa(year),
			"month":     strconv.Itoa(month),
			"employees": strconv.Itoa(summary.Employees),
			"net_pay":   fmt.Sprintf("%.2f", summary.TotalNetPay),
		},
	}, nil
}

func leavesPayload(ctx context.Context, store domain.ScheduleStore) (*models.NotificationPayload, error) {
	leaves, err := store.ListPendingLeaves(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending leaves: %w", err)
	}

	message := "No hay solicitudes de permiso pendientes."
	if len(leaves) > 0 {
		message = fmt.Sprintf("Hay %d solicitudes de permiso pendientes de aprobación.", len(leaves))
	}

	return &models.NotificationPayload{
		Subject: "Permisos pendientes",
		Title:   "Permisos pendientes",
		Message: message,
		Data:    map[string]string{"pending": strconv.Itoa(len(leaves))},
	}, nil
}

func attendancePayload(ctx context.Context, store domain.ScheduleStore) (*models.NotificationPayload, error) {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	missing, err := store.CountMissingAttendance(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("missing attendance %s: %w", yesterday, err)
	}

	message := fmt.Sprintf("Todas las marcaciones del %s están registradas.", yesterday)
	if missing > 0 {
		message = fmt.Sprintf("%d empleados activos sin marcación registrada el %s.", missing, yesterday)
	}

	return &models.NotificationPayload{
		Subject: "Control de asistencia",
		Title:   "Control de asistencia",
		Message: message,
		Data:    map[string]string{"date": yesterday, "missing": strconv.Itoa(missing)},
	}, nil
}

func contractExpiryPayload(ctx context.Context, store domain.ScheduleStore) (*models.NotificationPayload, error) {
	window := models.ContractExpiryWindowDays * 24 * time.Hour

	expiring, err := store.ListExpiringContracts(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("expiring contracts: %w", err)
	}

	message := fmt.Sprintf("Ningún contrato vence en los próximos %d días.", models.ContractExpiryWindowDays)
	data := map[string]string{"expiring": strconv.Itoa(len(expiring))}
	if len(expiring) > 0 {
		message = fmt.Sprintf("%d contratos vencen en los próximos %d días:", len(expiring), models.ContractExpiryWindowDays)
		for _, e := range expiring {
			message += fmt.Sprintf("\n- %s (%s), vence %s", e.FullName(), e.Cedula, e.ContractEndDate)
		}
	}

	return &models.NotificationPayload{
		Subject: "Contratos por vencer",
		Title:   "Contratos por vencer",
		Message: message,
		Data:    data,
	}, nil
}
