package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"talento/internal/database"
	"talento/internal/domain"
	"talento/internal/events"
	"talento/internal/metrics"
	"talento/internal/models"

	"github.com/rs/zerolog"
)

// Batch-level failures abort the whole import; everything else is row-scoped.
var (
	ErrUnknownKind = errors.New("unknown import kind")
	ErrNoDataRows  = errors.New("file has no data rows")
)

type Importer struct {
	store  domain.ImportStore
	cache  domain.ImportResultCache
	events domain.EventPublisher
	logger *zerolog.Logger
}

func New(store domain.ImportStore, cache domain.ImportResultCache, events domain.EventPublisher, logger *zerolog.Logger) *Importer {
	return &Importer{store: store, cache: cache, events: events, logger: logger}
}

// ProcessFile runs a bulk import of the declared kind over raw CSV/XLSX
// bytes. Rows are processed in file order; a bad row is recorded and skipped,
// never aborting the batch. Only an unreadable file or a file with no data
// rows fails the operation as a whole.
func (im *Importer) ProcessFile(ctx context.Context, data []byte, kind string) (*models.ImportResult, error) {
	if !models.ValidImportKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	rows, err := ReadTable(data)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNoDataRows
	}

	columns := ResolveColumns(rows[0])
	result := &models.ImportResult{Kind: kind, StartedAt: time.Now()}

	for i, row := range rows[1:] {
		// 1-based row number counting the header row, matching what the
		// user sees in their spreadsheet.
		rowNum := i + 2
		if emptyRow(row) {
			continue
		}

		var rowErr error
		switch kind {
		case models.ImportEmployees:
			rowErr = im.importEmployeeRow(ctx, row, columns, result)
		case models.ImportPayroll:
			rowErr = im.importPayrollRow(ctx, rowNum, row, columns, result)
		case models.ImportAttendance:
			rowErr = im.importAttendanceRow(ctx, rowNum, row, columns, result)
		}

		if rowErr != nil {
			result.AddError(rowNum, rowErr.Error())
			metrics.IncImportRows(kind, "error")
			continue
		}
		metrics.IncImportRows(kind, "ok")
	}

	result.FinishedAt = time.Now()

	im.logger.Info().
		Str("kind", kind).
		Int("processed", result.Processed).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("import finished")

	if im.cache != nil {
		if err := im.cache.SetLastResult(ctx, kind, result); err != nil {
			im.logger.Warn().Err(err).Str("kind", kind).Msg("cache import result")
		}
	}
	if im.events != nil {
		if err := im.events.PublishJSON(events.EventImportCompleted, result); err != nil {
			im.logger.Warn().Err(err).Msg("publish import event")
		}
	}

	return result, nil
}

func (im *Importer) importEmployeeRow(ctx context.Context, row []string, columns ColumnIndexMap, result *models.ImportResult) error {
	cedula := NormalizeCedula(cell(row, columns.Lookup(FieldCedula)))
	firstName, lastName := splitName(row, columns)

	var missing []string
	if cedula == "" {
		missing = append(missing, FieldCedula)
	}
	if firstName == "" && lastName == "" {
		missing = append(missing, FieldFullName)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	// Employee files label the salary column the same way payroll files do.
	salaryRaw := cell(row, columns.Lookup(FieldSalary))
	if salaryRaw == "" {
		salaryRaw = cell(row, columns.Lookup(FieldBaseSalary))
	}

	e := &models.Employee{
		Cedula:    cedula,
		FirstName: firstName,
		LastName:  lastName,
		Email:     cell(row, columns.Lookup(FieldEmail)),
		Phone:     cell(row, columns.Lookup(FieldPhone)),
		Address:   cell(row, columns.Lookup(FieldAddress)),
		Salary:    ParseAmount(salaryRaw),
		Status:    models.StatusActive,
	}
	if raw := cell(row, columns.Lookup(FieldHireDate)); raw != "" {
		if d, err := NormalizeDate(raw); err == nil {
			e.HireDate = d
		}
	}
	if raw := cell(row, columns.Lookup(FieldContractEnd)); raw != "" {
		if d, err := NormalizeDate(raw); err == nil {
			e.ContractEndDate = d
		}
	}

	// Department and position columns carry names; unknown names leave the
	// assignment untouched rather than failing the row.
	if name := cell(row, columns.Lookup(FieldDepartment)); name != "" {
		if dep, err := im.store.GetDepartmentByName(ctx, name); err == nil {
			e.DepartmentID = dep.ID
		}
	}
	if title := cell(row, columns.Lookup(FieldPosition)); title != "" {
		if pos, err := im.store.GetPositionByTitle(ctx, title); err == nil {
			e.PositionID = pos.ID
		}
	}

	existing, err := im.store.GetEmployeeByCedula(ctx, cedula)
	switch {
	case err == nil:
		e.ID = existing.ID
		if e.DepartmentID == 0 {
			e.DepartmentID = existing.DepartmentID
		}
		if e.PositionID == 0 {
			e.PositionID = existing.PositionID
		}
		if err := im.store.UpdateEmployee(ctx, e); err != nil {
			return fmt.Errorf("update employee: %v", err)
		}
		result.Processed++
		result.Updated++
	case errors.Is(err, database.ErrEmployeeNotFound):
		if err := im.store.CreateEmployee(ctx, e); err != nil {
			return fmt.Errorf("create employee: %v", err)
		}
		result.Processed++
		result.Created++
	default:
		return fmt.Errorf("lookup employee: %v", err)
	}
	return nil
}

func (im *Importer) importPayrollRow(ctx context.Context, rowNum int, row []string, columns ColumnIndexMap, result *models.ImportResult) error {
	cedula := NormalizeCedula(cell(row, columns.Lookup(FieldCedula)))
	name := fullName(row, columns)
	year := ParseInt(cell(row, columns.Lookup(FieldYear)))
	month := ParseInt(cell(row, columns.Lookup(FieldMonth)))

	var missing []string
	if name == "" {
		missing = append(missing, FieldFullName)
	}
	if cedula == "" {
		missing = append(missing, FieldCedula)
	}
	if year == 0 {
		missing = append(missing, FieldYear)
	}
	if month == 0 {
		missing = append(missing, FieldMonth)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	employee, err := im.store.GetEmployeeByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, database.ErrEmployeeNotFound) {
			result.NotFoundEmployees = append(result.NotFoundEmployees,
				models.NotFoundEmployee{Row: rowNum, Cedula: cedula, Name: name})
			return fmt.Errorf("employee with cedula %s not found", cedula)
		}
		return fmt.Errorf("lookup employee: %v", err)
	}

	line := &models.PayrollLine{
		EmployeeID:          employee.ID,
		Year:                year,
		Month:               month,
		BaseSalary:          ParseAmount(cell(row, columns.Lookup(FieldBaseSalary))),
		Overtime:            ParseAmount(cell(row, columns.Lookup(FieldOvertime))),
		Bonuses:             ParseAmount(cell(row, columns.Lookup(FieldBonuses))),
		FoodAllowance:       ParseAmount(cell(row, columns.Lookup(FieldFoodAllowance))),
		OtherIncome:         ParseAmount(cell(row, columns.Lookup(FieldOtherIncome))),
		IESSContribution:    ParseAmount(cell(row, columns.Lookup(FieldIESS))),
		IncomeTax:           ParseAmount(cell(row, columns.Lookup(FieldIncomeTax))),
		FoodAllowanceCharge: ParseAmount(cell(row, columns.Lookup(FieldFoodAllowanceCharge))),
		OtherDeductions:     ParseAmount(cell(row, columns.Lookup(FieldOtherDeductions))),
	}
	if raw := cell(row, columns.Lookup(FieldNetPay)); raw != "" {
		line.NetPay = ParseAmount(raw)
	} else {
		line.NetPay = line.TotalIncome() - line.TotalDeductions()
	}

	replaced, err := im.store.ReplacePayrollLine(ctx, line)
	if err != nil {
		return fmt.Errorf("persist payroll line: %v", err)
	}
	result.Processed++
	if replaced {
		result.Updated++
	} else {
		result.Created++
	}
	return nil
}

func (im *Importer) importAttendanceRow(ctx context.Context, rowNum int, row []string, columns ColumnIndexMap, result *models.ImportResult) error {
	cedula := NormalizeCedula(cell(row, columns.Lookup(FieldCedula)))
	name := fullName(row, columns)
	rawDate := cell(row, columns.Lookup(FieldDate))

	var missing []string
	if name == "" {
		missing = append(missing, FieldFullName)
	}
	if cedula == "" {
		missing = append(missing, FieldCedula)
	}
	if rawDate == "" {
		missing = append(missing, FieldDate)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	date, err := NormalizeDate(rawDate)
	if err != nil {
		return fmt.Errorf("invalid date: %v", err)
	}

	employee, err := im.store.GetEmployeeByCedula(ctx, cedula)
	if err != nil {
		if errors.Is(err, database.ErrEmployeeNotFound) {
			result.NotFoundEmployees = append(result.NotFoundEmployees,
				models.NotFoundEmployee{Row: rowNum, Cedula: cedula, Name: name})
			return fmt.Errorf("employee with cedula %s not found", cedula)
		}
		return fmt.Errorf("lookup employee: %v", err)
	}

	line := &models.AttendanceLine{
		EmployeeID:   employee.ID,
		Date:         date,
		CheckIn:      cell(row, columns.Lookup(FieldCheckIn)),
		CheckOut:     cell(row, columns.Lookup(FieldCheckOut)),
		HoursWorked:  ParseAmount(cell(row, columns.Lookup(FieldHoursWorked))),
		Observations: cell(row, columns.Lookup(FieldObservations)),
	}

	replaced, err := im.store.ReplaceAttendanceLine(ctx, line)
	if err != nil {
		return fmt.Errorf("persist attendance line: %v", err)
	}
	result.Processed++
	if replaced {
		result.Updated++
	} else {
		result.Created++
	}
	return nil
}

// cell reads a column by index, tolerating short rows and a -1 index from an
// unresolved column.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func fullName(row []string, columns ColumnIndexMap) string {
	if name := cell(row, columns.Lookup(FieldFullName)); name != "" {
		return name
	}
	first := cell(row, columns.Lookup(FieldFirstName))
	last := cell(row, columns.Lookup(FieldLastName))
	return strings.TrimSpace(first + " " + last)
}

// splitName prefers explicit first/last columns and falls back to splitting
// a combined name column down the middle.
func splitName(row []string, columns ColumnIndexMap) (string, string) {
	first := cell(row, columns.Lookup(FieldFirstName))
	last := cell(row, columns.Lookup(FieldLastName))
	if first != "" || last != "" {
		return first, last
	}

	full := cell(row, columns.Lookup(FieldFullName))
	if full == "" {
		return "", ""
	}
	parts := strings.Fields(full)
	if len(parts) == 1 {
		return parts[0], ""
	}
	half := len(parts) / 2
	return strings.Join(parts[:half], " "), strings.Join(parts[half:], " ")
}
