package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"talento/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Store is the slice of the database the exporter reads from.
type Store interface {
	ListPayrollPeriod(ctx context.Context, year, month int) ([]models.PayrollLine, error)
	GetPayrollSummary(ctx context.Context, year, month int) (*models.PayrollSummary, error)
	ListEmployees(ctx context.Context, status string) ([]models.Employee, error)
}

// Exporter writes XLSX reports into a configured directory.
type Exporter struct {
	store  Store
	path   string
	logger *zerolog.Logger
}

func NewExporter(store Store, path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{store: store, path: path, logger: logger}
}

var payrollHeaders = []string{
	"Cédula", "Empleado", "Sueldo base", "Horas extras", "Bonos",
	"Alimentación", "Otros ingresos", "Aporte IESS", "Impuesto renta",
	"Desc. alimentación", "Otros descuentos", "Neto a pagar",
}

// ExportPayrollPeriod writes one period's payroll to an XLSX file and
// returns its path.
func (e *Exporter) ExportPayrollPeriod(ctx context.Context, year, month int) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	lines, err := e.store.ListPayrollPeriod(ctx, year, month)
	if err != nil {
		return "", fmt.Errorf("list payroll: %w", err)
	}
	summary, err := e.store.GetPayrollSummary(ctx, year, month)
	if err != nil {
		return "", fmt.Errorf("payroll summary: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Nómina"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Nómina %d-%02d", year, month))
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastCol, _ := excelize.ColumnNumberToName(len(payrollHeaders))
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range payrollHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 3
	for _, line := range lines {
		values := []interface{}{
			line.Cedula, line.EmployeeName, line.BaseSalary, line.Overtime,
			line.Bonuses, line.FoodAllowance, line.OtherIncome,
			line.IESSContribution, line.IncomeTax, line.FoodAllowanceCharge,
			line.OtherDeductions, line.NetPay,
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		row++
	}

	totalStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	totalCell, _ := excelize.CoordinatesToCellName(1, row+1)
	_ = f.SetCellValue(sheetName, totalCell,
		fmt.Sprintf("Total: %d empleados, neto $%.2f", summary.Employees, summary.TotalNetPay))
	_ = f.SetCellStyle(sheetName, totalCell, totalCell, totalStyle)

	_ = f.SetColWidth(sheetName, "A", "B", 25)
	_ = f.SetColWidth(sheetName, "C", lastCol, 16)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("nomina_%d-%02d.xlsx", year, month)
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(lines)).Msg("payroll export created")
	return filePath, nil
}

var employeeHeaders = []string{
	"Cédula", "Nombres", "Apellidos", "Correo", "Teléfono",
	"Fecha de ingreso", "Fin de contrato", "Salario", "Estado",
}

// ExportEmployees writes the employee directory to an XLSX file. An empty
// status exports everyone.
func (e *Exporter) ExportEmployees(ctx context.Context, status string) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	employees, err := e.store.ListEmployees(ctx, status)
	if err != nil {
		return "", fmt.Errorf("list employees: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Empleados"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range employeeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, emp := range employees {
		values := []interface{}{
			emp.Cedula, emp.FirstName, emp.LastName, emp.Email, emp.Phone,
			emp.HireDate, emp.ContractEndDate, emp.Salary, emp.Status,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(employeeHeaders))
	_ = f.SetColWidth(sheetName, "A", lastCol, 20)
	_ = f.DeleteSheet("Sheet1")

	filePath := filepath.Join(e.path, "empleados.xlsx")
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}

	e.logger.Info().Str("file_path", filePath).Int("rows", len(employees)).Msg("employee export created")
	return filePath, nil
}
