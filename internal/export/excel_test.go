package export

import (
	"context"
	"path/filepath"
	"testing"

	"talento/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeStore struct {
	lines     []models.PayrollLine
	summary   *models.PayrollSummary
	employees []models.Employee
}

func (s *fakeStore) ListPayrollPeriod(ctx context.Context, year, month int) ([]models.PayrollLine, error) {
	return s.lines, nil
}

func (s *fakeStore) GetPayrollSummary(ctx context.Context, year, month int) (*models.PayrollSummary, error) {
	return s.summary, nil
}

func (s *fakeStore) ListEmployees(ctx context.Context, status string) ([]models.Employee, error) {
	return s.employees, nil
}

func TestExportPayrollPeriod(t *testing.T) {
	store := &fakeStore{
		lines: []models.PayrollLine{
			{
				Cedula: "1712345678", EmployeeName: "Juan Andrade",
				BaseSalary: 800, IESSContribution: 75.6, NetPay: 724.4,
			},
		},
		summary: &models.PayrollSummary{Employees: 1, TotalNetPay: 724.4},
	}
	logger := zerolog.Nop()
	exporter := NewExporter(store, t.TempDir(), &logger)

	path, err := exporter.ExportPayrollPeriod(context.Background(), 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "nomina_2024-03.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Nómina", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Nómina 2024-03", title)

	header, err := f.GetCellValue("Nómina", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Cédula", header)

	cedula, err := f.GetCellValue("Nómina", "A3")
	require.NoError(t, err)
	assert.Equal(t, "1712345678", cedula)

	name, err := f.GetCellValue("Nómina", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Juan Andrade", name)
}

func TestExportEmployees(t *testing.T) {
	store := &fakeStore{
		employees: []models.Employee{
			{Cedula: "1712345678", FirstName: "Juan", LastName: "Andrade", Salary: 800, Status: models.StatusActive},
			{Cedula: "0912345678", FirstName: "Maria", LastName: "Perez", Salary: 950, Status: models.StatusActive},
		},
	}
	logger := zerolog.Nop()
	exporter := NewExporter(store, t.TempDir(), &logger)

	path, err := exporter.ExportEmployees(context.Background(), models.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, "empleados.xlsx", filepath.Base(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Empleados")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Cédula", rows[0][0])
	assert.Equal(t, "Juan", rows[1][1])
	assert.Equal(t, "Maria", rows[2][1])
}
