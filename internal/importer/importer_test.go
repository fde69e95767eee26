package importer

import (
	"context"
	"testing"

	"talento/internal/database"
	"talento/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) GetEmployeeByCedula(ctx context.Context, cedula string) (*models.Employee, error) {
	args := m.Called(ctx, cedula)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Employee), args.Error(1)
}

func (m *mockStore) CreateEmployee(ctx context.Context, e *models.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockStore) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockStore) GetDepartmentByName(ctx context.Context, name string) (*models.Department, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Department), args.Error(1)
}

func (m *mockStore) GetPositionByTitle(ctx context.Context, title string) (*models.Position, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Position), args.Error(1)
}

func (m *mockStore) ReplacePayrollLine(ctx context.Context, line *models.PayrollLine) (bool, error) {
	args := m.Called(ctx, line)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) ReplaceAttendanceLine(ctx context.Context, line *models.AttendanceLine) (bool, error) {
	args := m.Called(ctx, line)
	return args.Bool(0), args.Error(1)
}

func newTestImporter(store *mockStore) *Importer {
	logger := zerolog.Nop()
	return New(store, nil, nil, &logger)
}

func TestProcessFileUnknownKind(t *testing.T) {
	imp := newTestImporter(new(mockStore))
	_, err := imp.ProcessFile(context.Background(), []byte("a,b\n1,2\n"), "bogus")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestProcessFileNoDataRows(t *testing.T) {
	imp := newTestImporter(new(mockStore))
	_, err := imp.ProcessFile(context.Background(), []byte("CEDULA,NOMBRE\n"), models.ImportEmployees)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestProcessFileEmployeesCreateAndUpdate(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	// First row: unknown cedula, gets created. Second: known, gets updated.
	store.On("GetEmployeeByCedula", ctx, "0912345678").
		Return(nil, database.ErrEmployeeNotFound).Once()
	store.On("CreateEmployee", ctx, mock.MatchedBy(func(e *models.Employee) bool {
		return e.Cedula == "0912345678" && e.FirstName == "Maria" && e.LastName == "Perez" && e.Salary == 800
	})).Return(nil).Once()

	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(&models.Employee{ID: 7, Cedula: "1712345678", DepartmentID: 2}, nil).Once()
	store.On("UpdateEmployee", ctx, mock.MatchedBy(func(e *models.Employee) bool {
		return e.ID == 7 && e.DepartmentID == 2
	})).Return(nil).Once()

	csv := "CEDULA,NOMBRES,APELLIDOS,SUELDO\n" +
		"0912345678,Maria,Perez,800\n" +
		"1712345678,Juan,Andrade,950\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportEmployees)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)
	store.AssertExpectations(t)
}

func TestProcessFileEmployeesNineDigitCedulaPadded(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetEmployeeByCedula", ctx, "0912345678").
		Return(nil, database.ErrEmployeeNotFound).Once()
	store.On("CreateEmployee", ctx, mock.Anything).Return(nil).Once()

	csv := "CEDULA,NOMBRE\n912345678,Maria Perez\n"

	imp := newTestImporter(store)
	_, err := imp.ProcessFile(ctx, []byte(csv), models.ImportEmployees)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestProcessFileEmployeesResolvesDepartmentAndPosition(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetDepartmentByName", ctx, "Ventas").
		Return(&models.Department{ID: 4, Name: "Ventas"}, nil).Once()
	store.On("GetPositionByTitle", ctx, "Vendedor").
		Return(&models.Position{ID: 9, Title: "Vendedor"}, nil).Once()
	store.On("GetEmployeeByCedula", ctx, "0912345678").
		Return(nil, database.ErrEmployeeNotFound).Once()
	store.On("CreateEmployee", ctx, mock.MatchedBy(func(e *models.Employee) bool {
		return e.DepartmentID == 4 && e.PositionID == 9
	})).Return(nil).Once()

	csv := "CEDULA,NOMBRE,DEPARTAMENTO,CARGO\n0912345678,Maria Perez,Ventas,Vendedor\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportEmployees)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	store.AssertExpectations(t)
}

func TestProcessFileEmployeesUnknownDepartmentLeavesAssignment(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetDepartmentByName", ctx, "Inventado").
		Return(nil, database.ErrNotFound).Once()
	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(&models.Employee{ID: 7, Cedula: "1712345678", DepartmentID: 2, PositionID: 5}, nil).Once()
	store.On("UpdateEmployee", ctx, mock.MatchedBy(func(e *models.Employee) bool {
		return e.DepartmentID == 2 && e.PositionID == 5
	})).Return(nil).Once()

	csv := "CEDULA,NOMBRE,DEPARTAMENTO\n1712345678,Juan Andrade,Inventado\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportEmployees)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)
	store.AssertExpectations(t)
}

func TestProcessFilePayroll(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(&models.Employee{ID: 3, Cedula: "1712345678"}, nil).Twice()
	// First period is new, second replaces an existing line.
	store.On("ReplacePayrollLine", ctx, mock.MatchedBy(func(l *models.PayrollLine) bool {
		return l.EmployeeID == 3 && l.Year == 2024 && l.Month == 1 && l.BaseSalary == 1200.50
	})).Return(false, nil).Once()
	store.On("ReplacePayrollLine", ctx, mock.MatchedBy(func(l *models.PayrollLine) bool {
		return l.Year == 2024 && l.Month == 2
	})).Return(true, nil).Once()

	csv := "CEDULA,NOMBRE,AÑO,MES,SUELDO,APORTE IESS\n" +
		"1712345678,Juan Andrade,2024,1,\"1.200,50\",113\n" +
		"1712345678,Juan Andrade,2024,2,1250,118\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportPayroll)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, result.Processed, result.Created+result.Updated)
	store.AssertExpectations(t)
}

func TestProcessFilePayrollEmployeeNotFound(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(nil, database.ErrEmployeeNotFound).Once()

	csv := "CEDULA,NOMBRE,AÑO,MES\n1712345678,Juan Andrade,2024,1\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportPayroll)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	require.Len(t, result.NotFoundEmployees, 1)
	assert.Equal(t, 2, result.NotFoundEmployees[0].Row)
	assert.Equal(t, "1712345678", result.NotFoundEmployees[0].Cedula)
	assert.Equal(t, "Juan Andrade", result.NotFoundEmployees[0].Name)
	// A not-found row lands in the error list too.
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	store.AssertExpectations(t)
}

func TestProcessFilePayrollMissingFields(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	csv := "CEDULA,NOMBRE,AÑO,MES\n,Juan Andrade,2024,\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportPayroll)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "cedula")
	assert.Contains(t, result.Errors[0].Error, "month")
	store.AssertNotCalled(t, "ReplacePayrollLine", mock.Anything, mock.Anything)
}

func TestProcessFilePayrollBadRowDoesNotAbortBatch(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(&models.Employee{ID: 3}, nil).Once()
	store.On("ReplacePayrollLine", ctx, mock.Anything).Return(false, nil).Once()

	csv := "CEDULA,NOMBRE,AÑO,MES\n" +
		",Sin Cedula,2024,1\n" +
		"1712345678,Juan Andrade,2024,1\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportPayroll)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	store.AssertExpectations(t)
}

func TestProcessFileAttendance(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(&models.Employee{ID: 3}, nil).Once()
	store.On("ReplaceAttendanceLine", ctx, mock.MatchedBy(func(l *models.AttendanceLine) bool {
		return l.EmployeeID == 3 && l.Date == "2024-03-15" && l.CheckIn == "08:05" && l.CheckOut == "17:02"
	})).Return(false, nil).Once()

	csv := "CEDULA,NOMBRE,FECHA,ENTRADA,SALIDA,HORAS TRABAJADAS\n" +
		"1712345678,Juan Andrade,15/03/2024,08:05,17:02,8.5\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportAttendance)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 1, result.Created)
	store.AssertExpectations(t)
}

func TestProcessFileAttendanceInvalidDate(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	csv := "CEDULA,NOMBRE,FECHA\n1712345678,Juan Andrade,40/40/2024\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportAttendance)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Processed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error, "invalid date")
}

func TestProcessFileSkipsBlankRows(t *testing.T) {
	store := new(mockStore)
	ctx := context.Background()

	store.On("GetEmployeeByCedula", ctx, "1712345678").
		Return(&models.Employee{ID: 3}, nil).Once()
	store.On("ReplacePayrollLine", ctx, mock.Anything).Return(false, nil).Once()

	csv := "CEDULA,NOMBRE,AÑO,MES\n" +
		",,,\n" +
		"1712345678,Juan Andrade,2024,1\n"

	imp := newTestImporter(store)
	result, err := imp.ProcessFile(ctx, []byte(csv), models.ImportPayroll)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Processed)
	assert.Empty(t, result.Errors)
}
