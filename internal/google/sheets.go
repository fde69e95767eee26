package google

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"talento/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsService mirrors payroll data to a shared Google spreadsheet, which
// is how accounting reads the numbers without API access.
type SheetsService struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsService(credentialsFile, spreadsheetID string) (*SheetsService, error) {
	ctx := context.Background()

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	return &SheetsService{service: srv, spreadsheetID: spreadsheetID}, nil
}

// TestConnection reads one cell to verify credentials and sharing.
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, "Nomina!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail extracts the account email from the credentials
// file, for sharing instructions.
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}
	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// UpdatePayrollSheet overwrites the Nomina sheet with one period's lines.
func (s *SheetsService) UpdatePayrollSheet(ctx context.Context, year, month int, lines []models.PayrollLine) error {
	values := [][]interface{}{
		{"Período", fmt.Sprintf("%d-%02d", year, month)},
		{"Cédula", "Empleado", "Sueldo base", "Horas extras", "Bonos", "Alimentación",
			"Otros ingresos", "Aporte IESS", "Impuesto renta", "Desc. alimentación",
			"Otros descuentos", "Neto a pagar"},
	}

	for _, line := range lines {
		values = append(values, []interface{}{
			line.Cedula,
			line.EmployeeName,
			line.BaseSalary,
			line.Overtime,
			line.Bonuses,
			line.FoodAllowance,
			line.OtherIncome,
			line.IESSContribution,
			line.IncomeTax,
			line.FoodAllowanceCharge,
			line.OtherDeductions,
			line.NetPay,
		})
	}

	rangeData := fmt.Sprintf("Nomina!A1:L%d", len(values))
	valueRange := &sheets.ValueRange{Values: values}

	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// AppendImportSummary logs one import run to the Importaciones sheet.
func (s *SheetsService) AppendImportSummary(ctx context.Context, result *models.ImportResult) error {
	row := []interface{}{
		result.FinishedAt.Format("2006-01-02 15:04:05"),
		result.Kind,
		result.Processed,
		result.Created,
		result.Updated,
		len(result.Errors),
	}

	valueRange := &sheets.ValueRange{Values: [][]interface{}{row}}

	_, err := s.service.Spreadsheets.Values.Append(s.spreadsheetID, "Importaciones!A:A", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
