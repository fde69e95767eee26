package importer

import "strings"

// Canonical field names produced by header resolution.
const (
	FieldCedula              = "cedula"
	FieldFirstName           = "first_name"
	FieldLastName            = "last_name"
	FieldFullName            = "full_name"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldAddress             = "address"
	FieldDepartment          = "department"
	FieldPosition            = "position"
	FieldSalary              = "salary"
	FieldHireDate            = "hire_date"
	FieldContractEnd         = "contract_end_date"
	FieldYear                = "year"
	FieldMonth               = "month"
	FieldBaseSalary          = "base_salary"
	FieldOvertime            = "overtime"
	FieldBonuses             = "bonuses"
	FieldFoodAllowance       = "food_allowance"
	FieldFoodAllowanceCharge = "food_allowance_charge"
	FieldOtherIncome         = "other_income"
	FieldIESS                = "iess_contribution"
	FieldIncomeTax           = "income_tax"
	FieldOtherDeductions     = "other_deductions"
	FieldNetPay              = "net_pay"
	FieldDate                = "date"
	FieldCheckIn             = "check_in"
	FieldCheckOut            = "check_out"
	FieldHoursWorked         = "hours_worked"
	FieldObservations        = "observations"
)

// headerSynonyms maps normalized header variants, as they show up in real
// payroll and clock exports, to canonical field names. Keys are stored in
// their NormalizeHeader form.
var headerSynonyms = map[string]string{
	// National ID
	"CEDULA":          FieldCedula,
	"CÉDULA":          FieldCedula,
	"CI":              FieldCedula,
	"NOCEDULA":        FieldCedula,
	"NUMERODECEDULA":  FieldCedula,
	"IDENTIFICACION":  FieldCedula,
	"DOCUMENTO":       FieldCedula,
	"CEDULAIDENTIDAD": FieldCedula,

	// Names
	"NOMBRE":            FieldFullName,
	"NOMBRES":           FieldFirstName,
	"NOMBRECOMPLETO":    FieldFullName,
	"EMPLEADO":          FieldFullName,
	"APELLIDOSYNOMBRES": FieldFullName,
	"NOMBREEMPLEADO":    FieldFullName,
	"APELLIDOS":         FieldLastName,
	"PRIMERNOMBRE":      FieldFirstName,

	// Contact / org
	"CORREO":              FieldEmail,
	"CORREOELECTRONICO":   FieldEmail,
	"EMAIL":               FieldEmail,
	"TELEFONO":            FieldPhone,
	"CELULAR":             FieldPhone,
	"DIRECCION":           FieldAddress,
	"DEPARTAMENTO":        FieldDepartment,
	"AREA":                FieldDepartment,
	"CARGO":               FieldPosition,
	"PUESTO":              FieldPosition,
	"FECHADEINGRESO":      FieldHireDate,
	"FECHAINGRESO":        FieldHireDate,
	"FINDECONTRATO":       FieldContractEnd,
	"FECHAFINCONTRATO":    FieldContractEnd,
	"VENCIMIENTOCONTRATO": FieldContractEnd,

	// Payroll period
	"ANIO":    FieldYear,
	"AÑO":     FieldYear,
	"PERIODO": FieldYear,
	"MES":     FieldMonth,

	// Payroll amounts
	"SUELDO":              FieldBaseSalary,
	"SUELDOBASE":          FieldBaseSalary,
	"SALARIO":             FieldBaseSalary,
	"REMUNERACION":        FieldBaseSalary,
	"SALARIOMENSUAL":      FieldSalary,
	"HORASEXTRAS":         FieldOvertime,
	"SOBRETIEMPO":         FieldOvertime,
	"HORASSUPLEMENTARIAS": FieldOvertime,
	"BONOS":               FieldBonuses,
	"BONIFICACIONES":      FieldBonuses,
	"COMISIONES":          FieldBonuses,
	"OTROSINGRESOS":       FieldOtherIncome,
	"APORTEIESS":          FieldIESS,
	"APORTEPERSONAL":      FieldIESS,
	"IESS":                FieldIESS,
	"IMPUESTORENTA":       FieldIncomeTax,
	"IMPUESTOALARENTA":    FieldIncomeTax,
	"RETENCIONRENTA":      FieldIncomeTax,
	"OTROSDESCUENTOS":     FieldOtherDeductions,
	"OTROSEGRESOS":        FieldOtherDeductions,
	"NETOAPAGAR":          FieldNetPay,
	"LIQUIDOARECIBIR":     FieldNetPay,
	"TOTALAPAGAR":         FieldNetPay,

	// Attendance
	"FECHA":            FieldDate,
	"DIA":              FieldDate,
	"FECHAMARCACION":   FieldDate,
	"FECHADEMARCACION": FieldDate,
	"ENTRADA":          FieldCheckIn,
	"HORAENTRADA":      FieldCheckIn,
	"MARCACIONENTRADA": FieldCheckIn,
	"SALIDA":           FieldCheckOut,
	"HORASALIDA":       FieldCheckOut,
	"MARCACIONSALIDA":  FieldCheckOut,
	"HORASTRABAJADAS":  FieldHoursWorked,
	"TOTALHORAS":       FieldHoursWorked,
	"OBSERVACIONES":    FieldObservations,
	"NOVEDADES":        FieldObservations,
}

// synonymTable is headerSynonyms with its own keys run through
// NormalizeHeader, so accented or spaced keys in the table above can never
// miss their normalized counterparts from a file.
var synonymTable = func() map[string]string {
	t := make(map[string]string, len(headerSynonyms))
	for k, v := range headerSynonyms {
		t[NormalizeHeader(k)] = v
	}
	return t
}()

// Tokens marking the deduction-side occurrence of the food allowance column,
// which shows up under the same header on both sides of payroll exports.
var deductionMarkers = []string{"DESCUENTO", "EGRESO", "GASTO"}

const foodAllowanceToken = "ALIMENTACION"

// ColumnIndexMap maps a canonical field to its 0-based column index.
// Absent fields are simply not present; Lookup returns -1 for them.
type ColumnIndexMap map[string]int

func (m ColumnIndexMap) Lookup(field string) int {
	if idx, ok := m[field]; ok {
		return idx
	}
	return -1
}

// ResolveColumns maps a header row onto canonical fields. The first pass is
// the name-based synonym lookup; the second handles the food-allowance pair,
// which cannot be told apart by name alone: the occurrence carrying a
// deduction marker (or the second occurrence when no marker is present) is
// the charge side, the other is income. When the layout gives no second
// occurrence the charge column is simply absent.
func ResolveColumns(headerRow []string) ColumnIndexMap {
	m := make(ColumnIndexMap)

	normalized := make([]string, len(headerRow))
	for i, h := range headerRow {
		normalized[i] = NormalizeHeader(h)
	}

	for i, h := range normalized {
		if field, ok := synonymTable[h]; ok {
			if _, taken := m[field]; !taken {
				m[field] = i
			}
		}
	}

	resolveFoodAllowance(normalized, m)
	return m
}

func resolveFoodAllowance(normalized []string, m ColumnIndexMap) {
	delete(m, FieldFoodAllowance)
	delete(m, FieldFoodAllowanceCharge)

	var plain []int
	for i, h := range normalized {
		if !strings.Contains(h, foodAllowanceToken) {
			continue
		}
		if hasDeductionMarker(h) {
			if _, taken := m[FieldFoodAllowanceCharge]; !taken {
				m[FieldFoodAllowanceCharge] = i
			}
			continue
		}
		plain = append(plain, i)
	}

	if len(plain) > 0 {
		m[FieldFoodAllowance] = plain[0]
	}
	if _, taken := m[FieldFoodAllowanceCharge]; !taken && len(plain) > 1 {
		// No marker anywhere: the second plain occurrence is the charge.
		m[FieldFoodAllowanceCharge] = plain[1]
	}
}

func hasDeductionMarker(h string) bool {
	for _, marker := range deductionMarkers {
		if strings.Contains(h, marker) {
			return true
		}
	}
	return false
}
