package models

import "time"

// PayrollLine is one employee's payroll record for a (year, month) period.
// The store enforces uniqueness on (employee_id, year, month).
type PayrollLine struct {
	ID                  int64     `json:"id"`
	EmployeeID          int64     `json:"employee_id"`
	Cedula              string    `json:"cedula"`
	EmployeeName        string    `json:"employee_name"`
	Year                int       `json:"year"`
	Month               int       `json:"month"`
	BaseSalary          float64   `json:"base_salary"`
	Overtime            float64   `json:"overtime"`
	Bonuses             float64   `json:"bonuses"`
	FoodAllowance       float64   `json:"food_allowance"`
	OtherIncome         float64   `json:"other_income"`
	IESSContribution    float64   `json:"iess_contribution"`
	IncomeTax           float64   `json:"income_tax"`
	FoodAllowanceCharge float64   `json:"food_allowance_charge"`
	OtherDeductions     float64   `json:"other_deductions"`
	NetPay              float64   `json:"net_pay"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TotalIncome sums the income side of the line.
func (p *PayrollLine) TotalIncome() float64 {
	return p.BaseSalary + p.Overtime + p.Bonuses + p.FoodAllowance + p.OtherIncome
}

// TotalDeductions sums the deduction side of the line.
func (p *PayrollLine) TotalDeductions() float64 {
	return p.IESSContribution + p.IncomeTax + p.FoodAllowanceCharge + p.OtherDeductions
}

// PayrollSummary aggregates a period for reports and notifications.
type PayrollSummary struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Employees       int     `json:"employees"`
	TotalIncome     float64 `json:"total_income"`
	TotalDeductions float64 `json:"total_deductions"`
	TotalNetPay     float64 `json:"total_net_pay"`
}

// AttendanceLine is one clock record ("marcación") per employee per day.
// The store enforces uniqueness on (employee_id, date).
type AttendanceLine struct {
	ID           int64     `json:"id"`
	EmployeeID   int64     `json:"employee_id"`
	Cedula       string    `json:"cedula"`
	EmployeeName string    `json:"employee_name"`
	Date         string    `json:"date"`
	CheckIn      string    `json:"check_in,omitempty"`
	CheckOut     string    `json:"check_out,omitempty"`
	HoursWorked  float64   `json:"hours_worked"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
