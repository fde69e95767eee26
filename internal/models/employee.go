package models

import "time"

type Employee struct {
	ID              int64     `json:"id"`
	Cedula          string    `json:"cedula"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	Address         string    `json:"address,omitempty"`
	DepartmentID    int64     `json:"department_id,omitempty"`
	PositionID      int64     `json:"position_id,omitempty"`
	Salary          float64   `json:"salary"`
	HireDate        string    `json:"hire_date,omitempty"`
	ContractEndDate string    `json:"contract_end_date,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (e *Employee) FullName() string {
	if e.FirstName == "" {
		return e.LastName
	}
	if e.LastName == "" {
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}

type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Position struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	DepartmentID int64     `json:"department_id,omitempty"`
	BaseSalary   float64   `json:"base_salary"`
	CreatedAt    time.Time `json:"created_at"`
}

type Leave struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Type       string    `json:"type"`
	StartDate  string    `json:"start_date"`
	EndDate    string    `json:"end_date"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Document struct {
	ID         string    `json:"id"`
	EmployeeID int64     `json:"employee_id"`
	Name       string    `json:"name"`
	Type       string    `json:"type,omitempty"`
	Path       string    `json:"path"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type Benefit struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Active     bool    `json:"active"`
}
