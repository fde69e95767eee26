package database

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrDuplicateCedula  = errors.New("cedula already registered")
	ErrEmployeeNotFound = errors.New("employee not found")
)
