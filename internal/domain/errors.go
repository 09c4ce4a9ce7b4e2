package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input snapshot")
	ErrFiscalYearNotSupported = errors.New("fiscal year not supported")
	ErrUnknownActivityClass   = errors.New("unknown activity class")
	ErrBracketNotFound        = errors.New("no bracket covers the amount")
	ErrInvalidFiscalTable     = errors.New("invalid fiscal parameter table")
)

// CalculationError wraps a configuration failure raised while computing a regime.
type CalculationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}

// NewCalculationError creates a new calculation error.
func NewCalculationError(operation, message string, cause error) *CalculationError {
	return &CalculationError{
		Operation: operation,
		Message:   message,
		Cause:     cause,
	}
}

// FiscalYearError reports a year with no parameter table.
type FiscalYearError struct {
	Year      int
	Available []int
}

func (e *FiscalYearError) Error() string {
	return fmt.Sprintf("fiscal year %d not supported (available: %v)", e.Year, e.Available)
}

func (e *FiscalYearError) Unwrap() error {
	return ErrFiscalYearNotSupported
}
