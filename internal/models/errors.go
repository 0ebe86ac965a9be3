package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrClassification ErrorType = iota
	ErrExtraction
	ErrMissingData
	ErrFetch
	ErrRender
	ErrInvalidConfig
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrClassification:
		return "Classification"
	case ErrExtraction:
		return "Extraction"
	case ErrMissingData:
		return "MissingData"
	case ErrFetch:
		return "Fetch"
	case ErrRender:
		return "Render"
	case ErrInvalidConfig:
		return "InvalidConfig"
	default:
		return "Unknown"
	}
}

// IndexError represents an error during index generation
type IndexError struct {
	Type    ErrorType
	Package string
	Err     error
}

// Error implements the error interface
func (e *IndexError) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Package, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *IndexError) Unwrap() error {
	return e.Err
}
