package sqlerr

import "github.com/jackc/pgx/v5/pgconn"

// Code is a friendly category for Postgres SQLSTATE error codes.
type Code int

const (
	// Other covers any SQLSTATE not explicitly mapped below.
	Other Code = iota

	// ForeignKeyViolation: SQLSTATE 23503.
	ForeignKeyViolation

	// UniqueViolation: SQLSTATE 23505.
	UniqueViolation

	// NotNullViolation: SQLSTATE 23502.
	NotNullViolation

	// CheckViolation: SQLSTATE 23514.
	CheckViolation
)

// Severity mirrors the severity field of a Postgres error.
type Severity int

const (
	SeverityError Severity = iota
	SeverityFatal
	SeverityPanic
	SeverityWarning
	SeverityOther
)

// Error is the application's structured view of a database error.
//
// It keeps the raw SQLSTATE and constraint metadata so callers can build
// precise messages, and wraps the original driver error for errors.As.
type Error struct {
	Code           Code
	Severity       Severity
	DatabaseCode   string
	Message        string
	SchemaName     string
	TableName      string
	ColumnName     string
	DataTypeName   string
	ConstraintName string

	driverErr *pgconn.PgError
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the original driver error to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e.driverErr == nil {
		return nil
	}
	return e.driverErr
}

// MapCode maps a SQLSTATE string to the friendly Code enum.
func MapCode(sqlstate string) Code {
	switch sqlstate {
	case "23503":
		return ForeignKeyViolation
	case "23505":
		return UniqueViolation
	case "23502":
		return NotNullViolation
	case "23514":
		return CheckViolation
	default:
		return Other
	}
}

// MapSeverity maps the Postgres severity string to the Severity enum.
func MapSeverity(severity string) Severity {
	switch severity {
	case "ERROR":
		return SeverityError
	case "FATAL":
		return SeverityFatal
	case "PANIC":
		return SeverityPanic
	case "WARNING":
		return SeverityWarning
	default:
		return SeverityOther
	}
}
