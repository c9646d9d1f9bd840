package typepick

import (
	"errors"
	"strings"

	"github.com/biyonik/go-typepick/crypt"
	"github.com/biyonik/go-typepick/dialect"
	"github.com/biyonik/go-typepick/internal/validation"
)

// Sentinel errors for go-typepick.
// These errors can be checked using errors.Is().
var (
	// ErrConfiguration is matched by *ConfigurationError, returned by Execute when
	// configuration calls recorded errors.
	ErrConfiguration = errors.New("typepick: invalid builder configuration")

	// ErrInvalidFetchShape is returned for an unknown fetch shape, or for a shape whose
	// destination was not provided. It is raised before a transaction is opened.
	ErrInvalidFetchShape = errors.New("typepick: invalid fetch shape")

	// ErrInvalidQueryKind is returned when Execute runs without a selected query kind.
	ErrInvalidQueryKind = errors.New("typepick: no query kind selected")

	// ErrDriver is matched by *DriverError.
	ErrDriver = errors.New("typepick: driver error")

	// ErrNoConnection is returned when a builder without a connection is executed.
	ErrNoConnection = errors.New("typepick: builder has no connection")

	// ErrTransactionClosed is returned when trying to use a closed transaction.
	ErrTransactionClosed = errors.New("typepick: transaction already closed")

	// ErrInvalidDestination is returned when an Into destination has the wrong shape.
	ErrInvalidDestination = errors.New("typepick: destination must be a non-nil pointer")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("typepick: invalid connection config")
)

// Errors raised by the dialect, crypt and validation packages, re-exported so callers
// only import this package.
var (
	ErrInvalidIdentifier    = validation.ErrInvalidIdentifier
	ErrInvalidOperator      = validation.ErrInvalidOperator
	ErrUnsupportedTransform = crypt.ErrUnsupportedTransform
	ErrMissingKey           = crypt.ErrMissingKey
	ErrInvalidCiphertext    = crypt.ErrInvalidCiphertext
	ErrNoTable              = dialect.ErrNoTable
	ErrNoColumns            = dialect.ErrNoColumns
	ErrPlaceholderCollision = dialect.ErrPlaceholderCollision
)

// ConfigurationError carries the messages recorded by configuration calls.
// Execute returns it instead of running any SQL.
type ConfigurationError struct {
	Messages []string
}

func (e *ConfigurationError) Error() string {
	return ErrConfiguration.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// DriverError wraps a failure reported by the database driver. Code holds the
// driver's own diagnostic code (MySQL error number, Postgres SQLSTATE, SQLite
// result code) when one is available.
type DriverError struct {
	Op    string
	Code  string
	Query string
	Err   error
}

func (e *DriverError) Error() string {
	msg := ErrDriver.Error() + " during " + e.Op
	if e.Code != "" {
		msg += " [" + e.Code + "]"
	}
	return msg + ": " + e.Err.Error()
}

func (e *DriverError) Unwrap() error {
	return e.Err
}

func (e *DriverError) Is(target error) bool {
	return target == ErrDriver
}

// QueryError wraps an error with additional query context.
type QueryError struct {
	Err      error
	Query    string
	Bindings Bindings
	Message  string
}

func (e *QueryError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a new QueryError with context.
func NewQueryError(err error, query string, bindings Bindings, message string) *QueryError {
	return &QueryError{
		Err:      err,
		Query:    query,
		Bindings: bindings,
		Message:  message,
	}
}
