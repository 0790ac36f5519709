package error

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorCategory classifies errors by their nature and appropriate handling strategy.
type ErrorCategory int

const (
	// ErrCategoryUser represents errors caused by an invalid plan or invalid arguments.
	ErrCategoryUser ErrorCategory = iota

	// ErrCategoryUnsupported represents requests the engine deliberately does not serve,
	// such as rewinding a forward-only operator or building an unknown plan node.
	ErrCategoryUnsupported

	// ErrCategorySystem represents failures of the underlying data sources or drivers.
	// The executor never retries these; retry belongs to the connection-pool layer.
	ErrCategorySystem

	// ErrCategoryData represents values that cannot be read or converted.
	ErrCategoryData
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUser:
		return "user"
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategorySystem:
		return "system"
	case ErrCategoryData:
		return "data"
	default:
		return "unknown"
	}
}

// Error codes used across the execution engine.
const (
	CodeInitFailed         = "OPERATOR_INIT_FAILED"
	CodeUnsupported        = "UNSUPPORTED_OPERATION"
	CodeUnsupportedPlan    = "UNSUPPORTED_PLAN_NODE"
	CodeRowMaterialization = "ROW_MATERIALIZATION_FAILED"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeExecutionFailed    = "EXECUTION_FAILED"
	CodeTypeMismatch       = "TYPE_MISMATCH"
)

// DBError represents a structured execution error with rich context information.
type DBError struct {
	// Code is a unique identifier for this error type (e.g., "OPERATOR_INIT_FAILED").
	Code string

	// Category classifies the error for appropriate handling strategy.
	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific error instance.
	Detail string

	// Operation identifies what was being performed, e.g. "Init", "MoveNext", "Current".
	Operation string

	// Component identifies the operator type where the error originated,
	// e.g. "NestedLoopJoin" or "ScanOperator".
	Component string

	// Cause is the underlying error, carrying the stack where it was wrapped.
	Cause error
}

// New creates a new DBError with the specified code, category, and message.
func New(category ErrorCategory, code, message string) *DBError {
	return &DBError{
		Code:     code,
		Category: category,
		Message:  message,
		Cause:    errors.NewWithDepth(1, message),
	}
}

// Newf is New with a formatted message.
func Newf(category ErrorCategory, code, format string, args ...any) *DBError {
	msg := fmt.Sprintf(format, args...)
	return &DBError{
		Code:     code,
		Category: category,
		Message:  msg,
		Cause:    errors.NewWithDepth(1, msg),
	}
}

// Wrap wraps an existing error with execution-specific context information.
// If the error is already a DBError, it enriches the existing error with
// operation and component context (only if not already set).
func Wrap(err error, code, operation, component string) *DBError {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return dbErr
	}

	return &DBError{
		Code:      code,
		Category:  ErrCategorySystem,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     errors.WithStackDepth(err, 1),
	}
}

// InitFailed wraps a failure raised while initializing the named operator.
func InitFailed(err error, component string) error {
	if err == nil {
		return nil
	}
	return Wrap(err, CodeInitFailed, "Init", component)
}

// RowFailed wraps a failure raised by operation while materializing a row
// from a raw result.
func RowFailed(err error, operation, component string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, CodeRowMaterialization, operation, component)
	if wrapped.Category == ErrCategorySystem && wrapped.Code == CodeRowMaterialization {
		wrapped.Category = ErrCategoryData
	}
	return wrapped
}

// Unsupported reports an operation the component deliberately does not support.
func Unsupported(operation, component string) error {
	return &DBError{
		Code:      CodeUnsupported,
		Category:  ErrCategoryUnsupported,
		Message:   fmt.Sprintf("%s is not supported", operation),
		Operation: operation,
		Component: component,
		Cause:     errors.NewWithDepthf(1, "%s.%s unsupported", component, operation),
	}
}

// InvalidArgument reports a bad constructor or plan argument.
func InvalidArgument(component, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return &DBError{
		Code:      CodeInvalidArgument,
		Category:  ErrCategoryUser,
		Message:   msg,
		Component: component,
		Cause:     errors.NewWithDepth(1, msg),
	}
}

// IsUnsupported reports whether err carries the unsupported category.
func IsUnsupported(err error) bool {
	return HasCategory(err, ErrCategoryUnsupported)
}

// HasCategory reports whether any DBError in the chain has the given category.
func HasCategory(err error, category ErrorCategory) bool {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Category == category
	}
	return false
}

// HasCode reports whether any DBError in the chain has the given code.
func HasCode(err error, code string) bool {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Code == code
	}
	return false
}

// Error implements the standard Go error interface
//
// The format follows the pattern:
// [ERROR_CODE] Message: Detail (operation: Operation, component: Component)
func (e *DBError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Detail != "" {
		b.WriteString(fmt.Sprintf(": %s", e.Detail))
	}

	if e.Operation != "" || e.Component != "" {
		b.WriteString(" (")
		if e.Operation != "" {
			b.WriteString(fmt.Sprintf("operation: %s", e.Operation))
		}
		if e.Component != "" {
			if e.Operation != "" {
				b.WriteString(", ")
			}
			b.WriteString(fmt.Sprintf("component: %s", e.Component))
		}
		b.WriteString(")")
	}

	return b.String()
}

// Unwrap returns the underlying cause error, enabling error chain traversal
// with errors.Is and errors.As.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// FormatStack returns a human-readable stack trace for debugging purposes.
func (e *DBError) FormatStack() string {
	if e.Cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.Cause)
}
