package exhibit

import (
	"errors"
	"fmt"
)

// MissingRequiredFieldError reports an intake form missing one of the fields
// required for any submission. Field names the first missing field.
type MissingRequiredFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// NewMissingRequiredFieldError creates a new MissingRequiredFieldError.
func NewMissingRequiredFieldError(field string) *MissingRequiredFieldError {
	return &MissingRequiredFieldError{Field: field}
}

// MissingCustomTypeError reports device_type = Other without a custom device
// type supplied.
type MissingCustomTypeError struct{}

// Error implements the error interface.
func (e *MissingCustomTypeError) Error() string {
	return "custom_device_type is required when device_type is Other"
}

// MissingReleaseInfoError reports extraction_status = Released without the
// release contact details it requires.
type MissingReleaseInfoError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingReleaseInfoError) Error() string {
	return fmt.Sprintf("release info incomplete: missing %s", e.Field)
}

// NewMissingReleaseInfoError creates a new MissingReleaseInfoError.
func NewMissingReleaseInfoError(field string) *MissingReleaseInfoError {
	return &MissingReleaseInfoError{Field: field}
}

// InvalidFieldError reports a field whose value is malformed, for example an
// unknown device type or a description over the length bound.
type InvalidFieldError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
}

// NewInvalidFieldError creates a new InvalidFieldError.
func NewInvalidFieldError(field, reason string) *InvalidFieldError {
	return &InvalidFieldError{Field: field, Reason: reason}
}

// IsValidation reports whether err is one of the intake validation errors.
// Validation errors are recoverable: the caller fixes the form and resubmits,
// and no writes have occurred.
func IsValidation(err error) bool {
	var missingField *MissingRequiredFieldError
	var missingCustom *MissingCustomTypeError
	var missingRelease *MissingReleaseInfoError
	var invalidField *InvalidFieldError
	return errors.As(err, &missingField) ||
		errors.As(err, &missingCustom) ||
		errors.As(err, &missingRelease) ||
		errors.As(err, &invalidField)
}

// NotFoundError indicates a referential inconsistency: a device id that has
// no matching row. It is fatal to the current operation and triggers rollback.
type NotFoundError struct {
	DeviceID int64
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("device %d not found", e.DeviceID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(deviceID int64) *NotFoundError {
	return &NotFoundError{DeviceID: deviceID}
}

// StorageError wraps a connectivity or constraint failure from the storage
// backend. It triggers rollback of the enclosing unit of work.
type StorageError struct {
	Backend   string // storage backend type ("sqlite", "memory", etc.)
	Operation string // operation that failed ("create_device", "list", etc.)
	Cause     error  // underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// InvalidInputError reports malformed identity inputs to the exhibit number
// generator, such as an empty first or last name.
type InvalidInputError struct {
	Reason string
}

// Error implements the error interface.
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// NewInvalidInputError creates a new InvalidInputError.
func NewInvalidInputError(reason string) *InvalidInputError {
	return &InvalidInputError{Reason: reason}
}

// IntakeFailedError wraps the single cause of a failed intake submission.
// By the time the caller sees it the unit of work has been rolled back, so a
// resubmission starts from a clean slate.
type IntakeFailedError struct {
	Cause error
}

// Error implements the error interface.
func (e *IntakeFailedError) Error() string {
	return fmt.Sprintf("intake failed: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *IntakeFailedError) Unwrap() error {
	return e.Cause
}

// NewIntakeFailedError creates a new IntakeFailedError.
func NewIntakeFailedError(cause error) *IntakeFailedError {
	return &IntakeFailedError{Cause: cause}
}

// ExportError wraps a failure while serializing records to an output format.
type ExportError struct {
	Format      string // export format ("csv", "json", "report")
	RecordCount int    // records processed before the failure
	Cause       error  // underlying error
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [format=%s, records=%d]: %v", e.Format, e.RecordCount, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new ExportError.
func NewExportError(format string, recordCount int, cause error) *ExportError {
	return &ExportError{
		Format:      format,
		RecordCount: recordCount,
		Cause:       cause,
	}
}

// TransitionError reports a status change rejected by the strict transition
// policy.
type TransitionError struct {
	From ExtractionStatus
	To   ExtractionStatus
}

// Error implements the error interface.
func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s not allowed by policy", e.From, e.To)
}

// NewTransitionError creates a new TransitionError.
func NewTransitionError(from, to ExtractionStatus) *TransitionError {
	return &TransitionError{From: from, To: to}
}
