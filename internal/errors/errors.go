// Package errors provides structured error handling for the module core.
// It defines error types, sentinel errors, and helpers used to classify
// discovery, loading, registration and locale failures.
package errors

import (
	"errors"
	"fmt"
)

// Error types for classification
type ErrorType string

const (
	// ErrorTypeNotFound indicates no search root yielded the module binary
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeLoad indicates the binary exists but could not be opened as a library
	ErrorTypeLoad ErrorType = "load"
	// ErrorTypeSymbol indicates a required symbol could not be resolved
	ErrorTypeSymbol ErrorType = "symbol"
	// ErrorTypeRejected indicates the module entry point refused to load
	ErrorTypeRejected ErrorType = "rejected"
	// ErrorTypeFailed indicates the module entry point aborted abnormally
	ErrorTypeFailed ErrorType = "failed"
	// ErrorTypeDescriptor indicates a capability descriptor was dropped
	ErrorTypeDescriptor ErrorType = "descriptor"
	// ErrorTypeLocale indicates a locale table could not be loaded
	ErrorTypeLocale ErrorType = "locale"
	// ErrorTypeRegistry indicates misuse of the registration API
	ErrorTypeRegistry ErrorType = "registry"
	// ErrorTypeStore indicates a status store failure
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeValidation indicates invalid input or configuration
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeInternal indicates internal system errors
	ErrorTypeInternal ErrorType = "internal"
)

// Sentinel errors for common scenarios
var (
	// ErrModuleNotFound indicates no search root contains the module binary
	ErrModuleNotFound = errors.New("module not found")

	// ErrLoadFailed indicates the located file could not be loaded as a library
	ErrLoadFailed = errors.New("module library could not be loaded")

	// ErrRequiredSymbolMissing indicates the load entry point is absent
	ErrRequiredSymbolMissing = errors.New("required module function not found")

	// ErrSymbolType indicates a symbol exists but has an unexpected signature
	ErrSymbolType = errors.New("module symbol has unexpected type")

	// ErrModuleRejected indicates the entry point returned false
	ErrModuleRejected = errors.New("module entry point rejected load")

	// ErrModulePanicked indicates the entry point panicked
	ErrModulePanicked = errors.New("module entry point panicked")

	// ErrAlreadyLoaded indicates a module with the same name is active
	ErrAlreadyLoaded = errors.New("module already loaded")

	// ErrDescriptorRejected indicates a descriptor failed validation
	ErrDescriptorRejected = errors.New("descriptor rejected")

	// ErrMissingField indicates a category-required descriptor field is empty
	ErrMissingField = errors.New("required value not found")

	// ErrUnknownSourceType indicates a source descriptor with an unroutable type
	ErrUnknownSourceType = errors.New("unknown source type")

	// ErrOutsideLoad indicates a registration call outside any module entry point
	ErrOutsideLoad = errors.New("registration outside of module load")

	// ErrLocaleLoad indicates a locale table could not be built
	ErrLocaleLoad = errors.New("failed to load locale text")

	// ErrUnsupportedPlatform indicates dynamic loading is unavailable on this platform
	ErrUnsupportedPlatform = errors.New("dynamic loading not supported on this platform")

	// ErrInvalidConfig indicates invalid configuration values
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ModuleError provides structured error information with context
type ModuleError struct {
	Type    ErrorType              // Error classification
	Op      string                 // Operation that failed (e.g., "locate", "register_output")
	Module  string                 // Related module name if applicable
	Err     error                  // Underlying error
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *ModuleError) Error() string {
	if e.Module != "" {
		return fmt.Sprintf("%s error in %s for module %s: %v", e.Type, e.Op, e.Module, e.Err)
	}
	return fmt.Sprintf("%s error in %s: %v", e.Type, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ModuleError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for sentinel errors
func (e *ModuleError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// New creates a new ModuleError
func New(errType ErrorType, op string, err error) *ModuleError {
	return &ModuleError{
		Type:    errType,
		Op:      op,
		Err:     err,
		Details: make(map[string]interface{}),
	}
}

// WithModule adds module context to the error
func (e *ModuleError) WithModule(module string) *ModuleError {
	e.Module = module
	return e
}

// WithDetail adds a key-value detail to the error
func (e *ModuleError) WithDetail(key string, value interface{}) *ModuleError {
	e.Details[key] = value
	return e
}

// IsRecoverable returns true if a later explicit load attempt might succeed.
// Missing files can appear later; everything else is a property of the binary.
func (e *ModuleError) IsRecoverable() bool {
	if errors.Is(e.Err, ErrModuleNotFound) {
		return true
	}
	return e.Type == ErrorTypeStore || e.Type == ErrorTypeInternal
}

// Error creation helpers

// NotFoundError creates a module-not-found error
func NotFoundError(op string, err error) *ModuleError {
	return New(ErrorTypeNotFound, op, err)
}

// LoadError creates a library load error
func LoadError(op string, err error) *ModuleError {
	return New(ErrorTypeLoad, op, err)
}

// SymbolError creates a symbol resolution error
func SymbolError(op string, err error) *ModuleError {
	return New(ErrorTypeSymbol, op, err)
}

// RejectedError creates a module rejection error
func RejectedError(op string, err error) *ModuleError {
	return New(ErrorTypeRejected, op, err)
}

// FailedError creates an abnormal entry point failure
func FailedError(op string, err error) *ModuleError {
	return New(ErrorTypeFailed, op, err)
}

// DescriptorError creates a descriptor rejection error
func DescriptorError(op string, err error) *ModuleError {
	return New(ErrorTypeDescriptor, op, err)
}

// LocaleError creates a locale loading error
func LocaleError(op string, err error) *ModuleError {
	return New(ErrorTypeLocale, op, err)
}

// RegistryError creates a registration API misuse error
func RegistryError(op string, err error) *ModuleError {
	return New(ErrorTypeRegistry, op, err)
}

// StoreError creates a status store error
func StoreError(op string, err error) *ModuleError {
	return New(ErrorTypeStore, op, err)
}

// ValidationError creates a validation error
func ValidationError(op string, err error) *ModuleError {
	return New(ErrorTypeValidation, op, err)
}

// InternalError creates an internal system error
func InternalError(op string, err error) *ModuleError {
	return New(ErrorTypeInternal, op, err)
}

// Wrap wraps an error with operation context if it's not already a ModuleError
func Wrap(err error, errType ErrorType, op string) error {
	if err == nil {
		return nil
	}

	var mErr *ModuleError
	if errors.As(err, &mErr) {
		return err
	}

	return New(errType, op, err)
}

// GetType extracts the error type from an error
func GetType(err error) ErrorType {
	var mErr *ModuleError
	if errors.As(err, &mErr) {
		return mErr.Type
	}
	return ErrorTypeInternal
}

// GetOperation extracts the operation from an error
func GetOperation(err error) string {
	var mErr *ModuleError
	if errors.As(err, &mErr) {
		return mErr.Op
	}
	return "unknown"
}

// GetModule extracts the module name from an error
func GetModule(err error) string {
	var mErr *ModuleError
	if errors.As(err, &mErr) {
		return mErr.Module
	}
	return ""
}

// GetDetails extracts error details
func GetDetails(err error) map[string]interface{} {
	var mErr *ModuleError
	if errors.As(err, &mErr) {
		return mErr.Details
	}
	return nil
}
