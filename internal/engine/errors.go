package engine

import (
	"errors"
	"fmt"
)

// Code is a machine-readable battle error code.
type Code string

const (
	// CodeValidation marks an illegal action, rejected before any state change.
	CodeValidation Code = "VALIDATION"
	// CodeData marks a missing move, species or item lookup.
	CodeData Code = "DATA"
	// CodeInvariant marks a mutation that would break a state invariant. The mutation is skipped.
	CodeInvariant Code = "INVARIANT"
	// CodeNotDamaging marks a status move sent down the damage path.
	CodeNotDamaging Code = "NOT_DAMAGING"
)

// BattleError is the error type returned by the engine.
type BattleError struct {
	Code    Code
	Message string
	Err     error
}

func (e *BattleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BattleError) Unwrap() error { return e.Err }

// Is matches any BattleError carrying the same code, so sentinels work with errors.Is.
func (e *BattleError) Is(target error) bool {
	var t *BattleError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && (t.Message == "" || t.Message == e.Message)
}

var (
	// ErrNotDamaging is returned by the damage calculator for status moves without power.
	ErrNotDamaging = &BattleError{Code: CodeNotDamaging, Message: "move does not deal damage"}
	// ErrMissingData is returned when a required stat or lookup is absent.
	ErrMissingData = &BattleError{Code: CodeData, Message: "missing battle data"}
)

// NewError creates a BattleError.
func NewError(code Code, msg string) *BattleError {
	return &BattleError{Code: code, Message: msg}
}

// WrapError creates a BattleError around a cause.
func WrapError(code Code, msg string, err error) *BattleError {
	return &BattleError{Code: code, Message: msg, Err: err}
}

func missingData(format string, args ...any) error {
	return WrapError(CodeData, fmt.Sprintf(format, args...), ErrMissingData)
}

// GetCode extracts the code from err, or "" if err is not a BattleError.
func GetCode(err error) Code {
	var be *BattleError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
