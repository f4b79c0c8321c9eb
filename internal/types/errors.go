package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific error type
type ErrorCode string

const (
	// Game errors
	ErrGameNotFound     ErrorCode = "GAME_NOT_FOUND"
	ErrGameInProgress   ErrorCode = "GAME_IN_PROGRESS"
	ErrGameAlreadyEnded ErrorCode = "GAME_ALREADY_ENDED"

	// Economy errors
	ErrInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
	ErrInvalidBet        ErrorCode = "INVALID_BET"
	ErrNoEnergy          ErrorCode = "NO_ENERGY"
	ErrBankFull          ErrorCode = "BANK_FULL"
	ErrWalletFull        ErrorCode = "WALLET_FULL"

	// Action errors
	ErrInvalidAction    ErrorCode = "INVALID_ACTION"
	ErrInvalidCommand   ErrorCode = "INVALID_COMMAND"
	ErrInvalidArgument  ErrorCode = "INVALID_ARGUMENT"
	ErrPermissionDenied ErrorCode = "PERMISSION_DENIED"

	// System errors
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
	ErrNetworkError  ErrorCode = "NETWORK_ERROR"
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
)

// GameError is a user facing error with a stable code
type GameError struct {
	Code    ErrorCode
	Message string
	Err     error // Underlying error, if any
}

// Error implements the error interface
func (e *GameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *GameError) Unwrap() error {
	return e.Err
}

// NewGameError creates a new GameError
func NewGameError(code ErrorCode, message string) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error in a GameError
func WrapError(code ErrorCode, message string, err error) *GameError {
	return &GameError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsGameError checks if an error chain holds a GameError with a specific code
func IsGameError(err error, code ErrorCode) bool {
	var gameErr *GameError
	if !As(err, &gameErr) {
		return false
	}
	return gameErr.Code == code
}

// As finds the first GameError in err's chain
func As(err error, target **GameError) bool {
	if err == nil || target == nil {
		return false
	}
	return errors.As(err, target)
}

// UserMessage returns the message to show a player for err
func UserMessage(err error) string {
	var gameErr *GameError
	if As(err, &gameErr) {
		return gameErr.Message
	}
	return "An unexpected error occurred"
}
