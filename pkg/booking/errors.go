package booking

import (
	"errors"
	"fmt"
)

// Domain-level error values returned by the booking service.
var (
	ErrCabinNotFound           = errors.New("cabin not found")
	ErrReservationNotFound     = errors.New("reservation not found")
	ErrReservationExists       = errors.New("reservation already exists")
	ErrDateUnavailable         = errors.New("date unavailable")
	ErrDateInPast              = errors.New("check-in date in the past")
	ErrNotCancellable          = errors.New("reservation not cancellable")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrInvalidStatusForPayment = errors.New("invalid status for payment")
	ErrPaymentDeclined         = errors.New("payment declined")
	ErrPaymentFailed           = errors.New("payment failed")
	ErrInvalidCabinID          = errors.New("invalid cabin id")
	ErrInvalidUserID           = errors.New("invalid user id")
	ErrInvalidReservationID    = errors.New("invalid reservation id")
	ErrInvalidPaymentID        = errors.New("invalid payment id")
	ErrInvalidStayDate         = errors.New("invalid stay date")
	ErrInvalidStatus           = errors.New("invalid reservation status")
	ErrInvalidAmountCents      = errors.New("invalid amount cents")
	ErrInvalidCabin            = errors.New("invalid cabin")
	ErrInvalidReservation      = errors.New("invalid reservation")
	ErrInvalidServiceConfig    = errors.New("invalid service config")
)

// OperationError wraps a failure with a stable operation code.
type OperationError struct {
	operation string
	subject   string
	code      string
	err       error
}

// Error returns the formatted error message.
func (operationError OperationError) Error() string {
	return fmt.Sprintf("%s.%s.%s: %v", operationError.operation, operationError.subject, operationError.code, operationError.err)
}

// Unwrap returns the underlying error.
func (operationError OperationError) Unwrap() error {
	return operationError.err
}

// Operation returns the operation segment.
func (operationError OperationError) Operation() string {
	return operationError.operation
}

// Subject returns the subject segment.
func (operationError OperationError) Subject() string {
	return operationError.subject
}

// Code returns the stable error code segment.
func (operationError OperationError) Code() string {
	return operationError.code
}

// WrapError wraps an error with operation, subject, and code metadata.
func WrapError(operation string, subject string, code string, err error) error {
	if err == nil {
		return nil
	}
	return OperationError{
		operation: operation,
		subject:   subject,
		code:      code,
		err:       err,
	}
}
