package booking

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultPaymentTimeout = 10 * time.Second

// PaymentRequest carries what a provider needs to authorize a charge.
type PaymentRequest struct {
	ReservationID ReservationID
	Amount        AmountCents
	Instrument    string
}

// Authorization is a provider's decision on a payment request.
type Authorization struct {
	PaymentID PaymentID
	Approved  bool
	Reason    string
}

// PaymentProvider authorizes charges. Implementations must honor the
// request context; the service applies a deadline to every attempt.
type PaymentProvider interface {
	Authorize(ctx context.Context, request PaymentRequest) (Authorization, error)
}

// Pay runs one payment attempt for a reservation in pending_payment, or
// retries one in payment_failed. Whatever the provider does, the
// reservation lands in confirmed or payment_failed, never dangling in
// between.
func (service *Service) Pay(ctx context.Context, reservationID ReservationID, instrument string) (Reservation, error) {
	updated, operationError := service.pay(ctx, reservationID, instrument)
	service.logOperation(ctx, OperationLog{
		Operation:     operationPay,
		ReservationID: reservationID,
		UserID:        updated.UserID(),
		CabinID:       updated.CabinID(),
		Amount:        updated.TotalPrice(),
		ToStatus:      updated.Status(),
		Error:         operationError,
	})
	return updated, operationError
}

func (service *Service) pay(ctx context.Context, reservationID ReservationID, instrument string) (Reservation, error) {
	if service.payments == nil {
		return Reservation{}, fmt.Errorf("%w: payment provider not configured", ErrInvalidServiceConfig)
	}
	current, err := service.store.GetReservation(ctx, reservationID)
	if err != nil {
		return Reservation{}, err
	}
	if !current.Status().AwaitsPayment() {
		return current, fmt.Errorf("%w: status %s", ErrInvalidStatusForPayment, current.Status())
	}

	authCtx, cancel := context.WithTimeout(ctx, service.paymentTimeout)
	defer cancel()
	authorization, authErr := service.payments.Authorize(authCtx, PaymentRequest{
		ReservationID: reservationID,
		Amount:        current.TotalPrice(),
		Instrument:    instrument,
	})

	switch {
	case authErr != nil:
		// payment_failed -> payment_failed is a legal no-op transition,
		// so a failed retry leaves the record unchanged.
		failed, failErr := service.applyTransition(ctx, reservationID, StatusPaymentFailed, nil)
		if failErr != nil {
			return failed, failErr
		}
		if errors.Is(authErr, context.DeadlineExceeded) {
			return failed, fmt.Errorf("%w: provider timed out", ErrPaymentFailed)
		}
		return failed, fmt.Errorf("%w: %v", ErrPaymentFailed, authErr)
	case !authorization.Approved:
		failed, failErr := service.applyTransition(ctx, reservationID, StatusPaymentFailed, nil)
		if failErr != nil {
			return failed, failErr
		}
		return failed, fmt.Errorf("%w: %s", ErrPaymentDeclined, authorization.Reason)
	default:
		paymentID := authorization.PaymentID
		return service.applyTransition(ctx, reservationID, StatusConfirmed, &paymentID)
	}
}
