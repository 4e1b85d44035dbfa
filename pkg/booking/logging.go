package booking

import (
	"context"
	"time"
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service)

// OperationLogger records domain-level events emitted by Service operations.
type OperationLogger interface {
	LogOperation(ctx context.Context, entry OperationLog)
}

// OperationLog describes a state-changing booking operation.
type OperationLog struct {
	Operation     string
	ReservationID ReservationID
	CabinID       CabinID
	UserID        UserID
	CheckIn       StayDate
	Amount        AmountCents
	ToStatus      Status
	Status        string
	Error         error
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) ServiceOption {
	return func(service *Service) {
		service.logger = logger
	}
}

// WithPaymentProvider wires the payment capability used by Pay.
func WithPaymentProvider(provider PaymentProvider) ServiceOption {
	return func(service *Service) {
		service.payments = provider
	}
}

// WithPaymentTimeout bounds every payment attempt. Non-positive values
// keep the default.
func WithPaymentTimeout(timeout time.Duration) ServiceOption {
	return func(service *Service) {
		if timeout > 0 {
			service.paymentTimeout = timeout
		}
	}
}
