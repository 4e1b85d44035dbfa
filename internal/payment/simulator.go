// Package payment provides the simulated gateway. A real provider
// would sit behind the same booking.PaymentProvider interface.
package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/CedarRidgeStays/booking/pkg/booking"
	"github.com/google/uuid"
)

// InstrumentDeclined is the magic instrument that makes the simulator
// decline, so clients can exercise the failure path on demand.
const InstrumentDeclined = "card-declined"

const defaultDelay = 2 * time.Second

// Simulator authorizes every charge after a fixed artificial delay,
// unless asked to decline. It honors context cancellation, so a
// deadline on the request surfaces as context.DeadlineExceeded.
type Simulator struct {
	delay time.Duration
}

// NewSimulator builds a simulator. Non-positive delays fall back to the
// default.
func NewSimulator(delay time.Duration) *Simulator {
	if delay <= 0 {
		delay = defaultDelay
	}
	return &Simulator{delay: delay}
}

// Authorize implements booking.PaymentProvider.
func (simulator *Simulator) Authorize(ctx context.Context, request booking.PaymentRequest) (booking.Authorization, error) {
	timer := time.NewTimer(simulator.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return booking.Authorization{}, ctx.Err()
	case <-timer.C:
	}
	if request.Instrument == InstrumentDeclined {
		return booking.Authorization{Approved: false, Reason: "card declined"}, nil
	}
	paymentID, err := booking.NewPaymentID(fmt.Sprintf("pay_%s", uuid.NewString()))
	if err != nil {
		return booking.Authorization{}, err
	}
	return booking.Authorization{PaymentID: paymentID, Approved: true}, nil
}
