package booking

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// Service contains the booking domain logic over a Store.
type Service struct {
	store          Store
	catalog        *Catalog
	nowFn          func() time.Time
	newID          func() string
	payments       PaymentProvider
	paymentTimeout time.Duration
	logger         OperationLogger
}

// NewService wires a Service. The id generator supplies raw reservation
// identifiers (the caller typically passes uuid.NewString).
func NewService(store Store, catalog *Catalog, now func() time.Time, newID func() string, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: catalog dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	if newID == nil {
		return nil, fmt.Errorf("%w: id generator is nil", ErrInvalidServiceConfig)
	}
	service := &Service{
		store:          store,
		catalog:        catalog,
		nowFn:          now,
		newID:          newID,
		paymentTimeout: defaultPaymentTimeout,
	}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

// ListCabins returns the seeded cabin inventory in order.
func (service *Service) ListCabins() []Cabin {
	return service.catalog.ListCabins()
}

// CabinByID looks up one cabin.
func (service *Service) CabinByID(cabinID CabinID) (Cabin, error) {
	return service.catalog.CabinByID(cabinID)
}

// Quote returns the nightly rate for a cabin on a date.
func (service *Service) Quote(cabinID CabinID, date StayDate) (AmountCents, error) {
	cabin, err := service.catalog.CabinByID(cabinID)
	if err != nil {
		return 0, err
	}
	return NightlyRate(cabin.BasePrice, date), nil
}

// CreateReservation books a cabin for a single night. The availability
// check runs in the same store transaction as the insert, so the store
// is the final authority on double bookings. The total price is frozen
// here and the cabin name is snapshotted.
func (service *Service) CreateReservation(ctx context.Context, cabinID CabinID, userID UserID, checkIn StayDate) (Reservation, error) {
	var created Reservation
	operationError := func() error {
		cabin, err := service.catalog.CabinByID(cabinID)
		if err != nil {
			return err
		}
		today := StayDateOf(service.nowFn())
		if checkIn.Before(today) {
			return fmt.Errorf("%w: %s", ErrDateInPast, checkIn.String())
		}
		return service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
			booked, err := transactionStore.ListActiveDates(ctx, cabinID)
			if err != nil {
				return err
			}
			for _, date := range booked {
				if date == checkIn {
					return fmt.Errorf("%w: %s on %s", ErrDateUnavailable, cabinID.String(), checkIn.String())
				}
			}
			reservationID, err := NewReservationID(service.newID())
			if err != nil {
				return err
			}
			reservation, err := NewReservation(
				reservationID,
				cabinID,
				cabin.Name,
				userID,
				checkIn,
				NightlyRate(cabin.BasePrice, checkIn),
				StatusPendingPayment,
				nil,
				service.nowFn(),
			)
			if err != nil {
				return err
			}
			if err := transactionStore.InsertReservation(ctx, reservation); err != nil {
				return err
			}
			created = reservation
			return nil
		})
	}()
	service.logOperation(ctx, OperationLog{
		Operation:     operationCreate,
		CabinID:       cabinID,
		UserID:        userID,
		ReservationID: created.ID(),
		CheckIn:       checkIn,
		Amount:        created.TotalPrice(),
		Error:         operationError,
	})
	return created, operationError
}

// BookedDates returns the cabin's committed dates, ascending. Computed
// on demand from the store so it always reflects current state.
func (service *Service) BookedDates(ctx context.Context, cabinID CabinID) ([]StayDate, error) {
	if _, err := service.catalog.CabinByID(cabinID); err != nil {
		return nil, err
	}
	dates, err := service.store.ListActiveDates(ctx, cabinID)
	if err != nil {
		return nil, err
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

// UpdateStatus applies a lifecycle transition, failing closed on any
// move the transition table does not permit. The payment reference is
// recorded only when the reservation moves to confirmed.
func (service *Service) UpdateStatus(ctx context.Context, reservationID ReservationID, to Status, paymentID *PaymentID) (Reservation, error) {
	updated, operationError := service.applyTransition(ctx, reservationID, to, paymentID)
	service.logOperation(ctx, OperationLog{
		Operation:     operationUpdateStatus,
		ReservationID: reservationID,
		UserID:        updated.UserID(),
		CabinID:       updated.CabinID(),
		ToStatus:      to,
		Error:         operationError,
	})
	return updated, operationError
}

// applyTransition performs a table-validated compare-and-set status
// change inside one store transaction.
func (service *Service) applyTransition(ctx context.Context, reservationID ReservationID, to Status, paymentID *PaymentID) (Reservation, error) {
	var updated Reservation
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		current, err := transactionStore.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if !CanTransition(current.Status(), to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status(), to)
		}
		var recorded *PaymentID
		if to == StatusConfirmed {
			recorded = paymentID
		}
		if err := transactionStore.UpdateReservationStatus(ctx, reservationID, current.Status(), to, recorded); err != nil {
			return err
		}
		updated, err = transactionStore.GetReservation(ctx, reservationID)
		return err
	})
	return updated, operationError
}

// Cancel moves a confirmed or pending reservation to cancelled, which
// releases its date. Cancelled and payment_failed reservations are not
// cancellable.
func (service *Service) Cancel(ctx context.Context, reservationID ReservationID) (Reservation, error) {
	var updated Reservation
	operationError := service.store.WithTx(ctx, func(ctx context.Context, transactionStore Store) error {
		current, err := transactionStore.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if !current.Status().Cancellable() {
			return fmt.Errorf("%w: status %s", ErrNotCancellable, current.Status())
		}
		if err := transactionStore.UpdateReservationStatus(ctx, reservationID, current.Status(), StatusCancelled, nil); err != nil {
			return err
		}
		updated, err = transactionStore.GetReservation(ctx, reservationID)
		return err
	})
	service.logOperation(ctx, OperationLog{
		Operation:     operationCancel,
		ReservationID: reservationID,
		UserID:        updated.UserID(),
		CabinID:       updated.CabinID(),
		ToStatus:      StatusCancelled,
		Error:         operationError,
	})
	return updated, operationError
}

// ReservationByID fetches one reservation.
func (service *Service) ReservationByID(ctx context.Context, reservationID ReservationID) (Reservation, error) {
	return service.store.GetReservation(ctx, reservationID)
}

// ReservationsForUser returns the user's reservations. Order is
// unspecified at this level; callers sort, typically by creation time
// descending.
func (service *Service) ReservationsForUser(ctx context.Context, userID UserID) ([]Reservation, error) {
	return service.store.ListReservationsByUser(ctx, userID)
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
