package booking

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// testClock is a Monday noon anchor; the following Saturday and Sunday
// are used for weekend pricing cases.
var testClock = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

const (
	testSaturday = "2026-03-07"
	testSunday   = "2026-03-08"
	testMonday   = "2026-03-09"
)

func mustCabinID(test *testing.T, raw string) CabinID {
	test.Helper()
	id, err := NewCabinID(raw)
	if err != nil {
		test.Fatalf("cabin id %q: %v", raw, err)
	}
	return id
}

func mustUserID(test *testing.T, raw string) UserID {
	test.Helper()
	id, err := NewUserID(raw)
	if err != nil {
		test.Fatalf("user id %q: %v", raw, err)
	}
	return id
}

func mustReservationID(test *testing.T, raw string) ReservationID {
	test.Helper()
	id, err := NewReservationID(raw)
	if err != nil {
		test.Fatalf("reservation id %q: %v", raw, err)
	}
	return id
}

func mustPaymentID(test *testing.T, raw string) PaymentID {
	test.Helper()
	id, err := NewPaymentID(raw)
	if err != nil {
		test.Fatalf("payment id %q: %v", raw, err)
	}
	return id
}

func mustStayDate(test *testing.T, raw string) StayDate {
	test.Helper()
	date, err := NewStayDate(raw)
	if err != nil {
		test.Fatalf("stay date %q: %v", raw, err)
	}
	return date
}

func mustCatalog(test *testing.T) *Catalog {
	test.Helper()
	catalog, err := NewCatalog(DefaultCabins())
	if err != nil {
		test.Fatalf("catalog: %v", err)
	}
	return catalog
}

func mustNewService(test *testing.T, store Store, options ...ServiceOption) *Service {
	test.Helper()
	counter := 0
	newID := func() string {
		counter++
		return fmt.Sprintf("res-%d", counter)
	}
	service, err := NewService(store, mustCatalog(test), func() time.Time { return testClock }, newID, options...)
	if err != nil {
		test.Fatalf("service init failed: %v", err)
	}
	return service
}

// stubStore is a minimal in-package Store used by service tests.
type stubStore struct {
	reservations map[ReservationID]Reservation
}

func newStubStore(test *testing.T) *stubStore {
	test.Helper()
	return &stubStore{reservations: make(map[ReservationID]Reservation)}
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return fn(ctx, store)
}

func (store *stubStore) InsertReservation(_ context.Context, reservation Reservation) error {
	if _, exists := store.reservations[reservation.ID()]; exists {
		return ErrReservationExists
	}
	store.reservations[reservation.ID()] = reservation
	return nil
}

func (store *stubStore) GetReservation(_ context.Context, reservationID ReservationID) (Reservation, error) {
	reservation, exists := store.reservations[reservationID]
	if !exists {
		return Reservation{}, ErrReservationNotFound
	}
	return reservation, nil
}

func (store *stubStore) ListReservationsByUser(_ context.Context, userID UserID) ([]Reservation, error) {
	out := make([]Reservation, 0)
	for _, reservation := range store.reservations {
		if reservation.UserID() == userID {
			out = append(out, reservation)
		}
	}
	return out, nil
}

func (store *stubStore) ListActiveDates(_ context.Context, cabinID CabinID) ([]StayDate, error) {
	out := make([]StayDate, 0)
	for _, reservation := range store.reservations {
		if reservation.CabinID() == cabinID && reservation.Status().BlocksDate() {
			out = append(out, reservation.CheckIn())
		}
	}
	return out, nil
}

func (store *stubStore) UpdateReservationStatus(_ context.Context, reservationID ReservationID, from Status, to Status, paymentID *PaymentID) error {
	reservation, exists := store.reservations[reservationID]
	if !exists {
		return ErrReservationNotFound
	}
	if reservation.Status() != from {
		return ErrInvalidTransition
	}
	store.reservations[reservationID] = reservation.WithStatus(to, paymentID)
	return nil
}

func (store *stubStore) mustReservation(test *testing.T, reservationID ReservationID) Reservation {
	test.Helper()
	reservation, exists := store.reservations[reservationID]
	if !exists {
		test.Fatalf("reservation %s missing from store", reservationID.String())
	}
	return reservation
}

// failingStore fails every operation with a fixed error.
type failingStore struct {
	err error
}

func newFailingStore(test *testing.T, err error) *failingStore {
	test.Helper()
	return &failingStore{err: err}
}

func (store *failingStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return store.err
}

func (store *failingStore) InsertReservation(context.Context, Reservation) error {
	return store.err
}

func (store *failingStore) GetReservation(context.Context, ReservationID) (Reservation, error) {
	return Reservation{}, store.err
}

func (store *failingStore) ListReservationsByUser(context.Context, UserID) ([]Reservation, error) {
	return nil, store.err
}

func (store *failingStore) ListActiveDates(context.Context, CabinID) ([]StayDate, error) {
	return nil, store.err
}

func (store *failingStore) UpdateReservationStatus(context.Context, ReservationID, Status, Status, *PaymentID) error {
	return store.err
}
