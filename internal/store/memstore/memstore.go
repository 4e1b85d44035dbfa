// Package memstore is the volatile in-process reservation store. It is
// the default deployment: one collection, one process, nothing survives
// a restart.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/CedarRidgeStays/booking/pkg/booking"
)

const (
	errorOperationStore     = "store"
	errorSubjectReservation = "reservation"
	errorCodeDuplicate      = "duplicate"
	errorCodeGet            = "get"
	errorCodeUpdateStatus   = "update_status"
	errorCodeStatusConflict = "status_conflict"
)

// Store implements booking.Store over a mutex-guarded map. WithTx holds
// the mutex for the whole callback, so an availability check and the
// insert that follows it form one critical section and two concurrent
// bookers cannot both pass the check.
type Store struct {
	mu           sync.Mutex
	reservations map[booking.ReservationID]booking.Reservation
	inTx         bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{reservations: make(map[booking.ReservationID]booking.Reservation)}
}

// WithTx runs fn under the store lock. Every service mutation is a
// single store write, so there is nothing to roll back on failure.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	if store.inTx {
		return fn(ctx, store)
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	view := &Store{reservations: store.reservations, inTx: true}
	return fn(ctx, view)
}

func (store *Store) acquire() func() {
	if store.inTx {
		return func() {}
	}
	store.mu.Lock()
	return store.mu.Unlock
}

// InsertReservation adds a new reservation record.
func (store *Store) InsertReservation(_ context.Context, reservation booking.Reservation) error {
	release := store.acquire()
	defer release()
	if _, exists := store.reservations[reservation.ID()]; exists {
		return wrapStoreError(errorCodeDuplicate, booking.ErrReservationExists)
	}
	store.reservations[reservation.ID()] = reservation
	return nil
}

// GetReservation fetches a reservation by id.
func (store *Store) GetReservation(_ context.Context, reservationID booking.ReservationID) (booking.Reservation, error) {
	release := store.acquire()
	defer release()
	reservation, exists := store.reservations[reservationID]
	if !exists {
		return booking.Reservation{}, wrapStoreError(errorCodeGet, booking.ErrReservationNotFound)
	}
	return reservation, nil
}

// ListReservationsByUser returns the user's reservations in no
// particular order.
func (store *Store) ListReservationsByUser(_ context.Context, userID booking.UserID) ([]booking.Reservation, error) {
	release := store.acquire()
	defer release()
	out := make([]booking.Reservation, 0)
	for _, reservation := range store.reservations {
		if reservation.UserID() == userID {
			out = append(out, reservation)
		}
	}
	return out, nil
}

// ListActiveDates returns the check-in dates of the cabin's
// reservations whose status still blocks the date.
func (store *Store) ListActiveDates(_ context.Context, cabinID booking.CabinID) ([]booking.StayDate, error) {
	release := store.acquire()
	defer release()
	out := make([]booking.StayDate, 0)
	for _, reservation := range store.reservations {
		if reservation.CabinID() == cabinID && reservation.Status().BlocksDate() {
			out = append(out, reservation.CheckIn())
		}
	}
	return out, nil
}

// UpdateReservationStatus applies a compare-and-set status change. A
// stale expected status means the record changed underneath the caller.
func (store *Store) UpdateReservationStatus(_ context.Context, reservationID booking.ReservationID, from booking.Status, to booking.Status, paymentID *booking.PaymentID) error {
	release := store.acquire()
	defer release()
	reservation, exists := store.reservations[reservationID]
	if !exists {
		return wrapStoreError(errorCodeUpdateStatus, booking.ErrReservationNotFound)
	}
	if reservation.Status() != from {
		return wrapStoreError(errorCodeStatusConflict, fmt.Errorf("%w: expected %s, found %s", booking.ErrInvalidTransition, from, reservation.Status()))
	}
	store.reservations[reservationID] = reservation.WithStatus(to, paymentID)
	return nil
}

func wrapStoreError(code string, err error) error {
	return booking.WrapError(errorOperationStore, errorSubjectReservation, code, err)
}
