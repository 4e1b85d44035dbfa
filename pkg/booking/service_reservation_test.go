package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateReservationFreezesPriceAndStatus(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	cabinID := mustCabinID(test, "cabin1")
	userID := mustUserID(test, "user123")
	checkIn := mustStayDate(test, testSaturday)

	created, err := service.CreateReservation(context.Background(), cabinID, userID, checkIn)
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if created.Status() != StatusPendingPayment {
		test.Fatalf("expected pending_payment, got %s", created.Status())
	}
	if created.TotalPrice() != 18000 {
		test.Fatalf("expected Saturday price 18000 for base 15000, got %d", created.TotalPrice())
	}
	if created.CabinName() != "Lakeside Retreat" {
		test.Fatalf("expected cabin name snapshot, got %q", created.CabinName())
	}
	if created.CheckOut() != checkIn.Next() {
		test.Fatalf("expected check-out %s, got %s", checkIn.Next(), created.CheckOut())
	}
	if _, hasPayment := created.PaymentID(); hasPayment {
		test.Fatalf("expected no payment id on a fresh reservation")
	}
	stored := store.mustReservation(test, created.ID())
	if stored.TotalPrice() != created.TotalPrice() {
		test.Fatalf("stored price %d differs from created %d", stored.TotalPrice(), created.TotalPrice())
	}
}

func TestCreateReservationWeekdayUsesBasePrice(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	created, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin3"), mustUserID(test, "user123"), mustStayDate(test, testMonday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if created.TotalPrice() != 12000 {
		test.Fatalf("expected weekday base price 12000, got %d", created.TotalPrice())
	}
}

func TestCreateReservationRejectsBookedDate(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	cabinID := mustCabinID(test, "cabin1")
	checkIn := mustStayDate(test, testSaturday)

	if _, err := service.CreateReservation(context.Background(), cabinID, mustUserID(test, "user123"), checkIn); err != nil {
		test.Fatalf("first create: %v", err)
	}
	_, err := service.CreateReservation(context.Background(), cabinID, mustUserID(test, "someone-else"), checkIn)
	if !errors.Is(err, ErrDateUnavailable) {
		test.Fatalf("expected ErrDateUnavailable, got %v", err)
	}
}

func TestCreateReservationAllowsDateFreedByCancellation(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	cabinID := mustCabinID(test, "cabin2")
	checkIn := mustStayDate(test, testSunday)

	first, err := service.CreateReservation(context.Background(), cabinID, mustUserID(test, "user123"), checkIn)
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if _, err := service.Cancel(context.Background(), first.ID()); err != nil {
		test.Fatalf("cancel: %v", err)
	}
	if _, err := service.CreateReservation(context.Background(), cabinID, mustUserID(test, "user123"), checkIn); err != nil {
		test.Fatalf("rebooking a cancelled date: %v", err)
	}
}

func TestCreateReservationRejectsPastDate(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	_, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "user123"), mustStayDate(test, "2026-03-01"))
	if !errors.Is(err, ErrDateInPast) {
		test.Fatalf("expected ErrDateInPast, got %v", err)
	}
}

func TestCreateReservationSameDayIsAllowed(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	if _, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "user123"), mustStayDate(test, "2026-03-02")); err != nil {
		test.Fatalf("same-day booking: %v", err)
	}
}

func TestCreateReservationUnknownCabin(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	_, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin99"), mustUserID(test, "user123"), mustStayDate(test, testSaturday))
	if !errors.Is(err, ErrCabinNotFound) {
		test.Fatalf("expected ErrCabinNotFound, got %v", err)
	}
}

func TestBookedDatesReflectsOnlyBlockingStatuses(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	cabinID := mustCabinID(test, "cabin1")
	userID := mustUserID(test, "user123")

	if _, err := service.CreateReservation(context.Background(), cabinID, userID, mustStayDate(test, testSaturday)); err != nil {
		test.Fatalf("create pending: %v", err)
	}
	confirmed, err := service.CreateReservation(context.Background(), cabinID, userID, mustStayDate(test, testSunday))
	if err != nil {
		test.Fatalf("create confirmed: %v", err)
	}
	paymentID := mustPaymentID(test, "pay-1")
	if _, err := service.UpdateStatus(context.Background(), confirmed.ID(), StatusConfirmed, &paymentID); err != nil {
		test.Fatalf("confirm: %v", err)
	}
	failed, err := service.CreateReservation(context.Background(), cabinID, userID, mustStayDate(test, testMonday))
	if err != nil {
		test.Fatalf("create failed: %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), failed.ID(), StatusPaymentFailed, nil); err != nil {
		test.Fatalf("fail payment: %v", err)
	}

	dates, err := service.BookedDates(context.Background(), cabinID)
	if err != nil {
		test.Fatalf("booked dates: %v", err)
	}
	if len(dates) != 2 {
		test.Fatalf("expected 2 blocking dates, got %d", len(dates))
	}
	if dates[0].String() != testSaturday || dates[1].String() != testSunday {
		test.Fatalf("expected [%s %s] ascending, got [%s %s]", testSaturday, testSunday, dates[0], dates[1])
	}
}

func TestBookedDatesUnknownCabin(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	_, err := service.BookedDates(context.Background(), mustCabinID(test, "cabin99"))
	if !errors.Is(err, ErrCabinNotFound) {
		test.Fatalf("expected ErrCabinNotFound, got %v", err)
	}
}

func TestUpdateStatusRecordsPaymentID(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	created, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "user123"), mustStayDate(test, testSaturday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	paymentID := mustPaymentID(test, "pay_abc")

	updated, err := service.UpdateStatus(context.Background(), created.ID(), StatusConfirmed, &paymentID)
	if err != nil {
		test.Fatalf("update status: %v", err)
	}
	if updated.Status() != StatusConfirmed {
		test.Fatalf("expected confirmed, got %s", updated.Status())
	}
	recorded, ok := updated.PaymentID()
	if !ok || recorded != paymentID {
		test.Fatalf("expected payment id %s recorded, got %v ok=%v", paymentID.String(), recorded, ok)
	}
}

func TestUpdateStatusFailsClosedOnIllegalTransition(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	created, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "user123"), mustStayDate(test, testSaturday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if _, err := service.Cancel(context.Background(), created.ID()); err != nil {
		test.Fatalf("cancel: %v", err)
	}

	paymentID := mustPaymentID(test, "pay_late")
	_, err = service.UpdateStatus(context.Background(), created.ID(), StatusConfirmed, &paymentID)
	if !errors.Is(err, ErrInvalidTransition) {
		test.Fatalf("expected ErrInvalidTransition for cancelled -> confirmed, got %v", err)
	}
	if store.mustReservation(test, created.ID()).Status() != StatusCancelled {
		test.Fatalf("cancelled reservation must stay cancelled")
	}
}

func TestUpdateStatusUnknownReservation(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	_, err := service.UpdateStatus(context.Background(), mustReservationID(test, "missing"), StatusConfirmed, nil)
	if !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestCancelPendingReleasesDate(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	cabinID := mustCabinID(test, "cabin1")
	created, err := service.CreateReservation(context.Background(), cabinID, mustUserID(test, "user123"), mustStayDate(test, testSaturday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}

	cancelled, err := service.Cancel(context.Background(), created.ID())
	if err != nil {
		test.Fatalf("cancel: %v", err)
	}
	if cancelled.Status() != StatusCancelled {
		test.Fatalf("expected cancelled, got %s", cancelled.Status())
	}
	dates, err := service.BookedDates(context.Background(), cabinID)
	if err != nil {
		test.Fatalf("booked dates: %v", err)
	}
	if len(dates) != 0 {
		test.Fatalf("expected no booked dates after cancel, got %v", dates)
	}
}

func TestCancelConfirmedReservation(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	created, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin2"), mustUserID(test, "user123"), mustStayDate(test, testSunday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	paymentID := mustPaymentID(test, "pay-2")
	if _, err := service.UpdateStatus(context.Background(), created.ID(), StatusConfirmed, &paymentID); err != nil {
		test.Fatalf("confirm: %v", err)
	}

	cancelled, err := service.Cancel(context.Background(), created.ID())
	if err != nil {
		test.Fatalf("cancel confirmed: %v", err)
	}
	if cancelled.Status() != StatusCancelled {
		test.Fatalf("expected cancelled, got %s", cancelled.Status())
	}
}

func TestCancelRejectsTerminalStatuses(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	created, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "user123"), mustStayDate(test, testSaturday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if _, err := service.Cancel(context.Background(), created.ID()); err != nil {
		test.Fatalf("cancel: %v", err)
	}
	if _, err := service.Cancel(context.Background(), created.ID()); !errors.Is(err, ErrNotCancellable) {
		test.Fatalf("expected ErrNotCancellable on cancelled, got %v", err)
	}

	failed, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "user123"), mustStayDate(test, testSunday))
	if err != nil {
		test.Fatalf("create: %v", err)
	}
	if _, err := service.UpdateStatus(context.Background(), failed.ID(), StatusPaymentFailed, nil); err != nil {
		test.Fatalf("fail payment: %v", err)
	}
	if _, err := service.Cancel(context.Background(), failed.ID()); !errors.Is(err, ErrNotCancellable) {
		test.Fatalf("expected ErrNotCancellable on payment_failed, got %v", err)
	}
}

func TestReservationsForUserFiltersExactly(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)
	if _, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "u1"), mustStayDate(test, testSaturday)); err != nil {
		test.Fatalf("create: %v", err)
	}
	if _, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin2"), mustUserID(test, "u1"), mustStayDate(test, testSaturday)); err != nil {
		test.Fatalf("create: %v", err)
	}
	if _, err := service.CreateReservation(context.Background(), mustCabinID(test, "cabin1"), mustUserID(test, "u10"), mustStayDate(test, testSunday)); err != nil {
		test.Fatalf("create: %v", err)
	}

	reservations, err := service.ReservationsForUser(context.Background(), mustUserID(test, "u1"))
	if err != nil {
		test.Fatalf("list: %v", err)
	}
	if len(reservations) != 2 {
		test.Fatalf("expected 2 reservations for u1, got %d", len(reservations))
	}
	for _, reservation := range reservations {
		if reservation.UserID().String() != "u1" {
			test.Fatalf("unexpected owner %s", reservation.UserID().String())
		}
	}
}

func TestReservationByIDUnknown(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store)

	_, err := service.ReservationByID(context.Background(), mustReservationID(test, "missing"))
	if !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestListCabinsKeepsSeedOrder(test *testing.T) {
	test.Parallel()
	service := mustNewService(test, newStubStore(test))

	cabins := service.ListCabins()
	if len(cabins) != 3 {
		test.Fatalf("expected 3 cabins, got %d", len(cabins))
	}
	expected := []string{"Lakeside Retreat", "Mountain Hideaway", "Forest Haven"}
	for i, name := range expected {
		if cabins[i].Name != name {
			test.Fatalf("cabin %d: expected %q, got %q", i, name, cabins[i].Name)
		}
	}
}

func TestQuoteAppliesWeekendSurcharge(test *testing.T) {
	test.Parallel()
	service := mustNewService(test, newStubStore(test))

	rate, err := service.Quote(mustCabinID(test, "cabin1"), mustStayDate(test, testSaturday))
	if err != nil {
		test.Fatalf("quote: %v", err)
	}
	if rate != 18000 {
		test.Fatalf("expected 18000, got %d", rate)
	}
	rate, err = service.Quote(mustCabinID(test, "cabin1"), mustStayDate(test, testMonday))
	if err != nil {
		test.Fatalf("quote: %v", err)
	}
	if rate != 15000 {
		test.Fatalf("expected 15000, got %d", rate)
	}
}

func TestNewServiceRequiresDependencies(test *testing.T) {
	test.Parallel()
	catalog := mustCatalog(test)
	now := func() time.Time { return testClock }
	newID := func() string { return "id" }

	if _, err := NewService(nil, catalog, now, newID); !errors.Is(err, ErrInvalidServiceConfig) {
		test.Fatalf("expected invalid service config for nil store, got %v", err)
	}
	store := newStubStore(test)
	if _, err := NewService(store, nil, now, newID); !errors.Is(err, ErrInvalidServiceConfig) {
		test.Fatalf("expected invalid service config for nil catalog, got %v", err)
	}
	if _, err := NewService(store, catalog, nil, newID); !errors.Is(err, ErrInvalidServiceConfig) {
		test.Fatalf("expected invalid service config for nil clock, got %v", err)
	}
	if _, err := NewService(store, catalog, now, nil); !errors.Is(err, ErrInvalidServiceConfig) {
		test.Fatalf("expected invalid service config for nil id generator, got %v", err)
	}
}
