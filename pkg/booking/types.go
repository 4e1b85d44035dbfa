package booking

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AmountCents is an integer currency amount in cents.
type AmountCents int64

// NewAmountCents validates an amount and ensures it is strictly positive.
func NewAmountCents(raw int64) (AmountCents, error) {
	if raw <= 0 {
		return 0, fmt.Errorf("%w: must be greater than zero", ErrInvalidAmountCents)
	}
	return AmountCents(raw), nil
}

// Int64 returns the raw cent amount.
func (amount AmountCents) Int64() int64 {
	return int64(amount)
}

// Units returns the amount in whole currency units, truncating cents.
func (amount AmountCents) Units() int64 {
	return int64(amount) / centsPerUnit
}

// CabinID identifies a bookable cabin.
type CabinID struct {
	value string
}

// NewCabinID validates and normalizes a cabin id.
func NewCabinID(raw string) (CabinID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return CabinID{}, fmt.Errorf("%w: empty value", ErrInvalidCabinID)
	}
	return CabinID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id CabinID) String() string {
	return id.value
}

// UserID identifies a reservation owner.
type UserID struct {
	value string
}

// NewUserID validates and normalizes a user id.
func NewUserID(raw string) (UserID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return UserID{}, fmt.Errorf("%w: empty value", ErrInvalidUserID)
	}
	return UserID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id UserID) String() string {
	return id.value
}

// ReservationID identifies a reservation.
type ReservationID struct {
	value string
}

// NewReservationID validates and normalizes a reservation id.
func NewReservationID(raw string) (ReservationID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ReservationID{}, fmt.Errorf("%w: empty value", ErrInvalidReservationID)
	}
	return ReservationID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id ReservationID) String() string {
	return id.value
}

// PaymentID references a successful payment authorization.
type PaymentID struct {
	value string
}

// NewPaymentID validates and normalizes a payment id.
func NewPaymentID(raw string) (PaymentID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PaymentID{}, fmt.Errorf("%w: empty value", ErrInvalidPaymentID)
	}
	return PaymentID{value: trimmed}, nil
}

// String returns the normalized identifier.
func (id PaymentID) String() string {
	return id.value
}

// StayDate is a calendar date in the ISO YYYY-MM-DD form. Stays are a
// single night, so one StayDate identifies a whole reservation window.
type StayDate struct {
	value time.Time
}

// NewStayDate parses an ISO calendar date.
func NewStayDate(raw string) (StayDate, error) {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(raw))
	if err != nil {
		return StayDate{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidStayDate, raw)
	}
	return StayDate{value: parsed}, nil
}

// StayDateOf truncates an instant to its UTC calendar date.
func StayDateOf(instant time.Time) StayDate {
	year, month, day := instant.UTC().Date()
	return StayDate{value: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// String returns the ISO form of the date.
func (date StayDate) String() string {
	return date.value.Format(time.DateOnly)
}

// Next returns the following calendar day.
func (date StayDate) Next() StayDate {
	return StayDate{value: date.value.AddDate(0, 0, 1)}
}

// Before reports whether date is strictly earlier than other.
func (date StayDate) Before(other StayDate) bool {
	return date.value.Before(other.value)
}

// IsWeekend reports whether the date falls on Saturday or Sunday.
func (date StayDate) IsWeekend() bool {
	weekday := date.value.Weekday()
	return weekday == time.Saturday || weekday == time.Sunday
}

// IsZero reports whether the date was never set.
func (date StayDate) IsZero() bool {
	return date.value.IsZero()
}

// Status defines the reservation lifecycle.
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusCancelled      Status = "cancelled"
	StatusPaymentFailed  Status = "payment_failed"
)

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPendingPayment, StatusConfirmed, StatusCancelled, StatusPaymentFailed:
		return Status(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
}

// String returns the wire form of the status.
func (status Status) String() string {
	return string(status)
}

// BlocksDate reports whether a reservation in this status keeps its
// check-in date out of the availability index.
func (status Status) BlocksDate() bool {
	return status == StatusConfirmed || status == StatusPendingPayment
}

// Cancellable reports whether a reservation in this status may be cancelled.
func (status Status) Cancellable() bool {
	return status == StatusConfirmed || status == StatusPendingPayment
}

// AwaitsPayment reports whether a payment attempt is permitted.
// payment_failed qualifies because a retry re-runs payment in place.
func (status Status) AwaitsPayment() bool {
	return status == StatusPendingPayment || status == StatusPaymentFailed
}

// legalTransitions is the full lifecycle table. cancelled is terminal;
// payment_failed -> payment_failed covers an idempotent failed retry.
var legalTransitions = map[Status][]Status{
	StatusPendingPayment: {StatusConfirmed, StatusPaymentFailed, StatusCancelled},
	StatusConfirmed:      {StatusCancelled},
	StatusPaymentFailed:  {StatusConfirmed, StatusPaymentFailed},
	StatusCancelled:      {},
}

// CanTransition reports whether the lifecycle permits moving from one
// status to another.
func CanTransition(from Status, to Status) bool {
	for _, allowed := range legalTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cabin is a bookable unit. Seeded at process start and never mutated.
type Cabin struct {
	ID          CabinID
	Name        string
	Description string
	ImageURL    string
	BasePrice   AmountCents
	Amenities   []string
	Capacity    int
}

// NewCabin validates a cabin definition.
func NewCabin(id CabinID, name string, description string, imageURL string, basePrice AmountCents, amenities []string, capacity int) (Cabin, error) {
	if strings.TrimSpace(name) == "" {
		return Cabin{}, fmt.Errorf("%w: empty name", ErrInvalidCabin)
	}
	if basePrice <= 0 {
		return Cabin{}, fmt.Errorf("%w: base price must be positive", ErrInvalidCabin)
	}
	if capacity <= 0 {
		return Cabin{}, fmt.Errorf("%w: capacity must be positive", ErrInvalidCabin)
	}
	return Cabin{
		ID:          id,
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		BasePrice:   basePrice,
		Amenities:   amenities,
		Capacity:    capacity,
	}, nil
}

// Reservation is one booking record for a cabin and a single-night stay.
// The check-out date is derived, so checkOut == checkIn+1 holds by
// construction, and the total price is frozen at creation.
type Reservation struct {
	id         ReservationID
	cabinID    CabinID
	cabinName  string
	userID     UserID
	checkIn    StayDate
	totalPrice AmountCents
	status     Status
	paymentID  *PaymentID
	createdAt  time.Time
}

// NewReservation validates and assembles a reservation record.
func NewReservation(id ReservationID, cabinID CabinID, cabinName string, userID UserID, checkIn StayDate, totalPrice AmountCents, status Status, paymentID *PaymentID, createdAt time.Time) (Reservation, error) {
	if strings.TrimSpace(cabinName) == "" {
		return Reservation{}, fmt.Errorf("%w: empty cabin name", ErrInvalidReservation)
	}
	if checkIn.IsZero() {
		return Reservation{}, fmt.Errorf("%w: missing check-in date", ErrInvalidReservation)
	}
	if totalPrice <= 0 {
		return Reservation{}, fmt.Errorf("%w: total price must be positive", ErrInvalidReservation)
	}
	if _, err := ParseStatus(status.String()); err != nil {
		return Reservation{}, err
	}
	if createdAt.IsZero() {
		return Reservation{}, fmt.Errorf("%w: missing creation time", ErrInvalidReservation)
	}
	return Reservation{
		id:         id,
		cabinID:    cabinID,
		cabinName:  cabinName,
		userID:     userID,
		checkIn:    checkIn,
		totalPrice: totalPrice,
		status:     status,
		paymentID:  paymentID,
		createdAt:  createdAt.UTC(),
	}, nil
}

// ID returns the reservation identifier.
func (reservation Reservation) ID() ReservationID {
	return reservation.id
}

// CabinID returns the booked cabin's identifier.
func (reservation Reservation) CabinID() CabinID {
	return reservation.cabinID
}

// CabinName returns the cabin name snapshot taken at booking time.
func (reservation Reservation) CabinName() string {
	return reservation.cabinName
}

// UserID returns the booking owner.
func (reservation Reservation) UserID() UserID {
	return reservation.userID
}

// CheckIn returns the check-in date.
func (reservation Reservation) CheckIn() StayDate {
	return reservation.checkIn
}

// CheckOut returns the check-out date, always one day after check-in.
func (reservation Reservation) CheckOut() StayDate {
	return reservation.checkIn.Next()
}

// TotalPrice returns the price frozen at creation.
func (reservation Reservation) TotalPrice() AmountCents {
	return reservation.totalPrice
}

// Status returns the current lifecycle status.
func (reservation Reservation) Status() Status {
	return reservation.status
}

// PaymentID returns the recorded payment reference, if any.
func (reservation Reservation) PaymentID() (PaymentID, bool) {
	if reservation.paymentID == nil {
		return PaymentID{}, false
	}
	return *reservation.paymentID, true
}

// CreatedAt returns the creation timestamp in UTC.
func (reservation Reservation) CreatedAt() time.Time {
	return reservation.createdAt
}

// WithStatus returns a copy of the record carrying the new status, and
// the payment reference when one is supplied. It is a store-level record
// transform; lifecycle legality is enforced by the Service.
func (reservation Reservation) WithStatus(to Status, paymentID *PaymentID) Reservation {
	updated := reservation
	updated.status = to
	if paymentID != nil {
		updated.paymentID = paymentID
	}
	return updated
}

// Store is the persistence contract used by Service. The in-memory store
// is the default; gormstore implements the same contract over a database.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error
	InsertReservation(ctx context.Context, reservation Reservation) error
	GetReservation(ctx context.Context, reservationID ReservationID) (Reservation, error)
	ListReservationsByUser(ctx context.Context, userID UserID) ([]Reservation, error)
	ListActiveDates(ctx context.Context, cabinID CabinID) ([]StayDate, error)
	UpdateReservationStatus(ctx context.Context, reservationID ReservationID, from Status, to Status, paymentID *PaymentID) error
}
