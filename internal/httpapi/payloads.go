package httpapi

import (
	"sort"

	"github.com/CedarRidgeStays/booking/pkg/booking"
)

// CabinPayload mirrors the catalog contract for clients.
type CabinPayload struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	BasePriceCents int64    `json:"base_price_cents"`
	BasePrice      int64    `json:"base_price"`
	Amenities      []string `json:"amenities"`
	Capacity       int      `json:"capacity"`
}

// ReservationPayload mirrors the reservation contract for clients.
// Prices carry both cents and whole currency units.
type ReservationPayload struct {
	ID              string `json:"id"`
	CabinID         string `json:"cabin_id"`
	CabinName       string `json:"cabin_name"`
	UserID          string `json:"user_id"`
	CheckInDate     string `json:"check_in_date"`
	CheckOutDate    string `json:"check_out_date"`
	TotalPriceCents int64  `json:"total_price_cents"`
	TotalPrice      int64  `json:"total_price"`
	Status          string `json:"status"`
	PaymentID       string `json:"payment_id,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// BookedDatesPayload lists a cabin's committed dates as ISO strings.
type BookedDatesPayload struct {
	CabinID string   `json:"cabin_id"`
	Dates   []string `json:"dates"`
}

// QuotePayload reports the nightly rate for a cabin and date.
type QuotePayload struct {
	CabinID          string `json:"cabin_id"`
	Date             string `json:"date"`
	NightlyRateCents int64  `json:"nightly_rate_cents"`
	NightlyRate      int64  `json:"nightly_rate"`
}

// PaymentEnvelope reports a payment attempt's outcome plus the updated
// reservation. A decline is an outcome, not an HTTP error.
type PaymentEnvelope struct {
	Outcome     string             `json:"outcome"`
	Reservation ReservationPayload `json:"reservation"`
}

// ErrorEnvelope encodes API errors.
type ErrorEnvelope struct {
	Error ErrorPayload `json:"error"`
}

// ErrorPayload contains the stable code and message for a failure.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type createReservationRequest struct {
	CabinID     string `json:"cabin_id"`
	CheckInDate string `json:"check_in_date"`
	UserID      string `json:"user_id"`
}

type paymentRequest struct {
	Instrument string `json:"instrument"`
}

type updateStatusRequest struct {
	Status    string `json:"status"`
	PaymentID string `json:"payment_id"`
}

func cabinPayload(cabin booking.Cabin) CabinPayload {
	return CabinPayload{
		ID:             cabin.ID.String(),
		Name:           cabin.Name,
		Description:    cabin.Description,
		ImageURL:       cabin.ImageURL,
		BasePriceCents: cabin.BasePrice.Int64(),
		BasePrice:      cabin.BasePrice.Units(),
		Amenities:      cabin.Amenities,
		Capacity:       cabin.Capacity,
	}
}

func reservationPayload(reservation booking.Reservation) ReservationPayload {
	payload := ReservationPayload{
		ID:              reservation.ID().String(),
		CabinID:         reservation.CabinID().String(),
		CabinName:       reservation.CabinName(),
		UserID:          reservation.UserID().String(),
		CheckInDate:     reservation.CheckIn().String(),
		CheckOutDate:    reservation.CheckOut().String(),
		TotalPriceCents: reservation.TotalPrice().Int64(),
		TotalPrice:      reservation.TotalPrice().Units(),
		Status:          reservation.Status().String(),
		CreatedAt:       reservation.CreatedAt().Format(timestampLayout),
	}
	if paymentID, ok := reservation.PaymentID(); ok {
		payload.PaymentID = paymentID.String()
	}
	return payload
}

// reservationPayloads maps and orders records by creation time,
// newest first, the order reservation listings are displayed in.
func reservationPayloads(reservations []booking.Reservation) []ReservationPayload {
	sorted := make([]booking.Reservation, len(reservations))
	copy(sorted, reservations)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt().Equal(sorted[j].CreatedAt()) {
			return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
		}
		return sorted[i].ID().String() < sorted[j].ID().String()
	})
	payloads := make([]ReservationPayload, 0, len(sorted))
	for _, reservation := range sorted {
		payloads = append(payloads, reservationPayload(reservation))
	}
	return payloads
}
