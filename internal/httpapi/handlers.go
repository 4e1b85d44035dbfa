package httpapi

import (
	"errors"
	"net/http"

	"github.com/CedarRidgeStays/booking/pkg/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	errorCodeNotFound                = "not_found"
	errorCodeNotCancellable          = "not_cancellable"
	errorCodeInvalidTransition       = "invalid_transition"
	errorCodeInvalidStatusForPayment = "invalid_status_for_payment"
	errorCodeDateUnavailable         = "date_unavailable"
	errorCodeInvalidDate             = "invalid_date"
	errorCodeInvalidArgument         = "invalid_argument"
	errorCodeInternal                = "internal"

	paymentOutcomeConfirmed = "confirmed"
	paymentOutcomeFailed    = "payment_failed"
)

func (handler *httpHandler) handleListCabins(ctx *gin.Context) {
	cabins := handler.service.ListCabins()
	payloads := make([]CabinPayload, 0, len(cabins))
	for _, cabin := range cabins {
		payloads = append(payloads, cabinPayload(cabin))
	}
	ctx.JSON(http.StatusOK, gin.H{"cabins": payloads})
}

func (handler *httpHandler) handleBookedDates(ctx *gin.Context) {
	cabinID, err := booking.NewCabinID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "cabin id is required"))
		return
	}
	dates, err := handler.service.BookedDates(ctx.Request.Context(), cabinID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	raw := make([]string, 0, len(dates))
	for _, date := range dates {
		raw = append(raw, date.String())
	}
	ctx.JSON(http.StatusOK, BookedDatesPayload{CabinID: cabinID.String(), Dates: raw})
}

func (handler *httpHandler) handleQuote(ctx *gin.Context) {
	cabinID, err := booking.NewCabinID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "cabin id is required"))
		return
	}
	date, err := booking.NewStayDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidDate, "date must be YYYY-MM-DD"))
		return
	}
	rate, err := handler.service.Quote(cabinID, date)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, QuotePayload{
		CabinID:          cabinID.String(),
		Date:             date.String(),
		NightlyRateCents: rate.Int64(),
		NightlyRate:      rate.Units(),
	})
}

func (handler *httpHandler) handleCreateReservation(ctx *gin.Context) {
	var request createReservationRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "expected JSON body"))
		return
	}
	cabinID, err := booking.NewCabinID(request.CabinID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "cabin_id is required"))
		return
	}
	checkIn, err := booking.NewStayDate(request.CheckInDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidDate, "check_in_date must be YYYY-MM-DD"))
		return
	}
	userID, err := booking.NewUserID(defaultIfEmpty(request.UserID, handler.cfg.DefaultUserID))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "user_id is required"))
		return
	}
	reservation, err := handler.service.CreateReservation(ctx.Request.Context(), cabinID, userID, checkIn)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, reservationPayload(reservation))
}

func (handler *httpHandler) handleListReservations(ctx *gin.Context) {
	userID, err := booking.NewUserID(defaultIfEmpty(ctx.Query("user_id"), handler.cfg.DefaultUserID))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "user_id is required"))
		return
	}
	reservations, err := handler.service.ReservationsForUser(ctx.Request.Context(), userID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reservations": reservationPayloads(reservations)})
}

func (handler *httpHandler) handleGetReservation(ctx *gin.Context) {
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "reservation id is required"))
		return
	}
	reservation, err := handler.service.ReservationByID(ctx.Request.Context(), reservationID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservationPayload(reservation))
}

func (handler *httpHandler) handlePayment(ctx *gin.Context) {
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "reservation id is required"))
		return
	}
	var request paymentRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "expected JSON body"))
		return
	}
	reservation, err := handler.service.Pay(ctx.Request.Context(), reservationID, request.Instrument)
	switch {
	case err == nil:
		ctx.JSON(http.StatusOK, PaymentEnvelope{
			Outcome:     paymentOutcomeConfirmed,
			Reservation: reservationPayload(reservation),
		})
	case errors.Is(err, booking.ErrPaymentDeclined), errors.Is(err, booking.ErrPaymentFailed):
		// A declined or failed attempt is a recorded outcome, not a
		// transport error.
		ctx.JSON(http.StatusOK, PaymentEnvelope{
			Outcome:     paymentOutcomeFailed,
			Reservation: reservationPayload(reservation),
		})
	default:
		handler.respondError(ctx, err)
	}
}

func (handler *httpHandler) handleUpdateStatus(ctx *gin.Context) {
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "reservation id is required"))
		return
	}
	var request updateStatusRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "expected JSON body"))
		return
	}
	status, err := booking.ParseStatus(request.Status)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "unknown status"))
		return
	}
	var paymentID *booking.PaymentID
	if request.PaymentID != "" {
		parsed, err := booking.NewPaymentID(request.PaymentID)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "invalid payment_id"))
			return
		}
		paymentID = &parsed
	}
	reservation, err := handler.service.UpdateStatus(ctx.Request.Context(), reservationID, status, paymentID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservationPayload(reservation))
}

func (handler *httpHandler) handleCancel(ctx *gin.Context) {
	reservationID, err := booking.NewReservationID(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorResponse(errorCodeInvalidArgument, "reservation id is required"))
		return
	}
	reservation, err := handler.service.Cancel(ctx.Request.Context(), reservationID)
	if err != nil {
		handler.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, reservationPayload(reservation))
}

// respondError maps domain failures onto stable error codes. Everything
// in the taxonomy is recoverable and reported to the caller; only
// unrecognized failures log as server errors.
func (handler *httpHandler) respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrCabinNotFound), errors.Is(err, booking.ErrReservationNotFound):
		ctx.JSON(http.StatusNotFound, errorResponse(errorCodeNotFound, err.Error()))
	case errors.Is(err, booking.ErrDateUnavailable):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeDateUnavailable, err.Error()))
	case errors.Is(err, booking.ErrDateInPast), errors.Is(err, booking.ErrInvalidStayDate):
		ctx.JSON(http.StatusUnprocessableEntity, errorResponse(errorCodeInvalidDate, err.Error()))
	case errors.Is(err, booking.ErrNotCancellable):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeNotCancellable, err.Error()))
	case errors.Is(err, booking.ErrInvalidStatusForPayment):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeInvalidStatusForPayment, err.Error()))
	case errors.Is(err, booking.ErrInvalidTransition):
		ctx.JSON(http.StatusConflict, errorResponse(errorCodeInvalidTransition, err.Error()))
	default:
		handler.logger.Error("booking operation failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, errorResponse(errorCodeInternal, "internal error"))
	}
}

func errorResponse(code string, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorPayload{Code: code, Message: message}}
}
