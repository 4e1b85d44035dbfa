package gormstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/CedarRidgeStays/booking/pkg/booking"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	pgUniqueViolationCode = "23505"
	sqliteConstraintCode  = 19

	errorOperationStore     = "store"
	errorSubjectCabin       = "cabin"
	errorSubjectReservation = "reservation"
	errorCodeDuplicate      = "duplicate"
	errorCodeGet            = "get"
	errorCodeInsert         = "insert"
	errorCodeInvalid        = "invalid"
	errorCodeList           = "list"
	errorCodeSeed           = "seed"
	errorCodeUpdateStatus   = "update_status"
)

// Store implements booking.Store using GORM over sqlite or postgres.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Cabin{}, &Reservation{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// WithTx executes fn within a database transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

// SeedCatalog persists the cabin inventory, leaving existing rows alone.
func (store *Store) SeedCatalog(ctx context.Context, cabins []booking.Cabin) error {
	for _, cabin := range cabins {
		amenities, err := json.Marshal(cabin.Amenities)
		if err != nil {
			return wrapStoreError(errorSubjectCabin, errorCodeSeed, err)
		}
		row := Cabin{
			CabinID:        cabin.ID.String(),
			Name:           cabin.Name,
			Description:    cabin.Description,
			ImageURL:       cabin.ImageURL,
			BasePriceCents: cabin.BasePrice.Int64(),
			Amenities:      amenities,
			Capacity:       cabin.Capacity,
			CreatedAt:      time.Now().UTC(),
		}
		err = store.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&row).Error
		if err != nil {
			return wrapStoreError(errorSubjectCabin, errorCodeSeed, err)
		}
	}
	return nil
}

// InsertReservation adds a new reservation row.
func (store *Store) InsertReservation(ctx context.Context, reservation booking.Reservation) error {
	var paymentID *string
	if recorded, ok := reservation.PaymentID(); ok {
		value := recorded.String()
		paymentID = &value
	}
	row := Reservation{
		ReservationID:   reservation.ID().String(),
		CabinID:         reservation.CabinID().String(),
		CabinName:       reservation.CabinName(),
		UserID:          reservation.UserID().String(),
		CheckInDate:     reservation.CheckIn().String(),
		CheckOutDate:    reservation.CheckOut().String(),
		TotalPriceCents: reservation.TotalPrice().Int64(),
		Status:          reservation.Status().String(),
		PaymentID:       paymentID,
		CreatedAt:       reservation.CreatedAt(),
	}
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return wrapStoreError(errorSubjectReservation, errorCodeDuplicate, booking.ErrReservationExists)
	}
	if err != nil {
		return wrapStoreError(errorSubjectReservation, errorCodeInsert, err)
	}
	return nil
}

// GetReservation fetches one reservation row, locked for update inside
// a transaction.
func (store *Store) GetReservation(ctx context.Context, reservationID booking.ReservationID) (booking.Reservation, error) {
	var row Reservation
	err := store.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_id = ?", reservationID.String()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeGet, booking.ErrReservationNotFound)
		}
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeGet, err)
	}
	return mapReservation(row)
}

// ListReservationsByUser returns the user's reservation rows.
func (store *Store) ListReservationsByUser(ctx context.Context, userID booking.UserID) ([]booking.Reservation, error) {
	var rows []Reservation
	err := store.db.WithContext(ctx).
		Where("user_id = ?", userID.String()).
		Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectReservation, errorCodeList, err)
	}
	reservations := make([]booking.Reservation, 0, len(rows))
	for _, row := range rows {
		reservation, err := mapReservation(row)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, reservation)
	}
	return reservations, nil
}

// ListActiveDates returns check-in dates of the cabin's reservations in
// a status that still blocks the date.
func (store *Store) ListActiveDates(ctx context.Context, cabinID booking.CabinID) ([]booking.StayDate, error) {
	var rawDates []string
	err := store.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("cabin_id = ? AND status IN ?", cabinID.String(), []string{
			booking.StatusConfirmed.String(),
			booking.StatusPendingPayment.String(),
		}).
		Pluck("check_in_date", &rawDates).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectReservation, errorCodeList, err)
	}
	dates := make([]booking.StayDate, 0, len(rawDates))
	for _, raw := range rawDates {
		date, err := booking.NewStayDate(raw)
		if err != nil {
			return nil, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
		}
		dates = append(dates, date)
	}
	return dates, nil
}

// UpdateReservationStatus applies a compare-and-set status change.
func (store *Store) UpdateReservationStatus(ctx context.Context, reservationID booking.ReservationID, from booking.Status, to booking.Status, paymentID *booking.PaymentID) error {
	updates := map[string]interface{}{"status": to.String()}
	if paymentID != nil {
		updates["payment_id"] = paymentID.String()
	}
	result := store.db.WithContext(ctx).
		Model(&Reservation{}).
		Where("reservation_id = ? AND status = ?", reservationID.String(), from.String()).
		Updates(updates)
	if result.Error != nil {
		return wrapStoreError(errorSubjectReservation, errorCodeUpdateStatus, result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := store.db.WithContext(ctx).Model(&Reservation{}).Where("reservation_id = ?", reservationID.String()).Count(&count).Error; err != nil {
			return wrapStoreError(errorSubjectReservation, errorCodeUpdateStatus, err)
		}
		if count == 0 {
			return wrapStoreError(errorSubjectReservation, errorCodeUpdateStatus, booking.ErrReservationNotFound)
		}
		return wrapStoreError(errorSubjectReservation, errorCodeUpdateStatus, booking.ErrInvalidTransition)
	}
	return nil
}

func mapReservation(row Reservation) (booking.Reservation, error) {
	reservationID, err := booking.NewReservationID(row.ReservationID)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	cabinID, err := booking.NewCabinID(row.CabinID)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	userID, err := booking.NewUserID(row.UserID)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	checkIn, err := booking.NewStayDate(row.CheckInDate)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	totalPrice, err := booking.NewAmountCents(row.TotalPriceCents)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	status, err := booking.ParseStatus(row.Status)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	var paymentID *booking.PaymentID
	if row.PaymentID != nil {
		parsed, err := booking.NewPaymentID(*row.PaymentID)
		if err != nil {
			return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
		}
		paymentID = &parsed
	}
	reservation, err := booking.NewReservation(reservationID, cabinID, row.CabinName, userID, checkIn, totalPrice, status, paymentID, row.CreatedAt)
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeInvalid, err)
	}
	return reservation, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == pgUniqueViolationCode {
		return true
	}
	var sqliteError *gosqlite.Error
	if errors.As(err, &sqliteError) && sqliteError.Code()%256 == sqliteConstraintCode {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func wrapStoreError(subject string, code string, err error) error {
	return booking.WrapError(errorOperationStore, subject, code, err)
}
