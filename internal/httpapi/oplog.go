package httpapi

import (
	"context"

	"github.com/CedarRidgeStays/booking/pkg/booking"
	"go.uber.org/zap"
)

// OperationLogger forwards domain operation callbacks to zap.
type OperationLogger struct {
	logger *zap.Logger
}

// NewOperationLogger wraps a zap logger as a booking.OperationLogger.
func NewOperationLogger(logger *zap.Logger) *OperationLogger {
	return &OperationLogger{logger: logger}
}

// LogOperation implements booking.OperationLogger.
func (operationLogger *OperationLogger) LogOperation(_ context.Context, entry booking.OperationLog) {
	fields := []zap.Field{
		zap.String("operation", entry.Operation),
		zap.String("status", entry.Status),
	}
	if entry.ReservationID.String() != "" {
		fields = append(fields, zap.String("reservation_id", entry.ReservationID.String()))
	}
	if entry.CabinID.String() != "" {
		fields = append(fields, zap.String("cabin_id", entry.CabinID.String()))
	}
	if entry.UserID.String() != "" {
		fields = append(fields, zap.String("user_id", entry.UserID.String()))
	}
	if !entry.CheckIn.IsZero() {
		fields = append(fields, zap.String("check_in", entry.CheckIn.String()))
	}
	if entry.Amount > 0 {
		fields = append(fields, zap.Int64("amount_cents", entry.Amount.Int64()))
	}
	if entry.ToStatus != "" {
		fields = append(fields, zap.String("to_status", entry.ToStatus.String()))
	}
	if entry.Error != nil {
		fields = append(fields, zap.Error(entry.Error))
		operationLogger.logger.Warn("booking operation", fields...)
		return
	}
	operationLogger.logger.Info("booking operation", fields...)
}
