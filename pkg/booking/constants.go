package booking

const (
	operationCreate       = "create_reservation"
	operationUpdateStatus = "update_status"
	operationCancel       = "cancel"
	operationPay          = "pay"

	operationStatusOK    = "ok"
	operationStatusError = "error"

	centsPerUnit = 100
)
