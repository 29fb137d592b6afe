package log

// Shared attribute keys so the same concept logs under the same name in
// every component.
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldError         = "error"
	FieldEventType     = "event_type"
	FieldItemID        = "item_id"
	FieldUserID        = "user_id"
	FieldBookingID     = "booking_id"
	FieldBillID        = "bill_id"
	FieldTitle         = "title"
	FieldAmountCents   = "amount_cents"
	FieldValueCents    = "value_cents"
	FieldOwnerCount    = "owner_count"
	FieldStartDate     = "start_date"
	FieldEndDate       = "end_date"
	FieldBookingStatus = "booking_status"
	FieldPeriod        = "period"
	FieldQueue         = "queue"
	FieldExchange      = "exchange"
	FieldSheetsRef     = "sheets_ref"
)

// Component names, one per subsystem.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentItem    = "item"
	ComponentBooking = "booking"
	ComponentBilling = "billing"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentReport  = "report"
)
