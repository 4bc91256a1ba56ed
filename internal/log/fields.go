package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOwnerID    = "owner_id"
	FieldEntryID    = "entry_id"
	FieldAction     = "action"
	FieldCategory   = "category"
	FieldPeriod     = "period"
	FieldAmount     = "amount"
	FieldSpent      = "spent"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentReports = "reports"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentCache   = "cache"
)
