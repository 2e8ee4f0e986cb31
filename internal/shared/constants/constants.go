package constants

const (
	// Default paging for limit/offset listings
	DefaultLimit = 50

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUser      = "user"
	ContextKeyRequestID = "request_id"

	// Table names
	TableCases        = "cases"
	TableCaseSections = "case_sections"
	TableCaseAudits   = "case_audits"
	TableContacts     = "contacts"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgUnauthorized        = "Unauthorized access"
)
