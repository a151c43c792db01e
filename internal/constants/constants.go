package constants

// Context keys
const (
	ContextKeyUserID = "user_id"
	ContextKeyClaims = "claims"
	ContextKeyScope  = "scope"
	ContextKeyReqID  = "request_id"
)

const RequestIDHeader = "X-Request-ID"

// Validation
const (
	MinPasswordLength = 8
	MaxCompanyName    = 200
	MaxCompanyCode    = 10
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Uploads
const (
	UploadFormField    = "file"
	DefaultContentType = "application/octet-stream"
	DefaultMaxUploadMB = 25
	DefaultUploadsDir  = "uploads"
)
