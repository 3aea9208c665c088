package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter ErrorCode = 100
	ErrCodeInvalidConfig    ErrorCode = 101
	ErrCodeInvalidData      ErrorCode = 102
	ErrCodeInvalidPeriod    ErrorCode = 103
	ErrCodeInvalidRequest   ErrorCode = 104

	// Data/Resource errors (200-299)
	ErrCodeNoData      ErrorCode = 200
	ErrCodeQueryFailed ErrorCode = 201

	// Strategy errors (300-399)
	ErrCodeUnknownStrategy ErrorCode = 300

	// Trading errors (400-499)
	ErrCodeInsufficientCash     ErrorCode = 400
	ErrCodeInsufficientPosition ErrorCode = 401
	ErrCodeTradeFailed          ErrorCode = 402

	// Market data errors (500-599)
	ErrCodeMarketDataFetchFailed ErrorCode = 500
	ErrCodeMarketDataParseFailed ErrorCode = 501

	// Auth errors (600-699)
	ErrCodeUnauthorized      ErrorCode = 600
	ErrCodeUserAlreadyExists ErrorCode = 601
)
