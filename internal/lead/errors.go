package lead

// Machine-readable error codes returned in the error response envelope.
// Client errors carry one of these; unexpected failures always map to
// ErrCodeInternal with no internal detail leaked.
const (
	ErrCodeInvalidOrigin      = "invalid_origin"
	ErrCodeRateLimited        = "rate_limited"
	ErrCodeInvalidContentType = "invalid_content_type"
	ErrCodePayloadTooLarge    = "payload_too_large"
	ErrCodeInvalidJSON        = "invalid_json"
	ErrCodeRecaptchaFailed    = "recaptcha_failed"
	ErrCodeValidationFailed   = "validation_failed"
	ErrCodeInternal           = "internal_error"
)
