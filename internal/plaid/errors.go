package plaid

import (
	"errors"
	"fmt"
)

// Class buckets every upstream failure into the retry semantics callers
// care about. The client never retries; linker and syncer decide per class.
type Class int

const (
	ClassInvalidRequest Class = iota
	ClassAuthExpired
	ClassRateLimited
	ClassUpstreamError
	ClassNetworkFailure
)

func (c Class) String() string {
	switch c {
	case ClassInvalidRequest:
		return "invalid_request"
	case ClassAuthExpired:
		return "auth_expired"
	case ClassRateLimited:
		return "rate_limited"
	case ClassUpstreamError:
		return "upstream_error"
	case ClassNetworkFailure:
		return "network_failure"
	}
	return "unknown"
}

// apiError is the error body the aggregator returns on non-2xx responses.
type apiError struct {
	ErrorType      string  `json:"error_type"`
	ErrorCode      string  `json:"error_code"`
	ErrorMessage   string  `json:"error_message"`
	DisplayMessage *string `json:"display_message"`
	RequestID      string  `json:"request_id"`
}

// Error is a classified aggregator failure.
type Error struct {
	Class      Class
	ErrorType  string
	ErrorCode  string
	Message    string
	RequestID  string
	StatusCode int
	cause      error
}

func (e *Error) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("plaid: %v %v: %v", e.Class, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("plaid: %v: %v", e.Class, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ClassOf extracts the failure class from any error in the chain.
// The second return is false for errors that did not originate upstream.
func ClassOf(err error) (Class, bool) {
	var plaidErr *Error
	if errors.As(err, &plaidErr) {
		return plaidErr.Class, true
	}
	return 0, false
}

func networkError(cause error) *Error {
	return &Error{
		Class:   ClassNetworkFailure,
		Message: cause.Error(),
		cause:   cause,
	}
}

func invalidRequestError(message string) *Error {
	return &Error{
		Class:   ClassInvalidRequest,
		Message: message,
	}
}

// classify maps the aggregator's error_type/error_code taxonomy onto ours.
// ITEM_ERROR covers both revoked consent and expired logins; either way the
// credential is no longer usable without a re-link.
func classify(statusCode int, body *apiError) *Error {
	class := ClassUpstreamError

	switch body.ErrorType {
	case "INVALID_REQUEST", "INVALID_INPUT":
		class = ClassInvalidRequest
	case "RATE_LIMIT_EXCEEDED":
		class = ClassRateLimited
	case "ITEM_ERROR":
		class = ClassAuthExpired
	case "INVALID_RESULT", "API_ERROR", "INSTITUTION_ERROR":
		class = ClassUpstreamError
	}

	switch body.ErrorCode {
	case "ITEM_LOGIN_REQUIRED", "INVALID_ACCESS_TOKEN", "ITEM_LOCKED", "ACCESS_NOT_GRANTED":
		class = ClassAuthExpired
	case "INVALID_PUBLIC_TOKEN":
		class = ClassInvalidRequest
	}

	return &Error{
		Class:      class,
		ErrorType:  body.ErrorType,
		ErrorCode:  body.ErrorCode,
		Message:    body.ErrorMessage,
		RequestID:  body.RequestID,
		StatusCode: statusCode,
	}
}
