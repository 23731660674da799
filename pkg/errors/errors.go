package errors

import (
	"errors"
	"fmt"
	"net/http"

	"checkout/domain/order"
	"checkout/domain/shared"
)

// ErrorCode application error code
type ErrorCode string

const (
	CodeInternal          ErrorCode = "INTERNAL"
	CodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	CodeInvalidUserOrder  ErrorCode = "INVALID_USER_ORDER"
	CodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	CodeForbidden         ErrorCode = "FORBIDDEN"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeConflict          ErrorCode = "CONFLICT"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodeTooManyRequests   ErrorCode = "TOO_MANY_REQUESTS"
	CodeUpstreamFailure   ErrorCode = "UPSTREAM_FAILURE"
)

// descriptor is the storefront client contract for each code: the numeric
// error code and error key existing clients switch on.
type descriptor struct {
	status    int
	errorCode int
	errorKey  string
	message   string
}

var descriptors = map[ErrorCode]descriptor{
	CodeNotFound:          {http.StatusNotFound, 5, "no_data", "No data found."},
	CodeInvalidRequest:    {http.StatusBadRequest, 0, "invalid_credentials", "Invalid Request."},
	CodeInvalidUserOrder:  {http.StatusBadRequest, 6565, "invalid_order_credentials", "Please check your credentials, unable to place order from your account."},
	CodeUnauthorized:      {http.StatusUnauthorized, 0, "unauthorized_request", "UnAuthorized Request."},
	CodeForbidden:         {http.StatusForbidden, 0, "forbidden_request", "Forbidden."},
	CodeInvalidOrderState: {http.StatusUnprocessableEntity, 0, "invalid_order_state", "Order status cannot be changed."},
	CodeConflict:          {http.StatusConflict, 0, "conflict", "Request conflicts with the current state, please retry."},
	CodeTooManyRequests:   {http.StatusTooManyRequests, 0, "too_many_requests", "Too many requests."},
	CodeUpstreamFailure:   {http.StatusBadGateway, 999, "_unknown_failure_occured.", "Unknown failure occurred, please retry."},
	CodeInternal:          {http.StatusInternalServerError, 999, "_unknown_failure_occured.", "internal server error"},
}

// AppError application error rendered at the HTTP boundary
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) lookup() descriptor {
	if d, ok := descriptors[e.Code]; ok {
		return d
	}
	return descriptors[CodeInternal]
}

// HTTPStatusCode HTTP status for the code
func (e *AppError) HTTPStatusCode() int { return e.lookup().status }

// ErrorNumber numeric storefront error code
func (e *AppError) ErrorNumber() int { return e.lookup().errorCode }

// ErrorKey storefront error key
func (e *AppError) ErrorKey() string { return e.lookup().errorKey }

func New(code ErrorCode, message string) *AppError {
	if message == "" {
		message = descriptors[code].message
	}
	return &AppError{Code: code, Message: message}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Err = err
	return appErr
}

func InvalidRequest(message string) *AppError { return New(CodeInvalidRequest, message) }
func NotFound(message string) *AppError       { return New(CodeNotFound, message) }
func Unauthorized(message string) *AppError   { return New(CodeUnauthorized, message) }
func Forbidden(message string) *AppError      { return New(CodeForbidden, message) }
func TooManyRequests(message string) *AppError {
	return New(CodeTooManyRequests, message)
}
func Internal(message string) *AppError { return New(CodeInternal, message) }

// Is checks the code of an AppError in err's chain
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// publicMessager is implemented by domain errors whose message is safe for clients.
type publicMessager interface {
	PublicMessage() string
}

type fielder interface {
	Field() string
}

// FromDomainError maps an error from the domain or application layer onto
// the taxonomy. Unknown errors become INTERNAL and keep the cause for logs.
func FromDomainError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	code := classify(err)
	message := ""
	if code != CodeInternal && code != CodeUpstreamFailure {
		message = publicMessage(err)
	}
	appErr = Wrap(err, code, message)

	var f fielder
	if errors.As(err, &f) {
		appErr.Field = f.Field()
	}
	var de *shared.DomainError
	if errors.As(err, &de) && appErr.Field == "" {
		appErr.Field = de.Field
	}
	return appErr
}

func classify(err error) ErrorCode {
	switch {
	case errors.Is(err, order.ErrInvalidUserOrder):
		return CodeInvalidUserOrder
	case errors.Is(err, shared.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, shared.ErrInvalidInput):
		return CodeInvalidRequest
	case errors.Is(err, shared.ErrInvalidState):
		return CodeInvalidOrderState
	case errors.Is(err, shared.ErrConflict):
		return CodeConflict
	case errors.Is(err, shared.ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, shared.ErrUpstream):
		return CodeUpstreamFailure
	default:
		return CodeInternal
	}
}

func publicMessage(err error) string {
	var pm publicMessager
	if errors.As(err, &pm) {
		return pm.PublicMessage()
	}
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// AsAppError returns err as an AppError, mapping domain errors on the way.
func AsAppError(err error) *AppError {
	return FromDomainError(err)
}
