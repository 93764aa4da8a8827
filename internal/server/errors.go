package server

import (
	"errors"
	"net/http"
	"strings"

	invoicedomain "github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	paymentlinkdomain "github.com/M-Haris-27/ZoroPay/internal/paymentlink/domain"
	providerdomain "github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"github.com/gin-gonic/gin"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type   string            `json:"type"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   errorPayload `json:"error"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRateLimited    = errors.New("rate_limited")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, resp := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, resp)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, failure("internal server error", "internal_error")
	}

	if vErr := asValidationErrors(err); vErr != nil {
		resp := failure(validationMessage(vErr.Errors), "validation_error")
		resp.Error.Errors = vErr.Errors
		return http.StatusBadRequest, resp
	}

	if isValidationError(err) {
		code := err.Error()
		errs := []ValidationError{
			{
				Field:   validationErrorField(code),
				Code:    code,
				Message: validationErrorMessage(code),
			},
		}
		resp := failure(validationMessage(errs), "validation_error")
		resp.Error.Errors = errs
		return http.StatusBadRequest, resp
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, failure(notFoundMessage(err), "not_found")
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, failure("too many payment link requests, retry later", "rate_limited")
	case errors.Is(err, userdomain.ErrConflict):
		return http.StatusInternalServerError, failure("a user with this email or phone number already exists", "conflict")
	case errors.Is(err, providerdomain.ErrUpstream):
		return http.StatusInternalServerError, failure("payment provider request failed", "upstream_error")
	default:
		return http.StatusInternalServerError, failure("internal server error", "internal_error")
	}
}

func failure(message, errType string) errorResponse {
	return errorResponse{
		Success: false,
		Message: message,
		Error:   errorPayload{Type: errType},
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isUserValidationError(err),
		isInvoiceValidationError(err),
		isPaymentLinkValidationError(err):
		return true
	default:
		return false
	}
}

func isUserValidationError(err error) bool {
	switch {
	case errors.Is(err, userdomain.ErrInvalidName),
		errors.Is(err, userdomain.ErrInvalidEmail),
		errors.Is(err, userdomain.ErrInvalidPhoneNo):
		return true
	default:
		return false
	}
}

func isInvoiceValidationError(err error) bool {
	switch {
	case errors.Is(err, invoicedomain.ErrInvalidUser),
		errors.Is(err, invoicedomain.ErrInvalidTotalAmount),
		errors.Is(err, invoicedomain.ErrInvalidTotal),
		errors.Is(err, invoicedomain.ErrInvalidInvoiceItems),
		errors.Is(err, invoicedomain.ErrInvalidServiceID),
		errors.Is(err, invoicedomain.ErrInvalidServiceName),
		errors.Is(err, invoicedomain.ErrInvalidServicePrice),
		errors.Is(err, invoicedomain.ErrInvalidStatus):
		return true
	default:
		return false
	}
}

func isPaymentLinkValidationError(err error) bool {
	switch {
	case errors.Is(err, paymentlinkdomain.ErrInvalidUserID),
		errors.Is(err, paymentlinkdomain.ErrInvalidInvoiceID),
		errors.Is(err, paymentlinkdomain.ErrInvalidAmount):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, userdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrUserNotFound),
		errors.Is(err, paymentlinkdomain.ErrUserNotFound),
		errors.Is(err, paymentlinkdomain.ErrInvoiceNotFound):
		return true
	default:
		return false
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, invoicedomain.ErrUserNotFound),
		errors.Is(err, paymentlinkdomain.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, paymentlinkdomain.ErrInvoiceNotFound):
		return "Invoice not found"
	default:
		return "Resource not found"
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "invalid_total_amount", "invalid_amount":
		return "must be greater than 0"
	case "invalid_status":
		return "must be one of pending, paid"
	case "invalid_service_price":
		return "must be a non-negative number"
	default:
		return "required"
	}
}

func validationMessage(errs []ValidationError) string {
	if len(errs) == 1 && errs[0].Code != "invalid_request" {
		return errs[0].Field + " " + errs[0].Message
	}
	return "Please provide all the required fields"
}

// classifyErrorForLog returns the error type and code recorded on request logs.
func classifyErrorForLog(err error) (string, string) {
	_, resp := mapError(err)
	code := resp.Error.Type
	if len(resp.Error.Errors) > 0 {
		code = resp.Error.Errors[0].Code
	}
	return resp.Error.Type, code
}
