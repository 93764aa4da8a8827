package domain

import (
	"context"
	"errors"
	"time"
)

type CreateInvoiceItemRequest struct {
	ServiceName  string
	ServicePrice *float64
}

type CreateInvoiceRequest struct {
	UserID       string
	TotalAmount  float64
	InvoiceItems []CreateInvoiceItemRequest
}

type InvoiceItemRequest struct {
	ID           string
	ServiceID    string
	ServiceName  string
	ServicePrice *float64
}

// UpdateInvoiceRequest carries a partial update; nil fields are left untouched.
type UpdateInvoiceRequest struct {
	ID           string
	UserID       *string
	InvoiceItems *[]InvoiceItemRequest
	Total        *float64
	Status       *string
	PaymentDate  *time.Time
	PaymentLink  *string
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context) ([]Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	Update(context.Context, UpdateInvoiceRequest) (Invoice, error)
	Delete(ctx context.Context, id string) error
	AttachPaymentLink(ctx context.Context, id string, link string) error
}

var (
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidTotalAmount  = errors.New("invalid_total_amount")
	ErrInvalidTotal        = errors.New("invalid_total")
	ErrInvalidInvoiceItems = errors.New("invalid_invoice_items")
	ErrInvalidServiceID    = errors.New("invalid_service_id")
	ErrInvalidServiceName  = errors.New("invalid_service_name")
	ErrInvalidServicePrice = errors.New("invalid_service_price")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrNotFound            = errors.New("not_found")
	ErrUserNotFound        = errors.New("user_not_found")
)
