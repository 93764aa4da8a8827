package domain

import (
	"context"
	"errors"
)

type CreatePaymentLinkRequest struct {
	UserID    string
	InvoiceID string
	Amount    float64
}

type Service interface {
	// CreatePaymentLink mints a new provider price and link for the invoice's
	// stored line item and saves the link URL on the invoice. Repeated calls
	// overwrite the stored link.
	CreatePaymentLink(context.Context, CreatePaymentLinkRequest) (string, error)
}

var (
	ErrInvalidUserID    = errors.New("invalid_user_id")
	ErrInvalidInvoiceID = errors.New("invalid_invoice_id")
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrUserNotFound     = errors.New("user_not_found")
	ErrInvoiceNotFound  = errors.New("invoice_not_found")
)
