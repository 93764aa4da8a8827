package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	invoicedomain "github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	obslogger "github.com/M-Haris-27/ZoroPay/internal/observability/logger"
	"github.com/M-Haris-27/ZoroPay/internal/observability/metrics"
	"github.com/M-Haris-27/ZoroPay/internal/paymentlink/domain"
	providerdomain "github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Users    userdomain.Service
	Invoices invoicedomain.Service
	Provider providerdomain.Provider
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	users    userdomain.Service
	invoices invoicedomain.Service
	provider providerdomain.Provider
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("paymentlink.service"),
		users:    p.Users,
		invoices: p.Invoices,
		provider: p.Provider,
		metrics:  p.Metrics,
	}
}

func (s *Service) CreatePaymentLink(ctx context.Context, req domain.CreatePaymentLinkRequest) (string, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return "", domain.ErrInvalidUserID
	}
	invoiceID := strings.TrimSpace(req.InvoiceID)
	if invoiceID == "" {
		return "", domain.ErrInvalidInvoiceID
	}
	if math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) || req.Amount <= 0 {
		return "", domain.ErrInvalidAmount
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	invoice, err := s.invoices.GetByID(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, invoicedomain.ErrNotFound) {
			return "", domain.ErrInvoiceNotFound
		}
		return "", fmt.Errorf("find invoice: %w", err)
	}

	// The charged amount comes from the stored line item, not the request.
	// An invoice patched down to no items still goes to the provider with a
	// blank product, which the provider rejects.
	var item invoicedomain.InvoiceItem
	if len(invoice.InvoiceItems) > 0 {
		item = invoice.InvoiceItems[0]
	}
	unitAmount, err := providerdomain.MinorUnits(item.ServicePrice)
	if err != nil {
		return "", fmt.Errorf("%w: unit amount: %w", providerdomain.ErrUpstream, err)
	}

	price, err := s.provider.CreatePrice(ctx, providerdomain.PriceParams{
		ProductID:  item.ServiceID,
		Currency:   providerdomain.CurrencyUSD,
		UnitAmount: unitAmount,
	})
	if err != nil {
		return "", fmt.Errorf("%w: create price: %w", providerdomain.ErrUpstream, err)
	}

	link, err := s.provider.CreatePaymentLink(ctx, price.ID, 1)
	if err != nil {
		return "", fmt.Errorf("%w: create payment link: %w", providerdomain.ErrUpstream, err)
	}

	if err := s.invoices.AttachPaymentLink(ctx, invoice.ID.String(), link.URL); err != nil {
		if errors.Is(err, invoicedomain.ErrNotFound) {
			return "", domain.ErrInvoiceNotFound
		}
		return "", err
	}

	s.metrics.RecordPaymentLink(ctx)
	s.log.Info("payment link created",
		obslogger.InvoiceID(invoice.ID.String()),
		obslogger.UserID(userID),
		zap.String("price_id", price.ID),
		zap.String("payment_link_id", link.ID),
		zap.Int64("unit_amount", unitAmount),
	)
	return link.URL, nil
}
