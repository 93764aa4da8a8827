package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/M-Haris-27/ZoroPay/internal/clock"
	"github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	obslogger "github.com/M-Haris-27/ZoroPay/internal/observability/logger"
	providerdomain "github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Users    userdomain.Service
	Provider providerdomain.Provider
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	users    userdomain.Service
	provider providerdomain.Provider
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		users:    p.Users,
		provider: p.Provider,
	}
}

// Create registers the first line item as a provider product and stores an
// invoice carrying only that item. Any further submitted items are dropped.
func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return domain.Invoice{}, domain.ErrInvalidUser
	}
	if !isFinite(req.TotalAmount) || req.TotalAmount <= 0 {
		return domain.Invoice{}, domain.ErrInvalidTotalAmount
	}
	if len(req.InvoiceItems) == 0 {
		return domain.Invoice{}, domain.ErrInvalidInvoiceItems
	}

	first := req.InvoiceItems[0]
	serviceName, err := normalizeServiceName(first.ServiceName)
	if err != nil {
		return domain.Invoice{}, err
	}
	servicePrice, err := normalizeServicePrice(first.ServicePrice)
	if err != nil {
		return domain.Invoice{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userdomain.ErrNotFound) {
			return domain.Invoice{}, domain.ErrUserNotFound
		}
		return domain.Invoice{}, fmt.Errorf("find user: %w", err)
	}

	product, err := s.provider.CreateProduct(ctx, serviceName)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("%w: create product: %w", providerdomain.ErrUpstream, err)
	}

	now := s.clock.Now()
	invoice := domain.Invoice{
		ID:     s.genID.Generate(),
		UserID: user.ID,
		InvoiceItems: datatypes.JSONSlice[domain.InvoiceItem]{
			{
				ID:           s.genID.Generate(),
				ServiceID:    product.ID,
				ServiceName:  serviceName,
				ServicePrice: servicePrice,
			},
		},
		Total:     req.TotalAmount,
		Status:    domain.InvoiceStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}

	s.log.Info("invoice created",
		obslogger.InvoiceID(invoice.ID.String()),
		obslogger.UserID(invoice.UserID.String()),
		obslogger.ProductID(product.ID),
		zap.Int("submitted_items", len(req.InvoiceItems)),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Invoice, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}
	return invoices, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Invoice, error) {
	invoice, err := s.find(ctx, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	return *invoice, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateInvoiceRequest) (domain.Invoice, error) {
	invoice, err := s.find(ctx, req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	if req.UserID != nil {
		userID, err := snowflake.ParseString(strings.TrimSpace(*req.UserID))
		if err != nil || userID <= 0 {
			return domain.Invoice{}, domain.ErrInvalidUser
		}
		invoice.UserID = userID
	}
	if req.InvoiceItems != nil {
		items, err := s.normalizeItems(*req.InvoiceItems)
		if err != nil {
			return domain.Invoice{}, err
		}
		invoice.InvoiceItems = items
	}
	if req.Total != nil {
		if !isFinite(*req.Total) {
			return domain.Invoice{}, domain.ErrInvalidTotal
		}
		invoice.Total = *req.Total
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(strings.TrimSpace(*req.Status))
		if !status.Valid() {
			return domain.Invoice{}, domain.ErrInvalidStatus
		}
		invoice.Status = status
	}
	if req.PaymentDate != nil {
		paymentDate := req.PaymentDate.UTC()
		invoice.PaymentDate = &paymentDate
	}
	if req.PaymentLink != nil {
		invoice.PaymentLink = strings.TrimSpace(*req.PaymentLink)
	}
	invoice.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, invoice); err != nil {
		return domain.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}

	return *invoice, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, s.db, invoiceID)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if !deleted {
		return domain.ErrNotFound
	}

	s.log.Info("invoice deleted", obslogger.InvoiceID(invoiceID.String()))
	return nil
}

// AttachPaymentLink stores link on the invoice, replacing any previous one.
func (s *Service) AttachPaymentLink(ctx context.Context, id string, link string) error {
	invoiceID, err := parseID(id)
	if err != nil {
		return err
	}

	updated, err := s.repo.UpdatePaymentLink(ctx, s.db, invoiceID, link, s.clock.Now())
	if err != nil {
		return fmt.Errorf("update payment link: %w", err)
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) normalizeItems(in []domain.InvoiceItemRequest) (datatypes.JSONSlice[domain.InvoiceItem], error) {
	items := make(datatypes.JSONSlice[domain.InvoiceItem], 0, len(in))
	for _, item := range in {
		serviceID := strings.TrimSpace(item.ServiceID)
		if serviceID == "" {
			return nil, domain.ErrInvalidServiceID
		}
		serviceName, err := normalizeServiceName(item.ServiceName)
		if err != nil {
			return nil, err
		}
		servicePrice, err := normalizeServicePrice(item.ServicePrice)
		if err != nil {
			return nil, err
		}

		itemID, err := snowflake.ParseString(strings.TrimSpace(item.ID))
		if err != nil || itemID <= 0 {
			itemID = s.genID.Generate()
		}

		items = append(items, domain.InvoiceItem{
			ID:           itemID,
			ServiceID:    serviceID,
			ServiceName:  serviceName,
			ServicePrice: servicePrice,
		})
	}
	return items, nil
}

// parseID treats identifiers that cannot exist as missing records.
func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func normalizeServiceName(value string) (string, error) {
	name := strings.TrimSpace(value)
	if name == "" {
		return "", domain.ErrInvalidServiceName
	}
	return name, nil
}

func normalizeServicePrice(value *float64) (float64, error) {
	if value == nil || !isFinite(*value) || *value < 0 {
		return 0, domain.ErrInvalidServicePrice
	}
	return *value, nil
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
