package stripe

import (
	"context"
	"errors"
	"strings"

	"github.com/M-Haris-27/ZoroPay/internal/config"
	"github.com/M-Haris-27/ZoroPay/internal/observability/metrics"
	"github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	stripego "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

const providerName = "stripe"

type Provider struct {
	api     *client.API
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New builds the Stripe provider. A blank secret key yields a provider that
// fails every call with ErrProviderNotConfigured.
func New(cfg config.Config, log *zap.Logger, m *metrics.Metrics) domain.Provider {
	log = log.Named("paymentprovider.stripe")

	key := strings.TrimSpace(cfg.StripeSecretKey)
	if key == "" {
		if cfg.IsProduction() {
			log.Error("STRIPE_SECRET_KEY is not set in production; payment provider calls will fail")
		} else {
			log.Warn("STRIPE_SECRET_KEY is not set; payment provider calls will fail")
		}
		return &unconfigured{log: log, metrics: m}
	}

	backendConfig := &stripego.BackendConfig{
		LeveledLogger:     log.Sugar(),
		MaxNetworkRetries: stripego.Int64(0),
	}
	if url := strings.TrimSpace(cfg.StripeAPIURL); url != "" {
		backendConfig.URL = stripego.String(url)
	}

	backend := stripego.GetBackendWithConfig(stripego.APIBackend, backendConfig)
	api := client.New(key, &stripego.Backends{
		API:     backend,
		Connect: backend,
		Uploads: backend,
	})

	return &Provider{api: api, log: log, metrics: m}
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) CreateProduct(ctx context.Context, name string) (domain.Product, error) {
	params := &stripego.ProductParams{Name: stripego.String(name)}
	params.Context = ctx

	product, err := p.api.Products.New(params)
	p.metrics.RecordProviderCall(ctx, providerName, "create_product", err)
	if err != nil {
		p.logFailure("create_product", err)
		return domain.Product{}, err
	}

	p.log.Debug("product created", zap.String("product_id", product.ID))
	return domain.Product{ID: product.ID, Name: product.Name}, nil
}

func (p *Provider) CreatePrice(ctx context.Context, in domain.PriceParams) (domain.Price, error) {
	params := &stripego.PriceParams{
		Currency:   stripego.String(in.Currency),
		UnitAmount: stripego.Int64(in.UnitAmount),
		Product:    stripego.String(in.ProductID),
	}
	params.Context = ctx

	price, err := p.api.Prices.New(params)
	p.metrics.RecordProviderCall(ctx, providerName, "create_price", err)
	if err != nil {
		p.logFailure("create_price", err, zap.String("product_id", in.ProductID))
		return domain.Price{}, err
	}

	p.log.Debug("price created",
		zap.String("price_id", price.ID),
		zap.String("product_id", in.ProductID),
	)
	return domain.Price{
		ID:         price.ID,
		ProductID:  in.ProductID,
		Currency:   string(price.Currency),
		UnitAmount: price.UnitAmount,
	}, nil
}

func (p *Provider) CreatePaymentLink(ctx context.Context, priceID string, quantity int64) (domain.PaymentLink, error) {
	params := &stripego.PaymentLinkParams{
		LineItems: []*stripego.PaymentLinkLineItemParams{
			{
				Price:    stripego.String(priceID),
				Quantity: stripego.Int64(quantity),
			},
		},
	}
	params.Context = ctx

	link, err := p.api.PaymentLinks.New(params)
	p.metrics.RecordProviderCall(ctx, providerName, "create_payment_link", err)
	if err != nil {
		p.logFailure("create_payment_link", err, zap.String("price_id", priceID))
		return domain.PaymentLink{}, err
	}

	p.log.Debug("payment link created",
		zap.String("payment_link_id", link.ID),
		zap.String("price_id", priceID),
	)
	return domain.PaymentLink{ID: link.ID, URL: link.URL}, nil
}

func (p *Provider) logFailure(operation string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", operation))

	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		fields = append(fields,
			zap.Int("http_status", stripeErr.HTTPStatusCode),
			zap.String("stripe_type", string(stripeErr.Type)),
			zap.String("stripe_code", string(stripeErr.Code)),
			zap.String("request_id", stripeErr.RequestID),
		)
	} else {
		fields = append(fields, zap.Error(err))
	}
	p.log.Warn("stripe call failed", fields...)
}

type unconfigured struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

func (u *unconfigured) Name() string {
	return providerName
}

func (u *unconfigured) CreateProduct(ctx context.Context, _ string) (domain.Product, error) {
	return domain.Product{}, u.fail(ctx, "create_product")
}

func (u *unconfigured) CreatePrice(ctx context.Context, _ domain.PriceParams) (domain.Price, error) {
	return domain.Price{}, u.fail(ctx, "create_price")
}

func (u *unconfigured) CreatePaymentLink(ctx context.Context, _ string, _ int64) (domain.PaymentLink, error) {
	return domain.PaymentLink{}, u.fail(ctx, "create_payment_link")
}

func (u *unconfigured) fail(ctx context.Context, operation string) error {
	u.metrics.RecordProviderCall(ctx, providerName, operation, domain.ErrProviderNotConfigured)
	u.log.Warn("stripe call rejected", zap.String("operation", operation))
	return domain.ErrProviderNotConfigured
}
