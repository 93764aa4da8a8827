package domain

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// CurrencyUSD is the only currency prices are registered in.
const CurrencyUSD = "usd"

type Product struct {
	ID   string
	Name string
}

type PriceParams struct {
	ProductID  string
	Currency   string
	UnitAmount int64
}

type Price struct {
	ID         string
	ProductID  string
	Currency   string
	UnitAmount int64
}

type PaymentLink struct {
	ID  string
	URL string
}

// Provider registers catalog objects and checkout links with an external
// payment processor.
type Provider interface {
	Name() string
	CreateProduct(ctx context.Context, name string) (Product, error)
	CreatePrice(ctx context.Context, params PriceParams) (Price, error)
	CreatePaymentLink(ctx context.Context, priceID string, quantity int64) (PaymentLink, error)
}

var (
	ErrUpstream              = errors.New("upstream_error")
	ErrProviderNotConfigured = errors.New("payment_provider_not_configured")
	ErrInvalidAmount         = errors.New("invalid_amount")
)

var (
	hundred        = decimal.NewFromInt(100)
	maxMinorAmount = decimal.NewFromInt(math.MaxInt64)
)

// MinorUnits converts a display amount into the smallest currency unit,
// rounding half away from zero. Amounts that do not fit in int64 are rejected.
func MinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrInvalidAmount
	}
	value := decimal.NewFromFloat(amount)
	if value.IsNegative() {
		return 0, ErrInvalidAmount
	}
	minor := value.Mul(hundred).Round(0)
	if minor.GreaterThan(maxMinorAmount) {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}
