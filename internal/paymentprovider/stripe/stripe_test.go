package stripe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/M-Haris-27/ZoroPay/internal/config"
	"github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeStripe struct {
	calls atomic.Int32
}

func (f *fakeStripe) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/products", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "prod_123",
			"object": "product",
			"name":   r.PostForm.Get("name"),
		})
	})
	mux.HandleFunc("/v1/prices", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("product") == "prod_missing" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": map[string]any{
					"type":    "invalid_request_error",
					"code":    "resource_missing",
					"message": "No such product",
				},
			})
			return
		}
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "1999", r.PostForm.Get("unit_amount"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":          "price_456",
			"object":      "price",
			"currency":    "usd",
			"unit_amount": 1999,
			"product":     r.PostForm.Get("product"),
		})
	})
	mux.HandleFunc("/v1/payment_links", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "price_456", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[0][quantity]"))
		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "plink_789",
			"object": "payment_link",
			"url":    "https://buy.stripe.com/test_789",
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestProvider(t *testing.T, fake *fakeStripe) domain.Provider {
	t.Helper()
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	return New(config.Config{
		StripeSecretKey: "sk_test_123",
		StripeAPIURL:    srv.URL,
	}, zap.NewNop(), nil)
}

func TestProviderCreatesProductPriceAndLink(t *testing.T) {
	fake := &fakeStripe{}
	provider := newTestProvider(t, fake)
	ctx := context.Background()

	product, err := provider.CreateProduct(ctx, "Web Design")
	require.NoError(t, err)
	assert.Equal(t, "prod_123", product.ID)
	assert.Equal(t, "Web Design", product.Name)

	price, err := provider.CreatePrice(ctx, domain.PriceParams{
		ProductID:  product.ID,
		Currency:   domain.CurrencyUSD,
		UnitAmount: 1999,
	})
	require.NoError(t, err)
	assert.Equal(t, "price_456", price.ID)
	assert.Equal(t, int64(1999), price.UnitAmount)
	assert.Equal(t, "usd", price.Currency)

	link, err := provider.CreatePaymentLink(ctx, price.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "plink_789", link.ID)
	assert.Equal(t, "https://buy.stripe.com/test_789", link.URL)
	assert.Equal(t, int32(3), fake.calls.Load())
}

func TestProviderSurfacesStripeErrors(t *testing.T) {
	fake := &fakeStripe{}
	provider := newTestProvider(t, fake)

	_, err := provider.CreatePrice(context.Background(), domain.PriceParams{
		ProductID:  "prod_missing",
		Currency:   domain.CurrencyUSD,
		UnitAmount: 1999,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such product")
	assert.Equal(t, int32(1), fake.calls.Load())
}

func TestUnconfiguredProviderFailsEveryCall(t *testing.T) {
	provider := New(config.Config{StripeSecretKey: "  "}, zap.NewNop(), nil)
	ctx := context.Background()

	_, err := provider.CreateProduct(ctx, "Web Design")
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)

	_, err = provider.CreatePrice(ctx, domain.PriceParams{ProductID: "prod_123"})
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)

	_, err = provider.CreatePaymentLink(ctx, "price_456", 1)
	assert.ErrorIs(t, err, domain.ErrProviderNotConfigured)
	assert.Equal(t, "stripe", provider.Name())
}

func TestUnconfiguredProviderLogsErrorInProduction(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	New(config.Config{Environment: "production"}, zap.New(core), nil)

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "STRIPE_SECRET_KEY")

	core, logs = observer.New(zapcore.DebugLevel)
	New(config.Config{Environment: "development"}, zap.New(core), nil)
	assert.Empty(t, logs.FilterLevelExact(zapcore.ErrorLevel).All())
	assert.Len(t, logs.FilterLevelExact(zapcore.WarnLevel).All(), 1)
}
