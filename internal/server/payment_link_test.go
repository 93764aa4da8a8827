package server

import (
	"net/http"
	"testing"

	"github.com/M-Haris-27/ZoroPay/internal/config"
	"github.com/M-Haris-27/ZoroPay/internal/ratelimit"
	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreatePaymentLinkRateLimitedPerInvoice(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limits, err := config.NewLimitsHolder(config.Config{PaymentLinkRate: 0.01, PaymentLinkBurst: 1}, zap.NewNop())
	require.NoError(t, err)
	limiter := ratelimit.NewPaymentLinkLimiter(ratelimit.PaymentLinkLimiterParams{
		Client: client,
		Limits: limits,
		Log:    zap.NewNop(),
	})

	ts := newTestServerWithLimiter(t, limiter)
	body := map[string]any{"userId": "100", "invoiceId": "500", "amount": 10}

	rec, _ := ts.do(t, http.MethodPost, "/api/payments/create-payment-link", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, resp := ts.do(t, http.MethodPost, "/api/payments/create-payment-link", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", errorType(resp))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, ts.links.calls)

	other := map[string]any{"userId": "100", "invoiceId": "501", "amount": 10}
	rec, _ = ts.do(t, http.MethodPost, "/api/payments/create-payment-link", other)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
