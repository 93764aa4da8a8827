package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/M-Haris-27/ZoroPay/internal/config"
	obslogger "github.com/M-Haris-27/ZoroPay/internal/observability/logger"
	"github.com/M-Haris-27/ZoroPay/internal/observability/metrics"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const keyPaymentLinkInvoice = "payment_link:invoice:%s"

type PaymentLinkLimiterParams struct {
	fx.In

	Client  *redis.Client `optional:"true"`
	Limits  *config.LimitsHolder
	Metrics *metrics.Metrics `optional:"true"`
	Log     *zap.Logger
}

// PaymentLinkLimiter bounds how often links are minted for one invoice.
type PaymentLinkLimiter struct {
	bucket  *TokenBucket
	limits  *config.LimitsHolder
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewPaymentLinkLimiter(p PaymentLinkLimiterParams) *PaymentLinkLimiter {
	return &PaymentLinkLimiter{
		bucket:  NewTokenBucket(p.Client),
		limits:  p.Limits,
		metrics: p.Metrics,
		log:     p.Log.Named("ratelimit.payment_link"),
	}
}

func (l *PaymentLinkLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// AllowInvoice reports whether another payment link may be created for the
// invoice. Redis failures fail open.
func (l *PaymentLinkLimiter) AllowInvoice(ctx context.Context, invoiceID string) *RateLimitResult {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}
	}

	limit := l.limits.Get().PaymentLink
	key := fmt.Sprintf(keyPaymentLinkInvoice, strings.TrimSpace(invoiceID))
	res, err := l.bucket.Allow(ctx, key, limit.Rate, limit.Burst)
	if err != nil {
		l.log.Warn("rate limit check failed", obslogger.InvoiceID(invoiceID), zap.Error(err))
		return &RateLimitResult{Allowed: true, Limit: limit.Burst}
	}
	if !res.Allowed {
		l.metrics.RecordRateLimitDenied(ctx, "create_payment_link")
	}
	return res
}
