package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/M-Haris-27/ZoroPay/internal/clock"
	invoicedomain "github.com/M-Haris-27/ZoroPay/internal/invoice/domain"
	invoicerepository "github.com/M-Haris-27/ZoroPay/internal/invoice/repository"
	invoiceservice "github.com/M-Haris-27/ZoroPay/internal/invoice/service"
	"github.com/M-Haris-27/ZoroPay/internal/paymentlink/domain"
	"github.com/M-Haris-27/ZoroPay/internal/paymentlink/service"
	providerdomain "github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	"github.com/M-Haris-27/ZoroPay/internal/testutil"
	userdomain "github.com/M-Haris-27/ZoroPay/internal/user/domain"
	userrepository "github.com/M-Haris-27/ZoroPay/internal/user/repository"
	userservice "github.com/M-Haris-27/ZoroPay/internal/user/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc      domain.Service
	invoices invoicedomain.Service
	user     userdomain.User
	invoice  invoicedomain.Invoice
}

func newFixture(t *testing.T, provider providerdomain.Provider) *fixture {
	t.Helper()

	db := testutil.NewDB(t, &userdomain.User{}, &invoicedomain.Invoice{})
	clk := clock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	node := testutil.NewNode(t, 1)
	setup := &testutil.MockProvider{}
	setup.On("CreateProduct", mock.Anything, "Web Design").
		Return(providerdomain.Product{ID: "prod_123"}, nil)

	users := userservice.New(userservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clk,
		Repo:  userrepository.Provide(),
	})
	invoiceParams := invoiceservice.Params{
		DB:       db,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clk,
		Repo:     invoicerepository.Provide(),
		Users:    users,
		Provider: setup,
	}
	creator := invoiceservice.New(invoiceParams)

	ctx := context.Background()
	user, err := users.Create(ctx, userdomain.CreateUserRequest{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		PhoneNo: "+15550001",
	})
	require.NoError(t, err)

	servicePrice := 19.99
	invoice, err := creator.Create(ctx, invoicedomain.CreateInvoiceRequest{
		UserID:      user.ID.String(),
		TotalAmount: 19.99,
		InvoiceItems: []invoicedomain.CreateInvoiceItemRequest{
			{ServiceName: "Web Design", ServicePrice: &servicePrice},
		},
	})
	require.NoError(t, err)

	invoiceParams.Provider = provider
	invoices := invoiceservice.New(invoiceParams)

	return &fixture{
		invoices: invoices,
		user:     user,
		invoice:  invoice,
		svc: service.New(service.Params{
			Log:      zap.NewNop(),
			Users:    users,
			Invoices: invoices,
			Provider: provider,
		}),
	}
}

func (f *fixture) request(amount float64) domain.CreatePaymentLinkRequest {
	return domain.CreatePaymentLinkRequest{
		UserID:    f.user.ID.String(),
		InvoiceID: f.invoice.ID.String(),
		Amount:    amount,
	}
}

func TestCreatePaymentLinkPersistsLink(t *testing.T) {
	provider := &testutil.MockProvider{}
	f := newFixture(t, provider)
	ctx := context.Background()

	provider.On("CreatePrice", mock.Anything, providerdomain.PriceParams{
		ProductID:  "prod_123",
		Currency:   "usd",
		UnitAmount: 1999,
	}).Return(providerdomain.Price{ID: "price_456"}, nil).Once()
	provider.On("CreatePaymentLink", mock.Anything, "price_456", int64(1)).
		Return(providerdomain.PaymentLink{ID: "plink_1", URL: "https://buy.stripe.com/test_1"}, nil).Once()

	link, err := f.svc.CreatePaymentLink(ctx, f.request(5))
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/test_1", link)
	provider.AssertExpectations(t)

	stored, err := f.invoices.GetByID(ctx, f.invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/test_1", stored.PaymentLink)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, stored.Status)
}

func TestCreatePaymentLinkOverwritesPreviousLink(t *testing.T) {
	provider := &testutil.MockProvider{}
	f := newFixture(t, provider)
	ctx := context.Background()

	provider.On("CreatePrice", mock.Anything, mock.Anything).
		Return(providerdomain.Price{ID: "price_456"}, nil).Twice()
	provider.On("CreatePaymentLink", mock.Anything, "price_456", int64(1)).
		Return(providerdomain.PaymentLink{URL: "https://buy.stripe.com/first"}, nil).Once()
	provider.On("CreatePaymentLink", mock.Anything, "price_456", int64(1)).
		Return(providerdomain.PaymentLink{URL: "https://buy.stripe.com/second"}, nil).Once()

	_, err := f.svc.CreatePaymentLink(ctx, f.request(10))
	require.NoError(t, err)
	link, err := f.svc.CreatePaymentLink(ctx, f.request(10))
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/second", link)

	stored, err := f.invoices.GetByID(ctx, f.invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "https://buy.stripe.com/second", stored.PaymentLink)
}

func TestCreatePaymentLinkValidation(t *testing.T) {
	provider := &testutil.MockProvider{}
	f := newFixture(t, provider)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreatePaymentLinkRequest
		want error
	}{
		{"missing user", domain.CreatePaymentLinkRequest{InvoiceID: f.invoice.ID.String(), Amount: 1}, domain.ErrInvalidUserID},
		{"missing invoice", domain.CreatePaymentLinkRequest{UserID: f.user.ID.String(), Amount: 1}, domain.ErrInvalidInvoiceID},
		{"zero amount", f.request(0), domain.ErrInvalidAmount},
		{"negative amount", f.request(-3), domain.ErrInvalidAmount},
		{"unknown user", domain.CreatePaymentLinkRequest{UserID: "1234567890", InvoiceID: f.invoice.ID.String(), Amount: 1}, domain.ErrUserNotFound},
		{"unknown invoice", domain.CreatePaymentLinkRequest{UserID: f.user.ID.String(), InvoiceID: "1234567890", Amount: 1}, domain.ErrInvoiceNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreatePaymentLink(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	provider.AssertNotCalled(t, "CreatePrice", mock.Anything, mock.Anything)
}

func TestCreatePaymentLinkUpstreamFailureLeavesInvoiceUntouched(t *testing.T) {
	ctx := context.Background()

	t.Run("price", func(t *testing.T) {
		provider := &testutil.MockProvider{}
		f := newFixture(t, provider)
		provider.On("CreatePrice", mock.Anything, mock.Anything).
			Return(providerdomain.Price{}, errors.New("card_declined")).Once()

		_, err := f.svc.CreatePaymentLink(ctx, f.request(5))
		assert.ErrorIs(t, err, providerdomain.ErrUpstream)
		provider.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything, mock.Anything)

		stored, err := f.invoices.GetByID(ctx, f.invoice.ID.String())
		require.NoError(t, err)
		assert.Empty(t, stored.PaymentLink)
		assert.True(t, f.invoice.UpdatedAt.Equal(stored.UpdatedAt))
	})

	t.Run("link", func(t *testing.T) {
		provider := &testutil.MockProvider{}
		f := newFixture(t, provider)
		provider.On("CreatePrice", mock.Anything, mock.Anything).
			Return(providerdomain.Price{ID: "price_456"}, nil).Once()
		provider.On("CreatePaymentLink", mock.Anything, "price_456", int64(1)).
			Return(providerdomain.PaymentLink{}, providerdomain.ErrProviderNotConfigured).Once()

		_, err := f.svc.CreatePaymentLink(ctx, f.request(5))
		assert.ErrorIs(t, err, providerdomain.ErrUpstream)
		assert.ErrorIs(t, err, providerdomain.ErrProviderNotConfigured)

		stored, err := f.invoices.GetByID(ctx, f.invoice.ID.String())
		require.NoError(t, err)
		assert.Empty(t, stored.PaymentLink)
	})
}

func TestCreatePaymentLinkWithoutStoredItemsIsUpstreamError(t *testing.T) {
	provider := &testutil.MockProvider{}
	f := newFixture(t, provider)
	ctx := context.Background()

	patched, err := f.invoices.Update(ctx, invoicedomain.UpdateInvoiceRequest{
		ID:           f.invoice.ID.String(),
		InvoiceItems: &[]invoicedomain.InvoiceItemRequest{},
	})
	require.NoError(t, err)
	require.Empty(t, patched.InvoiceItems)

	provider.On("CreatePrice", mock.Anything, providerdomain.PriceParams{
		Currency: providerdomain.CurrencyUSD,
	}).Return(providerdomain.Price{}, errors.New("resource_missing: product")).Once()

	_, err = f.svc.CreatePaymentLink(ctx, f.request(5))
	assert.ErrorIs(t, err, providerdomain.ErrUpstream)
	provider.AssertExpectations(t)
	provider.AssertNotCalled(t, "CreatePaymentLink", mock.Anything, mock.Anything, mock.Anything)

	stored, err := f.invoices.GetByID(ctx, f.invoice.ID.String())
	require.NoError(t, err)
	assert.Empty(t, stored.PaymentLink)
	assert.True(t, patched.UpdatedAt.Equal(stored.UpdatedAt))
}

func TestCreatePaymentLinkRejectsUnconvertibleStoredPrice(t *testing.T) {
	provider := &testutil.MockProvider{}
	f := newFixture(t, provider)
	ctx := context.Background()

	huge := 1e17
	_, err := f.invoices.Update(ctx, invoicedomain.UpdateInvoiceRequest{
		ID: f.invoice.ID.String(),
		InvoiceItems: &[]invoicedomain.InvoiceItemRequest{
			{ServiceID: "prod_123", ServiceName: "Web Design", ServicePrice: &huge},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.CreatePaymentLink(ctx, f.request(5))
	assert.ErrorIs(t, err, providerdomain.ErrUpstream)
	assert.ErrorIs(t, err, providerdomain.ErrInvalidAmount)
	provider.AssertNotCalled(t, "CreatePrice", mock.Anything, mock.Anything)
}

// sequenceProvider hands out a distinct link per call.
type sequenceProvider struct {
	n atomic.Int64
}

func (p *sequenceProvider) Name() string { return "sequence" }

func (p *sequenceProvider) CreateProduct(_ context.Context, name string) (providerdomain.Product, error) {
	return providerdomain.Product{ID: "prod_123", Name: name}, nil
}

func (p *sequenceProvider) CreatePrice(_ context.Context, params providerdomain.PriceParams) (providerdomain.Price, error) {
	n := p.n.Add(1)
	return providerdomain.Price{ID: fmt.Sprintf("price_%d", n), ProductID: params.ProductID}, nil
}

func (p *sequenceProvider) CreatePaymentLink(_ context.Context, priceID string, _ int64) (providerdomain.PaymentLink, error) {
	return providerdomain.PaymentLink{ID: "plink_" + priceID, URL: "https://buy.stripe.com/" + priceID}, nil
}

func TestConcurrentPaymentLinksLastWriteWins(t *testing.T) {
	f := newFixture(t, &sequenceProvider{})
	ctx := context.Background()

	var wg sync.WaitGroup
	links := make([]string, 2)
	errs := make([]error, 2)
	for i := range links {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			links[i], errs[i] = f.svc.CreatePaymentLink(ctx, f.request(5))
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.NotEqual(t, links[0], links[1])

	stored, err := f.invoices.GetByID(ctx, f.invoice.ID.String())
	require.NoError(t, err)
	assert.Contains(t, links, stored.PaymentLink)
	assert.Equal(t, invoicedomain.InvoiceStatusPending, stored.Status)
}
