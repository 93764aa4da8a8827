package testutil

import (
	"context"

	"github.com/M-Haris-27/ZoroPay/internal/paymentprovider/domain"
	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) CreateProduct(ctx context.Context, name string) (domain.Product, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProvider) CreatePrice(ctx context.Context, params domain.PriceParams) (domain.Price, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(domain.Price), args.Error(1)
}

func (m *MockProvider) CreatePaymentLink(ctx context.Context, priceID string, quantity int64) (domain.PaymentLink, error) {
	args := m.Called(ctx, priceID, quantity)
	return args.Get(0).(domain.PaymentLink), args.Error(1)
}
