package paymentprovider

import (
	"github.com/M-Haris-27/ZoroPay/internal/paymentprovider/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentprovider",
	fx.Provide(stripe.New),
)
