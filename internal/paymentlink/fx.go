package paymentlink

import (
	"github.com/M-Haris-27/ZoroPay/internal/paymentlink/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentlink.service",
	fx.Provide(service.New),
)
