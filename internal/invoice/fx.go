package invoice

import (
	"github.com/M-Haris-27/ZoroPay/internal/invoice/repository"
	"github.com/M-Haris-27/ZoroPay/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
