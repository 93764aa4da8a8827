package user

import (
	"github.com/M-Haris-27/ZoroPay/internal/user/repository"
	"github.com/M-Haris-27/ZoroPay/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
