package main

import (
	"github.com/M-Haris-27/ZoroPay/internal/clock"
	"github.com/M-Haris-27/ZoroPay/internal/config"
	"github.com/M-Haris-27/ZoroPay/internal/invoice"
	"github.com/M-Haris-27/ZoroPay/internal/migration"
	"github.com/M-Haris-27/ZoroPay/internal/observability"
	"github.com/M-Haris-27/ZoroPay/internal/paymentlink"
	"github.com/M-Haris-27/ZoroPay/internal/paymentprovider"
	"github.com/M-Haris-27/ZoroPay/internal/ratelimit"
	"github.com/M-Haris-27/ZoroPay/internal/server"
	"github.com/M-Haris-27/ZoroPay/internal/user"
	"github.com/M-Haris-27/ZoroPay/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional Domains
		user.Module,
		paymentprovider.Module,
		invoice.Module,
		paymentlink.Module,
		ratelimit.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
