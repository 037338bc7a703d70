package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/config"
	"github.com/nearme-labs/nearme/internal/logger"
	"github.com/nearme-labs/nearme/internal/migration"
	"github.com/nearme-labs/nearme/internal/reaper"
	"github.com/nearme-labs/nearme/internal/server"
	"github.com/nearme-labs/nearme/pkg/db"
	"go.uber.org/fx"
)

// The monolith: HTTP API and expiry reaper in one process.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
		reaper.Module,
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
