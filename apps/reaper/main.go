package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/nearme-labs/nearme/internal/clock"
	"github.com/nearme-labs/nearme/internal/config"
	"github.com/nearme-labs/nearme/internal/lock"
	"github.com/nearme-labs/nearme/internal/logger"
	"github.com/nearme-labs/nearme/internal/observability/metrics"
	prrepo "github.com/nearme-labs/nearme/internal/paymentrequest/repository"
	"github.com/nearme-labs/nearme/internal/reaper"
	"github.com/nearme-labs/nearme/pkg/db"
	"go.uber.org/fx"
)

// Standalone expiry reaper. Safe to run alongside the API and other
// reaper replicas; the redis lock serializes sweeps and per-row CAS
// covers the rest.
func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		lock.Module,
		metrics.Module,

		fx.Provide(prrepo.Provide),
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
