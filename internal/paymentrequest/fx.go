package paymentrequest

import (
	"github.com/nearme-labs/nearme/internal/paymentrequest/repository"
	"github.com/nearme-labs/nearme/internal/paymentrequest/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentrequest.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
