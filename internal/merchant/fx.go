package merchant

import (
	"github.com/nearme-labs/nearme/internal/merchant/repository"
	"github.com/nearme-labs/nearme/internal/merchant/service"
	"go.uber.org/fx"
)

var Module = fx.Module("merchant.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
