package ledger

import (
	"github.com/nearme-labs/nearme/internal/ledger/solana"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.client",
	fx.Provide(solana.New),
)
