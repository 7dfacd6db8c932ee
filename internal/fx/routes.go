package fx

import (
	"time"

	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/domain/processing"
	"Obriga/internal/domain/shared"
	"Obriga/internal/middleware"
	"Obriga/internal/routes"

	"go.uber.org/fx"
)

// RoutesModule fornece o handler e o rate limiter da API administrativa
var RoutesModule = fx.Module("routes",
	fx.Provide(
		newHandler,
		newRateLimiter,
	),
)

func newHandler(
	obligationSvc *obligation.Service,
	runner *processing.BatchRunner,
	ledgerRepo ledger.Repository,
	clock shared.Clock,
) *routes.Handler {
	return &routes.Handler{
		ObligationService: obligationSvc,
		Runner:            runner,
		LedgerRepository:  ledgerRepo,
		Clock:             clock,
	}
}

func newRateLimiter() *middleware.RateLimiter {
	return middleware.NewRateLimiter(100, time.Minute)
}
