package fx

import (
	"Obriga/config"
	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/notification"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/domain/shared"
	"Obriga/internal/infrastructure"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

var InfrastructureModule = fx.Module("infrastructure",
	fx.Provide(
		newDatabase,
		newClock,
		newObligationRepository,
		newLedgerRepository,
		newNotificationSink,
	),
)

func newDatabase(cfg *config.Config) (*gorm.DB, error) {
	return infrastructure.NewDb(cfg)
}

func newClock() shared.Clock {
	return shared.SystemClock{}
}

func newObligationRepository(db *gorm.DB) obligation.Repository {
	return &infrastructure.ObligationRepository{DB: db}
}

func newLedgerRepository(db *gorm.DB) ledger.Repository {
	return &infrastructure.LedgerRepository{DB: db}
}

func newNotificationSink() notification.Sink {
	return infrastructure.LogNotificationSink{}
}
