package fx

import (
	"Obriga/config"
	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/notification"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/domain/processing"
	"Obriga/internal/domain/shared"

	"go.uber.org/fx"
)

// DomainModule fornece os services do motor de obrigações
var DomainModule = fx.Module("domain",
	fx.Provide(
		newObligationService,
		newProcessor,
		newBatchRunner,
	),
)

func newObligationService(repo obligation.Repository, clock shared.Clock) *obligation.Service {
	return obligation.NewService(repo, clock)
}

func newProcessor(
	cfg *config.Config,
	obligationRepo obligation.Repository,
	ledgerRepo ledger.Repository,
	sink notification.Sink,
) *processing.Processor {
	return &processing.Processor{
		Obligations:    obligationRepo,
		Ledger:         ledgerRepo,
		Sink:           sink,
		MaxOccurrences: cfg.Batch.MaxOccurrences,
		UpcomingWindow: cfg.Batch.UpcomingWindow,
	}
}

func newBatchRunner(
	cfg *config.Config,
	obligationRepo obligation.Repository,
	processor *processing.Processor,
) *processing.BatchRunner {
	return &processing.BatchRunner{
		Obligations: obligationRepo,
		Processor:   processor,
		Parallelism: cfg.Batch.Parallelism,
	}
}
