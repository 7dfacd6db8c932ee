package processing

import (
	"context"
	"sync"
	"time"

	"Obriga/internal/domain/obligation"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/logger"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// BatchRunner percorre as obrigações ativas de todos os donos e delega cada
// uma ao Processor. Donos distintos podem ser processados em paralelo; as
// obrigações de um mesmo dono, e as ocorrências de uma mesma obrigação,
// são estritamente sequenciais. A falha de uma obrigação é registrada no
// resumo e nunca derruba o lote.
type BatchRunner struct {
	Obligations obligation.Repository
	Processor   *Processor
	Parallelism int
}

type FailedObligation struct {
	Id     ulid.ULID `json:"id"`
	UserId ulid.ULID `json:"userId"`
	Error  string    `json:"error"`
}

type Summary struct {
	AsOf              time.Time          `json:"asOf"`
	ProcessedCount    int                `json:"processedCount"`
	PostedCount       int                `json:"postedCount"`
	FailedObligations []FailedObligation `json:"failedObligations"`
}

// RunAll processa todas as obrigações ativas com vencimento até asOf; as
// demais nem entram no lote. Idempotente no nível do lote: uma segunda
// execução imediata não posta nada de novo. O cancelamento é cooperativo,
// verificado entre obrigações — nunca no meio de uma ocorrência.
func (r *BatchRunner) RunAll(ctx context.Context, asOf time.Time) (*Summary, error) {
	due, err := r.Obligations.FindDue(ctx, asOf)
	if err != nil {
		return nil, appErrors.NewRepositoryError(err)
	}
	return r.run(ctx, due, asOf)
}

// RunOwner processa as obrigações ativas de um único dono, com as mesmas
// garantias do lote completo.
func (r *BatchRunner) RunOwner(ctx context.Context, ownerID ulid.ULID, asOf time.Time) (*Summary, error) {
	active, err := r.Obligations.FindActive(ctx, &ownerID)
	if err != nil {
		return nil, appErrors.NewRepositoryError(err)
	}
	return r.run(ctx, active, asOf)
}

// RunObligation é o gatilho administrativo avulso; passa pelo mesmo caminho
// de postagem e, portanto, pelas mesmas garantias de idempotência.
func (r *BatchRunner) RunObligation(ctx context.Context, obligationID, userID ulid.ULID, asOf time.Time) (*Result, error) {
	ob, err := r.Obligations.GetByID(ctx, obligationID, userID)
	if err != nil {
		return nil, appErrors.ErrObligationNotFound.WithError(err)
	}
	if ob.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}
	if !ob.IsActive() {
		return nil, appErrors.ErrObligationInactive
	}
	return r.Processor.Process(ctx, ob, asOf), nil
}

func (r *BatchRunner) run(ctx context.Context, active []*obligation.RecurringObligation, asOf time.Time) (*Summary, error) {
	summary := &Summary{
		AsOf:              asOf,
		FailedObligations: make([]FailedObligation, 0),
	}

	owners := groupByOwner(active)

	parallelism := r.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	var mu sync.Mutex
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	for i := range owners {
		ownerObligations := owners[i]
		group.Go(func() error {
			for _, ob := range ownerObligations {
				// ponto de cancelamento cooperativo entre obrigações
				if err := groupCtx.Err(); err != nil {
					return err
				}

				result := r.Processor.Process(groupCtx, ob, asOf)

				mu.Lock()
				summary.ProcessedCount++
				summary.PostedCount += len(result.Posted)
				for _, procErr := range result.Errors {
					summary.FailedObligations = append(summary.FailedObligations, FailedObligation{
						Id:     ob.Id,
						UserId: ob.UserId,
						Error:  procErr.Message,
					})
					logger.Warn().
						Str("obligation_id", ob.Id.String()).
						Str("user_id", ob.UserId.String()).
						Err(procErr.Err).
						Msg("falha ao processar obrigacao")
				}
				mu.Unlock()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return summary, err
	}

	logger.Info().
		Int("processed", summary.ProcessedCount).
		Int("posted", summary.PostedCount).
		Int("failed", len(summary.FailedObligations)).
		Msg("lote de obrigacoes concluido")

	return summary, nil
}

// groupByOwner preserva a ordem de chegada dentro de cada dono.
func groupByOwner(obs []*obligation.RecurringObligation) [][]*obligation.RecurringObligation {
	index := make(map[ulid.ULID]int)
	groups := make([][]*obligation.RecurringObligation, 0)
	for _, ob := range obs {
		at, ok := index[ob.UserId]
		if !ok {
			at = len(groups)
			index[ob.UserId] = at
			groups = append(groups, nil)
		}
		groups[at] = append(groups[at], ob)
	}
	return groups
}
