package ledger

import (
	"context"
	"time"

	"Obriga/internal/pkg"

	"github.com/oklog/ulid/v2"
)

// Repository é somente-acréscimo: lançamentos não são atualizados nem
// removidos.
type Repository interface {
	// Append grava um novo lançamento. Perder a corrida do índice único em
	// (obligation_id, occurrence_date) devolve ErrConcurrencyConflict.
	Append(ctx context.Context, tx *PostedTransaction) error
	// FindByOccurrence devolve o lançamento da ocorrência, ou nil quando
	// ainda não postada.
	FindByOccurrence(ctx context.Context, obligationID ulid.ULID, occurrenceDate time.Time) (*PostedTransaction, error)
	Exists(ctx context.Context, obligationID ulid.ULID, occurrenceDate time.Time) (bool, error)
	GetByObligation(ctx context.Context, obligationID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*PostedTransaction, int64, error)
}
