package obligation

import (
	"context"
	"time"

	"Obriga/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, ob *RecurringObligation) error
	// Save persiste o estado completo da obrigação (cursor, saldo, status).
	Save(ctx context.Context, ob *RecurringObligation) error
	GetByID(ctx context.Context, obligationID, userID ulid.ULID) (*RecurringObligation, error)
	GetByUserID(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*RecurringObligation, int64, error)
	// FindActive devolve obrigações ativas; userID nil abrange todos os donos.
	FindActive(ctx context.Context, userID *ulid.ULID) ([]*RecurringObligation, error)
	// FindDue devolve obrigações ativas com vencimento até a data informada.
	FindDue(ctx context.Context, date time.Time) ([]*RecurringObligation, error)
}
