package notification

import (
	"context"
	"time"

	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/obligation"

	"github.com/oklog/ulid/v2"
)

// Sink recebe os eventos do motor. A entrega (email/SMS) pertence ao
// colaborador externo: falhas são registradas pelo próprio sink e nunca
// propagadas como falha de processamento.
type Sink interface {
	NotifyPosted(ctx context.Context, userID ulid.ULID, tx *ledger.PostedTransaction)
	NotifyUpcoming(ctx context.Context, userID ulid.ULID, ob *obligation.RecurringObligation, dueDate time.Time)
}

// NopSink descarta todos os eventos.
type NopSink struct{}

func (NopSink) NotifyPosted(context.Context, ulid.ULID, *ledger.PostedTransaction) {}

func (NopSink) NotifyUpcoming(context.Context, ulid.ULID, *obligation.RecurringObligation, time.Time) {
}
