package infrastructure

import (
	"context"
	"time"

	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/notification"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/logger"

	"github.com/oklog/ulid/v2"
)

// LogNotificationSink registra os eventos do motor no log estruturado.
// A entrega real (email/SMS) pertence ao serviço de notificações; este sink
// é o adaptador padrão quando aquele serviço não está configurado.
type LogNotificationSink struct{}

var _ notification.Sink = (*LogNotificationSink)(nil)

func (LogNotificationSink) NotifyPosted(_ context.Context, userID ulid.ULID, tx *ledger.PostedTransaction) {
	logger.Info().
		Str("user_id", userID.String()).
		Str("transaction_id", tx.Id.String()).
		Str("occurrence_date", tx.OccurrenceDate.Format("2006-01-02")).
		Float64("amount", tx.Amount).
		Str("currency", tx.Currency).
		Msg("ocorrencia postada")
}

func (LogNotificationSink) NotifyUpcoming(_ context.Context, userID ulid.ULID, ob *obligation.RecurringObligation, dueDate time.Time) {
	logger.Info().
		Str("user_id", userID.String()).
		Str("obligation_id", ob.Id.String()).
		Str("due_date", dueDate.Format("2006-01-02")).
		Msg("vencimento proximo")
}
