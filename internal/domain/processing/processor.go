package processing

import (
	"context"
	"time"

	"Obriga/internal/domain/amortization"
	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/notification"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/domain/shared"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/pkg"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Processor posta as ocorrências devidas de uma obrigação, sempre em ordem
// de data. Cada ocorrência é um passo transacional: lançamento no razão
// seguido do avanço do cursor; o cursor nunca ultrapassa a última ocorrência
// postada com sucesso, então uma falha no meio do lote deixa a obrigação
// retomável exatamente de onde parou.
type Processor struct {
	Obligations    obligation.Repository
	Ledger         ledger.Repository
	Sink           notification.Sink
	MaxOccurrences int
	UpcomingWindow time.Duration
}

type ProcessingError struct {
	ObligationId   ulid.ULID  `json:"obligationId"`
	OccurrenceDate *time.Time `json:"occurrenceDate"`
	Err            error      `json:"-"`
	Message        string     `json:"error"`
}

type Result struct {
	Posted     []*ledger.PostedTransaction
	Obligation *obligation.RecurringObligation
	Errors     []ProcessingError
}

// Process resolve as ocorrências devidas até asOf e posta cada uma. A checagem
// em (obligationId, occurrenceDate) torna a reexecução idempotente: ocorrência
// já postada é pulada, com o cursor avançado por cima dela. Erro em uma
// ocorrência interrompe somente esta obrigação, preservando o progresso
// parcial.
func (p *Processor) Process(ctx context.Context, ob *obligation.RecurringObligation, asOf time.Time) *Result {
	result := &Result{Obligation: ob}

	// vigência ainda não começou: nada devido, sem violar a pré-condição
	// do resolvedor
	if shared.DateOnly(asOf).Before(shared.DateOnly(ob.StartDate)) {
		return result
	}

	due, err := obligation.ResolveDue(ob, asOf, p.MaxOccurrences)
	if err != nil {
		result.record(ob.Id, nil, err)
		return result
	}

	for i := range due {
		// a quitação do saldo pode encerrar a obrigação antes do fim da lista
		if !ob.IsActive() {
			break
		}
		occurrence := due[i]
		if err := p.processOccurrence(ctx, ob, occurrence, result); err != nil {
			result.record(ob.Id, &occurrence, err)
			return result
		}
	}

	if err := p.finalize(ctx, ob); err != nil {
		result.record(ob.Id, nil, err)
		return result
	}

	p.emitUpcoming(ctx, ob, asOf)

	return result
}

func (p *Processor) processOccurrence(
	ctx context.Context,
	ob *obligation.RecurringObligation,
	occurrence time.Time,
	result *Result,
) error {
	existing, err := p.Ledger.FindByOccurrence(ctx, ob.Id, occurrence)
	if err != nil {
		return appErrors.NewRepositoryError(err)
	}

	if existing != nil {
		// já postada (reexecução ou queda entre o lançamento e o avanço do
		// cursor): avança o cursor aplicando a amortização registrada
		return p.advanceCursor(ctx, ob, occurrence, storedPrincipal(existing))
	}

	tx, principalPart, err := p.buildPosting(ob, occurrence)
	if err != nil {
		return err
	}

	if err := p.Ledger.Append(ctx, tx); err != nil {
		if shared.IsUniqueConstraintError(err) || appErrors.IsConcurrencyConflict(err) {
			// perdeu a corrida para uma execução concorrente: a ocorrência
			// está postada, o que é o resultado desejado
			return p.advanceCursor(ctx, ob, occurrence, principalPart)
		}
		return appErrors.NewRepositoryError(err)
	}

	if err := p.advanceCursor(ctx, ob, occurrence, principalPart); err != nil {
		return err
	}

	result.Posted = append(result.Posted, tx)
	p.Sink.NotifyPosted(ctx, ob.UserId, tx)

	return nil
}

// buildPosting monta o lançamento da ocorrência. Para obrigações amortizadas
// a prestação é recalculada da definição original e repartida sobre o saldo
// devedor vivo; o arredondamento bancário acontece aqui, na fronteira de
// postagem.
func (p *Processor) buildPosting(
	ob *obligation.RecurringObligation,
	occurrence time.Time,
) (*ledger.PostedTransaction, decimal.Decimal, error) {
	tx := &ledger.PostedTransaction{
		Id:             pkg.GenerateULIDObject(),
		UserId:         ob.UserId,
		ObligationId:   &ob.Id,
		OccurrenceDate: occurrence,
		Currency:       ob.Currency,
		Direction:      ledger.DirectionType(ob.Direction),
		Description:    ob.Description,
		CreatedAt:      time.Now(),
	}

	if !ob.IsAmortizing() {
		if ob.Amount <= 0 {
			return nil, decimal.Zero, appErrors.NewValidationError("amount", "deve ser maior que zero")
		}
		tx.Amount = decimal.NewFromFloat(ob.Amount).RoundBank(2).InexactFloat64()
		return tx, decimal.Zero, nil
	}

	payment, err := amortization.PeriodicPayment(
		ob.Principal,
		ob.AnnualRatePercent,
		ob.TermPeriods,
		ob.Frequency.PeriodsPerYear(),
	)
	if err != nil {
		return nil, decimal.Zero, err
	}

	rate := amortization.PeriodicRate(ob.AnnualRatePercent, ob.Frequency.PeriodsPerYear())
	remaining := decimal.NewFromFloat(ob.RemainingPrincipal)
	principalPart, interestPart := amortization.SplitPayment(remaining, rate, payment)

	// a última prestação contratada quita o saldo integral, absorvendo o
	// resíduo de arredondamento — mesma regra do cronograma materializado
	if obligation.PeriodIndex(ob, occurrence) >= ob.TermPeriods {
		principalPart = remaining.RoundBank(2)
	}

	principalValue := principalPart.InexactFloat64()
	interestValue := interestPart.InexactFloat64()
	tx.Amount = principalPart.Add(interestPart).InexactFloat64()
	tx.PrincipalComponent = &principalValue
	tx.InterestComponent = &interestValue

	return tx, principalPart, nil
}

// advanceCursor executa a metade "avançar" do passo transacional: move
// lastProcessed/nextDue, reduz o saldo devedor e reavalia o status, então
// persiste a obrigação.
func (p *Processor) advanceCursor(
	ctx context.Context,
	ob *obligation.RecurringObligation,
	occurrence time.Time,
	principalPart decimal.Decimal,
) error {
	occ := occurrence
	ob.LastProcessed = &occ
	ob.NextDue = obligation.NextDueAfter(ob, occurrence)

	if ob.IsAmortizing() {
		remaining := decimal.NewFromFloat(ob.RemainingPrincipal).Sub(principalPart)
		if !remaining.IsPositive() {
			remaining = decimal.Zero
		}
		ob.RemainingPrincipal = remaining.RoundBank(2).InexactFloat64()

		if remaining.IsZero() {
			ob.Status = obligation.StatusCompleted
			ob.NextDue = nil
		}
	} else if ob.NextDue == nil {
		ob.Status = obligation.StatusCompleted
	}

	ob.UpdatedAt = time.Now()

	if err := p.Obligations.Save(ctx, ob); err != nil {
		return appErrors.NewRepositoryError(err)
	}
	return nil
}

// finalize cobre a obrigação simples cujo fim de vigência já passou sem
// ocorrências pendentes: nada a postar, mas o status precisa transitar para
// COMPLETED. Empréstimos amortizados só completam pela quitação do saldo;
// um empréstimo vencido sem quitar permanece ativo, aguardando a transição
// administrativa para DEFAULTED.
func (p *Processor) finalize(ctx context.Context, ob *obligation.RecurringObligation) error {
	if !ob.IsActive() || ob.IsAmortizing() || ob.EndDate == nil {
		return nil
	}

	end := shared.DateOnly(*ob.EndDate)
	var next *time.Time
	if ob.LastProcessed != nil {
		next = obligation.NextDueAfter(ob, *ob.LastProcessed)
	} else {
		start := shared.DateOnly(ob.StartDate)
		if !start.After(end) {
			next = &start
		}
	}

	if next != nil {
		return nil
	}

	ob.NextDue = nil
	ob.Status = obligation.StatusCompleted
	ob.UpdatedAt = time.Now()

	if err := p.Obligations.Save(ctx, ob); err != nil {
		return appErrors.NewRepositoryError(err)
	}
	return nil
}

func (p *Processor) emitUpcoming(ctx context.Context, ob *obligation.RecurringObligation, asOf time.Time) {
	if p.UpcomingWindow <= 0 || !ob.IsActive() || ob.NextDue == nil {
		return
	}
	horizon := shared.DateOnly(asOf.Add(p.UpcomingWindow))
	if !ob.NextDue.After(horizon) {
		p.Sink.NotifyUpcoming(ctx, ob.UserId, ob, *ob.NextDue)
	}
}

func storedPrincipal(tx *ledger.PostedTransaction) decimal.Decimal {
	if tx.PrincipalComponent == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*tx.PrincipalComponent)
}

func (r *Result) record(id ulid.ULID, occurrence *time.Time, err error) {
	r.Errors = append(r.Errors, ProcessingError{
		ObligationId:   id,
		OccurrenceDate: occurrence,
		Err:            err,
		Message:        err.Error(),
	})
}
