package obligation

import (
	"time"

	"Obriga/internal/domain/shared"
	appErrors "Obriga/internal/errors"
)

// DefaultMaxOccurrences limita quantas ocorrências atrasadas uma única
// resolução devolve. O restante permanece devido para a próxima execução.
const DefaultMaxOccurrences = 36

// ResolveDue calcula, sem efeitos colaterais, as datas de ocorrência devidas
// e ainda não postadas de uma obrigação: toda data da sequência
// {startDate, startDate+intervalo, ...} posterior ao cursor, até asOf e até
// endDate quando definida. A lista é finita, estritamente crescente e
// reproduzível para as mesmas entradas.
//
// Uma obrigação nunca processada cujo startDate já chegou vence no próprio
// startDate, não no intervalo seguinte.
func ResolveDue(ob *RecurringObligation, asOf time.Time, max int) ([]time.Time, error) {
	if ob == nil {
		return nil, appErrors.ErrObligationNotFound
	}
	if !ob.IsActive() {
		return nil, appErrors.ErrObligationInactive
	}
	if !ob.Frequency.IsValid() {
		return nil, appErrors.NewValidationError("frequency", "frequencia invalida")
	}
	if max <= 0 {
		max = DefaultMaxOccurrences
	}

	asOfDate := shared.DateOnly(asOf)
	cursor := shared.DateOnly(ob.StartDate)

	// pré-condição do contrato: o chamador não resolve antes da vigência
	if asOfDate.Before(cursor) {
		return nil, appErrors.NewValidationError("as_of", "anterior a data de inicio da obrigacao")
	}

	if ob.LastProcessed != nil {
		last := shared.DateOnly(*ob.LastProcessed)
		if !last.Before(cursor) {
			cursor = NextAfter(last, ob.Frequency)
		}
	}

	var endDate *time.Time
	if ob.EndDate != nil {
		end := shared.DateOnly(*ob.EndDate)
		endDate = &end
	}

	due := make([]time.Time, 0)
	for len(due) < max && !cursor.After(asOfDate) {
		if endDate != nil && cursor.After(*endDate) {
			break
		}
		due = append(due, cursor)
		cursor = NextAfter(cursor, ob.Frequency)
	}

	return due, nil
}

// NextAfter avança uma data de ocorrência em um intervalo de calendário.
// O avanço mensal preserva o dia do mês corrente, recuando para o último
// dia válido quando o mês seguinte é mais curto (31/jan → 28/fev ou 29/fev).
// O avanço anual recua 29/fev para 28/fev em anos não bissextos.
func NextAfter(date time.Time, frequency FrequencyType) time.Time {
	date = shared.DateOnly(date)

	switch frequency {
	case FrequencyDaily:
		return date.AddDate(0, 0, 1)
	case FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case FrequencyMonthly:
		year, month, day := date.Date()
		lastDay := time.Date(year, month+2, 0, 0, 0, 0, 0, time.UTC).Day()
		if day > lastDay {
			day = lastDay
		}
		return time.Date(year, month+1, day, 0, 0, 0, 0, time.UTC)
	case FrequencyYearly:
		year, month, day := date.Date()
		if month == time.February && day == 29 && !isLeapYear(year+1) {
			day = 28
		}
		return time.Date(year+1, month, day, 0, 0, 0, 0, time.UTC)
	default:
		return date.AddDate(0, 1, 0)
	}
}

// PeriodIndex devolve a posição (base 1) de uma ocorrência na sequência de
// vencimentos da obrigação. Para empréstimos amortizados é o número da
// prestação dentro do prazo contratado.
func PeriodIndex(ob *RecurringObligation, occurrence time.Time) int {
	cursor := shared.DateOnly(ob.StartDate)
	target := shared.DateOnly(occurrence)

	period := 1
	for cursor.Before(target) {
		cursor = NextAfter(cursor, ob.Frequency)
		period++
	}
	return period
}

// NextDueAfter calcula o novo NextDue depois de postar a ocorrência
// informada; devolve nil quando a sequência termina (endDate ultrapassada).
func NextDueAfter(ob *RecurringObligation, occurrence time.Time) *time.Time {
	next := NextAfter(occurrence, ob.Frequency)
	if ob.EndDate != nil && next.After(shared.DateOnly(*ob.EndDate)) {
		return nil
	}
	return &next
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
