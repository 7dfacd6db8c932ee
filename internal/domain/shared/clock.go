package shared

import "time"

// Clock fornece o instante atual. Injetado em todos os componentes que
// dependem de tempo para permitir testes determinísticos.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock devolve sempre o mesmo instante.
type FixedClock struct {
	Instant time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Instant
}

// DateOnly normaliza um instante para meia-noite UTC. Todas as datas de
// agenda (vencimento, ocorrência, cursor) são comparadas nessa granularidade.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
