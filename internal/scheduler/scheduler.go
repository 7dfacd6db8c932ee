package scheduler

import (
	"context"
	"time"

	"Obriga/internal/domain/processing"
	"Obriga/internal/domain/shared"
	"Obriga/internal/logger"
)

// Scheduler dispara o lote em cadência fixa. Ele é deliberadamente burro:
// toda a semântica (idempotência, isolamento de falha, cancelamento) vive
// no BatchRunner — perder ou repetir um disparo não tem efeito além de
// atrasar ou adiantar postagens que continuam devidas.
type Scheduler struct {
	Runner   *processing.BatchRunner
	Clock    shared.Clock
	Interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func New(runner *processing.BatchRunner, clock shared.Clock, interval time.Duration) *Scheduler {
	return &Scheduler{
		Runner:   runner,
		Clock:    clock,
		Interval: interval,
	}
}

func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx)

	logger.Info().
		Dur("interval", s.Interval).
		Msg("Agendador de obrigações iniciado")
}

func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	logger.Info().Msg("Agendador de obrigações parado")
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// executa uma vez na subida para recuperar atrasos de downtime
	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	summary, err := s.Runner.RunAll(ctx, s.Clock.Now())
	if err != nil {
		logger.Error().Err(err).Msg("Execução do lote de obrigações falhou")
		return
	}
	logger.Debug().
		Int("processed", summary.ProcessedCount).
		Int("posted", summary.PostedCount).
		Msg("execucao periodica concluida")
}
