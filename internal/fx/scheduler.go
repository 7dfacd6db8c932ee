package fx

import (
	"context"

	"Obriga/config"
	"Obriga/internal/domain/processing"
	"Obriga/internal/domain/shared"
	"Obriga/internal/scheduler"

	"go.uber.org/fx"
)

// SchedulerModule liga o gatilho periódico ao ciclo de vida da aplicação
var SchedulerModule = fx.Module("scheduler",
	fx.Provide(
		newScheduler,
	),
	fx.Invoke(
		registerScheduler,
	),
)

func newScheduler(cfg *config.Config, runner *processing.BatchRunner, clock shared.Clock) *scheduler.Scheduler {
	return scheduler.New(runner, clock, cfg.Batch.Interval)
}

func registerScheduler(lc fx.Lifecycle, sched *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sched.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sched.Stop()
			return nil
		},
	})
}
