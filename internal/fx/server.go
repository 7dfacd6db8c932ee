package fx

import (
	"context"

	"Obriga/config"
	"Obriga/internal/logger"
	"Obriga/internal/middleware"
	"Obriga/internal/routes"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// ServerModule fornece a configuração do servidor HTTP
var ServerModule = fx.Module("server",
	fx.Provide(
		newRouter,
	),
	fx.Invoke(
		setupRoutes,
	),
)

func newRouter() *gin.Engine {
	return gin.Default()
}

func setupRoutes(
	lc fx.Lifecycle,
	cfg *config.Config,
	router *gin.Engine,
	handler *routes.Handler,
	rateLimiter *middleware.RateLimiter,
) {
	api := router.Group("/api")
	api.Use(middleware.RateLimit(rateLimiter))
	{
		admin := api.Group("/admin")
		{
			admin.POST("/batch/run", handler.RunBatch)
		}

		owners := api.Group("/owners/:owner_id")
		{
			owners.POST("/batch/run", handler.RunOwnerBatch)

			obligations := owners.Group("/obligations")
			{
				obligations.POST("", handler.CreateObligation)
				obligations.GET("", handler.ListObligations)
				obligations.GET("/:id", handler.GetObligation)
				obligations.PATCH("/:id", handler.UpdateObligation)
				obligations.POST("/:id/default", handler.MarkObligationDefaulted)
				obligations.POST("/:id/process", handler.ProcessObligation)
				obligations.GET("/:id/schedule", handler.GetObligationSchedule)
				obligations.GET("/:id/postings", handler.ListObligationPostings)
			}
		}
	}

	serverAddr := ":" + cfg.Server.Port
	logger.Info().
		Str("address", serverAddr).
		Str("environment", cfg.App.Environment).
		Msg("Servidor iniciando")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := router.Run(serverAddr); err != nil {
					logger.Fatal().Err(err).Msg("Falha ao iniciar servidor")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Servidor parando...")
			return nil
		},
	})
}
