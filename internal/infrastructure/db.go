package infrastructure

import (
	"Obriga/config"
	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDb(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Error().
			Err(err).
			Str("host", cfg.Database.Host).
			Int("port", cfg.Database.Port).
			Str("database", cfg.Database.DBName).
			Msg("Falha ao conectar ao banco de dados")
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error().Err(err).Msg("Falha ao obter instância do banco de dados")
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	logger.Info().
		Str("host", cfg.Database.Host).
		Int("port", cfg.Database.Port).
		Str("database", cfg.Database.DBName).
		Msg("Conexão com banco de dados estabelecida com sucesso")

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

func runMigrations(db *gorm.DB) error {
	logger.Info().Msg("Executando migrations...")

	entities := []interface{}{
		&obligation.RecurringObligation{},
		&ledger.PostedTransaction{},
	}

	for _, entity := range entities {
		if err := db.AutoMigrate(entity); err != nil {
			logger.Error().Err(err).Msg("Erro ao migrar entidade")
			return err
		}
	}

	if err := ensureIdempotencyIndex(db); err != nil {
		return err
	}

	logger.Info().Msg("Migrations executadas com sucesso!")
	return nil
}

// ensureIdempotencyIndex garante o índice único em
// (obligation_id, occurrence_date), o único mecanismo de segurança contra
// postagem duplicada entre execuções concorrentes. Lançamentos manuais
// (obligation_id nulo) ficam fora do índice.
func ensureIdempotencyIndex(db *gorm.DB) error {
	query := `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_obligation_occurrence
		ON posted_transactions (obligation_id, occurrence_date)
		WHERE obligation_id IS NOT NULL
	`
	if err := db.Exec(query).Error; err != nil {
		logger.Error().Err(err).Msg("Erro ao criar índice de idempotência do razão")
		return err
	}
	return nil
}
