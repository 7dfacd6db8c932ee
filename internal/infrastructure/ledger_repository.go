package infrastructure

import (
	"context"
	"errors"
	"time"

	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/shared"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/pkg"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

type LedgerRepository struct {
	DB *gorm.DB
}

var _ ledger.Repository = (*LedgerRepository)(nil)

type postedTransactionDB struct {
	Id                 string     `gorm:"type:varchar(26);primaryKey;column:id"`
	UserId             string     `gorm:"type:varchar(26);index;not null;column:user_id"`
	ObligationId       *string    `gorm:"type:varchar(26);index;column:obligation_id"`
	OccurrenceDate     time.Time  `gorm:"type:date;not null;column:occurrence_date"`
	Amount             float64    `gorm:"type:decimal(15,2);not null;column:amount"`
	Currency           string     `gorm:"type:varchar(3);not null;column:currency"`
	Direction          string     `gorm:"type:varchar(10);not null;column:direction"`
	PrincipalComponent *float64   `gorm:"type:decimal(15,2);column:principal_component"`
	InterestComponent  *float64   `gorm:"type:decimal(15,2);column:interest_component"`
	Description        string     `gorm:"type:varchar(255);column:description"`
	CreatedAt          time.Time  `gorm:"not null;column:created_at"`
}

func (postedTransactionDB) TableName() string {
	return "posted_transactions"
}

func toDomainPosted(row *postedTransactionDB) (*ledger.PostedTransaction, error) {
	id, err := pkg.ParseULID(row.Id)
	if err != nil {
		return nil, err
	}

	userID, err := pkg.ParseULID(row.UserId)
	if err != nil {
		return nil, err
	}

	var obligationID *ulid.ULID
	if row.ObligationId != nil && *row.ObligationId != "" {
		parsed, err := pkg.ParseULID(*row.ObligationId)
		if err != nil {
			return nil, err
		}
		obligationID = &parsed
	}

	return &ledger.PostedTransaction{
		Id:                 id,
		UserId:             userID,
		ObligationId:       obligationID,
		OccurrenceDate:     row.OccurrenceDate,
		Amount:             row.Amount,
		Currency:           row.Currency,
		Direction:          ledger.DirectionType(row.Direction),
		PrincipalComponent: row.PrincipalComponent,
		InterestComponent:  row.InterestComponent,
		Description:        row.Description,
		CreatedAt:          row.CreatedAt,
	}, nil
}

func toDBPosted(tx *ledger.PostedTransaction) *postedTransactionDB {
	var obligationID *string
	if tx.ObligationId != nil {
		s := tx.ObligationId.String()
		obligationID = &s
	}

	return &postedTransactionDB{
		Id:                 tx.Id.String(),
		UserId:             tx.UserId.String(),
		ObligationId:       obligationID,
		OccurrenceDate:     tx.OccurrenceDate,
		Amount:             tx.Amount,
		Currency:           tx.Currency,
		Direction:          string(tx.Direction),
		PrincipalComponent: tx.PrincipalComponent,
		InterestComponent:  tx.InterestComponent,
		Description:        tx.Description,
		CreatedAt:          tx.CreatedAt,
	}
}

// Append grava um lançamento novo. A violação do índice único de
// (obligation_id, occurrence_date) vira ErrConcurrencyConflict: a ocorrência
// já foi postada por outra execução e o chamador trata como sucesso.
func (r *LedgerRepository) Append(ctx context.Context, tx *ledger.PostedTransaction) error {
	row := toDBPosted(tx)
	err := r.DB.WithContext(ctx).Table("posted_transactions").Create(row).Error
	if err != nil && shared.IsUniqueConstraintError(err) {
		return appErrors.ErrConcurrencyConflict.WithError(err)
	}
	return err
}

func (r *LedgerRepository) FindByOccurrence(ctx context.Context, obligationID ulid.ULID, occurrenceDate time.Time) (*ledger.PostedTransaction, error) {
	var row postedTransactionDB
	err := r.DB.WithContext(ctx).
		Table("posted_transactions").
		Where("obligation_id = ? AND occurrence_date = ?", obligationID.String(), shared.DateOnly(occurrenceDate)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomainPosted(&row)
}

func (r *LedgerRepository) Exists(ctx context.Context, obligationID ulid.ULID, occurrenceDate time.Time) (bool, error) {
	tx, err := r.FindByOccurrence(ctx, obligationID, occurrenceDate)
	if err != nil {
		return false, err
	}
	return tx != nil, nil
}

func (r *LedgerRepository) GetByObligation(ctx context.Context, obligationID, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*ledger.PostedTransaction, int64, error) {
	query := r.DB.WithContext(ctx).
		Table("posted_transactions").
		Where("obligation_id = ? AND user_id = ?", obligationID.String(), userID.String())

	return pkg.Paginate(query, pagination, "occurrence_date ASC", toDomainPosted)
}
