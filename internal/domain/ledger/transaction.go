package ledger

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// PostedTransaction é um lançamento imutável do razão. Correções nunca
// alteram um lançamento existente; entram como novos lançamentos de
// compensação. O par (ObligationId, OccurrenceDate) é a chave de
// idempotência: no máximo um lançamento por vencimento de cada obrigação,
// garantido por índice único no armazenamento.
type PostedTransaction struct {
	Id                 ulid.ULID     `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId             ulid.ULID     `gorm:"type:varchar(26);index:idx_ledger_user_id;not null" json:"userId"`
	// o índice único parcial em (obligation_id, occurrence_date) é criado
	// pela migração explícita em infrastructure
	ObligationId       *ulid.ULID    `gorm:"type:varchar(26);index:idx_ledger_obligation_id" json:"obligationId"`
	OccurrenceDate     time.Time     `gorm:"type:date;not null" json:"occurrenceDate"`
	Amount             float64       `gorm:"type:decimal(15,2);not null" json:"amount"`
	Currency           string        `gorm:"type:varchar(3);not null" json:"currency"`
	Direction          DirectionType `gorm:"type:varchar(10);not null" json:"direction"`
	PrincipalComponent *float64      `gorm:"type:decimal(15,2)" json:"principalComponent"`
	InterestComponent  *float64      `gorm:"type:decimal(15,2)" json:"interestComponent"`
	Description        string        `gorm:"type:varchar(255)" json:"description"`
	CreatedAt          time.Time     `gorm:"autoCreateTime;not null" json:"createdAt"`
}

func (PostedTransaction) TableName() string {
	return "posted_transactions"
}

type DirectionType string

const (
	DirectionCredit DirectionType = "CREDIT"
	DirectionDebit  DirectionType = "DEBIT"
)
