package obligation

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// RecurringObligation é a definição declarativa de uma obrigação recorrente:
// uma conta/receita de valor fixo (PLAIN) ou um empréstimo amortizado
// (AMORTIZING). O par LastProcessed/NextDue é o cursor de agenda, avançado
// exclusivamente pelo processador, sempre para frente.
type RecurringObligation struct {
	Id                 ulid.ULID     `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserId             ulid.ULID     `gorm:"type:varchar(26);index:idx_obligations_user_id;not null" json:"userId"`
	Kind               KindType      `gorm:"type:varchar(15);not null" json:"kind"`
	Direction          DirectionType `gorm:"type:varchar(10);not null" json:"direction"`
	Amount             float64       `gorm:"type:decimal(15,2)" json:"amount"`
	Currency           string        `gorm:"type:varchar(3);not null;default:'BRL'" json:"currency"`
	Principal          float64       `gorm:"type:decimal(15,2)" json:"principal"`
	RemainingPrincipal float64       `gorm:"type:decimal(15,2)" json:"remainingPrincipal"`
	AnnualRatePercent  float64       `gorm:"type:decimal(8,4)" json:"annualRatePercent"`
	TermPeriods        int           `gorm:"default:0" json:"termPeriods"`
	Description        string        `gorm:"type:varchar(255)" json:"description"`
	Frequency          FrequencyType `gorm:"type:varchar(20);not null" json:"frequency"`
	StartDate          time.Time     `gorm:"type:date;not null" json:"startDate"`
	EndDate            *time.Time    `gorm:"type:date" json:"endDate"`
	LastProcessed      *time.Time    `gorm:"type:date" json:"lastProcessed"`
	NextDue            *time.Time    `gorm:"type:date;index:idx_obligations_next_due" json:"nextDue"`
	Status             StatusType    `gorm:"type:varchar(15);not null;default:'ACTIVE';index:idx_obligations_status" json:"status"`
	CreatedAt          time.Time     `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt          time.Time     `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (RecurringObligation) TableName() string {
	return "recurring_obligations"
}

func (o *RecurringObligation) IsAmortizing() bool {
	return o.Kind == KindAmortizing
}

func (o *RecurringObligation) IsActive() bool {
	return o.Status == StatusActive
}

type KindType string

const (
	KindPlain      KindType = "PLAIN"
	KindAmortizing KindType = "AMORTIZING"
)

func (k KindType) IsValid() bool {
	switch k {
	case KindPlain, KindAmortizing:
		return true
	}
	return false
}

type DirectionType string

const (
	DirectionCredit DirectionType = "CREDIT"
	DirectionDebit  DirectionType = "DEBIT"
)

func (d DirectionType) IsValid() bool {
	switch d {
	case DirectionCredit, DirectionDebit:
		return true
	}
	return false
}

type FrequencyType string

const (
	FrequencyDaily   FrequencyType = "DAILY"
	FrequencyWeekly  FrequencyType = "WEEKLY"
	FrequencyMonthly FrequencyType = "MONTHLY"
	FrequencyYearly  FrequencyType = "YEARLY"
)

func (f FrequencyType) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// PeriodsPerYear é a convenção usada para converter a taxa anual em taxa
// por período.
func (f FrequencyType) PeriodsPerYear() int {
	switch f {
	case FrequencyDaily:
		return 365
	case FrequencyWeekly:
		return 52
	case FrequencyMonthly:
		return 12
	case FrequencyYearly:
		return 1
	default:
		return 12
	}
}

type StatusType string

const (
	// StatusActive é o único estado não terminal.
	StatusActive    StatusType = "ACTIVE"
	StatusCompleted StatusType = "COMPLETED"
	StatusDefaulted StatusType = "DEFAULTED"
)

func (s StatusType) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusDefaulted:
		return true
	}
	return false
}

func (s StatusType) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDefaulted
}
