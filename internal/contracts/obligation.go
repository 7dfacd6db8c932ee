package contracts

import (
	"time"

	"Obriga/internal/domain/amortization"
	"Obriga/internal/domain/obligation"
)

type ObligationCreateRequest struct {
	Kind              string     `json:"kind" binding:"required,oneof=PLAIN AMORTIZING"`
	Direction         string     `json:"direction" binding:"required,oneof=CREDIT DEBIT"`
	Amount            float64    `json:"amount" binding:"omitempty,gt=0"`
	Currency          string     `json:"currency" binding:"required,len=3"`
	Principal         float64    `json:"principal" binding:"omitempty,gt=0"`
	AnnualRatePercent float64    `json:"annual_rate" binding:"omitempty,gte=0"`
	TermPeriods       int        `json:"term_periods" binding:"omitempty,gt=0"`
	Description       string     `json:"description" binding:"omitempty,max=255"`
	Frequency         string     `json:"frequency" binding:"required,oneof=DAILY WEEKLY MONTHLY YEARLY"`
	StartDate         time.Time  `json:"start_date" binding:"required"`
	EndDate           *time.Time `json:"end_date" binding:"omitempty"`
}

type ObligationUpdateRequest struct {
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	Description *string    `json:"description" binding:"omitempty,max=255"`
	EndDate     *time.Time `json:"end_date" binding:"omitempty"`
}

type ObligationCreateResponse struct {
	Message    string                           `json:"message"`
	Obligation *obligation.RecurringObligation `json:"obligation"`
}

type ObligationSingleResponse struct {
	Obligation *obligation.RecurringObligation `json:"obligation"`
}

type ScheduleResponse struct {
	ObligationId string                     `json:"obligationId"`
	Installments []amortization.Installment `json:"installments"`
}

type ProcessRequest struct {
	AsOf *time.Time `json:"as_of" binding:"omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
