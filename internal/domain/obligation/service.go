package obligation

import (
	"context"
	"strings"
	"time"

	"Obriga/internal/domain/amortization"
	"Obriga/internal/domain/shared"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Service struct {
	Repository Repository
	Clock      shared.Clock
}

func NewService(repo Repository, clock shared.Clock) *Service {
	return &Service{
		Repository: repo,
		Clock:      clock,
	}
}

func (s *Service) CreateObligation(ctx context.Context, req *CreateObligationRequest) (*RecurringObligation, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	startDate := shared.DateOnly(req.StartDate)
	// a primeira ocorrência é o próprio startDate
	nextDue := startDate

	ob := &RecurringObligation{
		Id:          pkg.GenerateULIDObject(),
		UserId:      req.UserId,
		Kind:        req.Kind,
		Direction:   req.Direction,
		Currency:    strings.ToUpper(strings.TrimSpace(req.Currency)),
		Description: strings.TrimSpace(req.Description),
		Frequency:   req.Frequency,
		StartDate:   startDate,
		NextDue:     &nextDue,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if req.EndDate != nil {
		end := shared.DateOnly(*req.EndDate)
		ob.EndDate = &end
	}

	if req.Kind == KindAmortizing {
		ob.Principal = req.Principal
		ob.RemainingPrincipal = req.Principal
		ob.AnnualRatePercent = req.AnnualRatePercent
		ob.TermPeriods = req.TermPeriods
	} else {
		ob.Amount = req.Amount
	}

	if err := s.Repository.Create(ctx, ob); err != nil {
		return nil, appErrors.NewRepositoryError(err)
	}

	return ob, nil
}

func (s *Service) GetObligationByID(ctx context.Context, obligationID, userID ulid.ULID) (*RecurringObligation, error) {
	ob, err := s.Repository.GetByID(ctx, obligationID, userID)
	if err != nil {
		return nil, appErrors.ErrObligationNotFound.WithError(err)
	}

	if ob.UserId != userID {
		return nil, appErrors.ErrResourceNotOwned
	}

	return ob, nil
}

func (s *Service) ListObligations(ctx context.Context, userID ulid.ULID, pagination *pkg.PaginationParams) ([]*RecurringObligation, int64, error) {
	return s.Repository.GetByUserID(ctx, userID, pagination)
}

func (s *Service) UpdateObligation(ctx context.Context, obligationID, userID ulid.ULID, req *UpdateObligationRequest) (*RecurringObligation, error) {
	ob, err := s.GetObligationByID(ctx, obligationID, userID)
	if err != nil {
		return nil, err
	}

	if ob.Status.IsTerminal() {
		return nil, appErrors.ErrObligationInactive
	}

	if req.Amount != nil {
		if ob.IsAmortizing() {
			return nil, appErrors.NewValidationError("amount", "valor fixo nao se aplica a emprestimo amortizado")
		}
		if *req.Amount <= 0 {
			return nil, appErrors.NewValidationError("amount", "deve ser maior que zero")
		}
		ob.Amount = *req.Amount
	}

	if req.Description != nil {
		ob.Description = strings.TrimSpace(*req.Description)
	}

	if req.EndDate != nil {
		end := shared.DateOnly(*req.EndDate)
		if end.Before(shared.DateOnly(ob.StartDate)) {
			return nil, appErrors.NewValidationError("end_date", "deve ser posterior a data de inicio")
		}
		ob.EndDate = &end
	}

	ob.UpdatedAt = s.Clock.Now()

	if err := s.Repository.Save(ctx, ob); err != nil {
		return nil, appErrors.NewRepositoryError(err)
	}

	return ob, nil
}

// MarkDefaulted é a transição administrativa ACTIVE → DEFAULTED; nunca é
// disparada pelo processamento.
func (s *Service) MarkDefaulted(ctx context.Context, obligationID, userID ulid.ULID) (*RecurringObligation, error) {
	ob, err := s.GetObligationByID(ctx, obligationID, userID)
	if err != nil {
		return nil, err
	}

	if !ob.IsActive() {
		return nil, appErrors.ErrObligationInactive
	}

	ob.Status = StatusDefaulted
	ob.NextDue = nil
	ob.UpdatedAt = s.Clock.Now()

	if err := s.Repository.Save(ctx, ob); err != nil {
		return nil, appErrors.NewRepositoryError(err)
	}

	return ob, nil
}

// Schedule materializa o cronograma de amortização para exibição; não faz
// parte do caminho de postagem.
func (s *Service) Schedule(ctx context.Context, obligationID, userID ulid.ULID) ([]amortization.Installment, error) {
	ob, err := s.GetObligationByID(ctx, obligationID, userID)
	if err != nil {
		return nil, err
	}

	if !ob.IsAmortizing() {
		return nil, appErrors.NewValidationError("kind", "cronograma disponivel apenas para emprestimos amortizados")
	}

	return amortization.BuildSchedule(
		ob.Principal,
		ob.AnnualRatePercent,
		ob.TermPeriods,
		ob.Frequency.PeriodsPerYear(),
	)
}

func (s *Service) validateCreateRequest(req *CreateObligationRequest) error {
	if pkg.IsEmptyULID(req.UserId) {
		return appErrors.NewValidationError("user_id", "obrigatorio")
	}

	if !req.Kind.IsValid() {
		return appErrors.NewValidationError("kind", "tipo invalido")
	}

	if !req.Direction.IsValid() {
		return appErrors.NewValidationError("direction", "direcao invalida")
	}

	if !req.Frequency.IsValid() {
		return appErrors.NewValidationError("frequency", "frequencia invalida")
	}

	if strings.TrimSpace(req.Currency) == "" {
		return appErrors.NewValidationError("currency", "obrigatoria")
	}

	if req.EndDate != nil && shared.DateOnly(*req.EndDate).Before(shared.DateOnly(req.StartDate)) {
		return appErrors.NewValidationError("end_date", "deve ser posterior a data de inicio")
	}

	if req.Kind == KindAmortizing {
		if req.Principal <= 0 {
			return appErrors.NewValidationError("principal", "deve ser maior que zero")
		}
		if req.TermPeriods <= 0 {
			return appErrors.NewValidationError("term_periods", "deve ser maior que zero")
		}
		if req.AnnualRatePercent < 0 {
			return appErrors.NewValidationError("annual_rate", "nao pode ser negativa")
		}
		return nil
	}

	if req.Amount <= 0 {
		return appErrors.NewValidationError("amount", "deve ser maior que zero")
	}

	return nil
}

type CreateObligationRequest struct {
	UserId            ulid.ULID
	Kind              KindType
	Direction         DirectionType
	Amount            float64
	Currency          string
	Principal         float64
	AnnualRatePercent float64
	TermPeriods       int
	Description       string
	Frequency         FrequencyType
	StartDate         time.Time
	EndDate           *time.Time
}

type UpdateObligationRequest struct {
	Amount      *float64
	Description *string
	EndDate     *time.Time
}
