package routes

import (
	"net/http"

	"Obriga/internal/contracts"
	"Obriga/internal/domain/obligation"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/pkg"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateObligation(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var body contracts.ObligationCreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	req := &obligation.CreateObligationRequest{
		UserId:            ownerID,
		Kind:              obligation.KindType(body.Kind),
		Direction:         obligation.DirectionType(body.Direction),
		Amount:            body.Amount,
		Currency:          body.Currency,
		Principal:         body.Principal,
		AnnualRatePercent: body.AnnualRatePercent,
		TermPeriods:       body.TermPeriods,
		Description:       body.Description,
		Frequency:         obligation.FrequencyType(body.Frequency),
		StartDate:         body.StartDate,
		EndDate:           body.EndDate,
	}

	ctx := c.Request.Context()
	ob, err := h.ObligationService.CreateObligation(ctx, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, contracts.ObligationCreateResponse{
		Message:    "Obrigacao recorrente criada com sucesso",
		Obligation: ob,
	})
}

func (h *Handler) ListObligations(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	obs, total, err := h.ObligationService.ListObligations(ctx, ownerID, pagination)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(obs, pagination.Page, pagination.Limit, total))
}

func (h *Handler) GetObligation(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	obligationID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	ctx := c.Request.Context()
	ob, err := h.ObligationService.GetObligationByID(ctx, obligationID, ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.ObligationSingleResponse{Obligation: ob})
}

func (h *Handler) UpdateObligation(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	obligationID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	var body contracts.ObligationUpdateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, appErrors.ParseValidationErrors(err))
		return
	}

	req := &obligation.UpdateObligationRequest{
		Amount:      body.Amount,
		Description: body.Description,
		EndDate:     body.EndDate,
	}

	ctx := c.Request.Context()
	ob, err := h.ObligationService.UpdateObligation(ctx, obligationID, ownerID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.ObligationSingleResponse{Obligation: ob})
}

func (h *Handler) MarkObligationDefaulted(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	obligationID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	ctx := c.Request.Context()
	ob, err := h.ObligationService.MarkDefaulted(ctx, obligationID, ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.ObligationSingleResponse{Obligation: ob})
}

func (h *Handler) GetObligationSchedule(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	obligationID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	ctx := c.Request.Context()
	installments, err := h.ObligationService.Schedule(ctx, obligationID, ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, contracts.ScheduleResponse{
		ObligationId: obligationID.String(),
		Installments: installments,
	})
}

func (h *Handler) ListObligationPostings(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	obligationID, err := pkg.ParseULID(c.Param("id"))
	if err != nil {
		h.respondError(c, appErrors.NewValidationError("id", "formato invalido"))
		return
	}

	pagination := h.parsePagination(c)

	ctx := c.Request.Context()
	postings, total, err := h.LedgerRepository.GetByObligation(ctx, obligationID, ownerID, pagination)
	if err != nil {
		h.respondError(c, appErrors.NewRepositoryError(err))
		return
	}

	c.JSON(http.StatusOK, pkg.NewPaginatedResponse(postings, pagination.Page, pagination.Limit, total))
}
