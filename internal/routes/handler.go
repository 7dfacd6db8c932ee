package routes

import (
	"Obriga/internal/domain/ledger"
	"Obriga/internal/domain/obligation"
	"Obriga/internal/domain/processing"
	"Obriga/internal/domain/shared"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/logger"
	"Obriga/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
)

type Handler struct {
	ObligationService *obligation.Service
	Runner            *processing.BatchRunner
	LedgerRepository  ledger.Repository
	Clock             shared.Clock
}

func (h *Handler) ownerIDFromPath(c *gin.Context) (ulid.ULID, error) {
	ownerID, err := pkg.ParseULID(c.Param("owner_id"))
	if err != nil {
		return ulid.ULID{}, appErrors.NewValidationError("owner_id", "formato invalido")
	}
	return ownerID, nil
}

func (h *Handler) parsePagination(c *gin.Context) *pkg.PaginationParams {
	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	var pageNum, limitNum int
	if p, err := pkg.ParseInt(page); err == nil && p > 0 {
		pageNum = p
	} else {
		pageNum = 1
	}

	if l, err := pkg.ParseInt(limit); err == nil && l > 0 {
		limitNum = l
	} else {
		limitNum = 10
	}

	return &pkg.PaginationParams{
		Page:  pageNum,
		Limit: limitNum,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	event := logger.Error().Str("code", appErr.Code).Str("path", c.FullPath())
	if appErr.Err != nil {
		event = event.Err(appErr.Err)
	}
	event.Msg("request_error")
	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.JSON(appErr.StatusCode, payload)
}
