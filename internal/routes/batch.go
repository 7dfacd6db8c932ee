package routes

import (
	"net/http"

	"Obriga/internal/contracts"
	appErrors "Obriga/internal/errors"
	"Obriga/internal/pkg"

	"github.com/gin-gonic/gin"
)

// RunBatch dispara o lote completo sob demanda, com as mesmas garantias de
// idempotência do caminho periódico.
func (h *Handler) RunBatch(c *gin.Context) {
	ctx := c.Request.Context()

	summary, err := h.Runner.RunAll(ctx, h.Clock.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RunOwnerBatch processa apenas as obrigações de um dono.
func (h *Handler) RunOwnerBatch(c *gin.Context) {
	ownerID, err := h.ownerIDFromPath(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	summary, err := h.Runner.RunOwner(ctx, ownerID, h.Clock.Now())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ProcessObligation posta as ocorrências devidas de uma única obrigação.
// Aceita um as_of opcional para simular o relógio em homologação.
func (h *Handler) ProcessObligation(c *gin.Context) {
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

	var body contracts.ProcessRequest
	if err := c.ShouldBindJSON(&body); err != nil && err.Error() != "EOF" {
		h.respondError(c, appErrors.ErrBadRequest.WithError(err))
		return
	}

	asOf := h.Clock.Now()
	if body.AsOf != nil {
		asOf = *body.AsOf
	}

	ctx := c.Request.Context()
	result, err := h.Runner.RunObligation(ctx, obligationID, ownerID, asOf)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Processamento concluido",
		"posted":     result.Posted,
		"obligation": result.Obligation,
		"errors":     result.Errors,
	})
}
