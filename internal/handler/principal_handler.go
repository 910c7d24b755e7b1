package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/service"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

// PrincipalHandler exposes the headmaster identity used on report signatures.
type PrincipalHandler struct {
	principal *service.PrincipalService
}

// NewPrincipalHandler constructs PrincipalHandler.
func NewPrincipalHandler(principal *service.PrincipalService) *PrincipalHandler {
	return &PrincipalHandler{principal: principal}
}

// Get godoc
// @Summary Get the headmaster identity
// @Tags Principal
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /principal [get]
func (h *PrincipalHandler) Get(c *gin.Context) {
	principal, err := h.principal.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, principal, nil)
}

// Set godoc
// @Summary Set the headmaster identity
// @Tags Principal
// @Accept json
// @Produce json
// @Param payload body service.PrincipalRequest true "Principal payload"
// @Success 200 {object} response.Envelope
// @Router /principal [put]
func (h *PrincipalHandler) Set(c *gin.Context) {
	var req service.PrincipalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	principal, err := h.principal.Set(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, principal, nil)
}
