package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/models"
	"github.com/sman1kwanyar/e-presensi-api/internal/service"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

// AuthHandler exposes login and credential management endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login godoc
// @Summary Authenticate a user
// @Description Checks managed credential lists and teacher accounts, in that order.
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body models.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListCredentials godoc
// @Summary List credentials for a scope
// @Tags Auth
// @Produce json
// @Param scope path string true "Credential scope (admin, discipline, headmaster)"
// @Success 200 {object} response.Envelope
// @Router /credentials/{scope} [get]
func (h *AuthHandler) ListCredentials(c *gin.Context) {
	scope, ok := credentialScope(c)
	if !ok {
		return
	}
	creds, err := h.auth.ListCredentials(c.Request.Context(), scope)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, creds, nil)
}

// CreateCredential godoc
// @Summary Add a credential to a scope
// @Tags Auth
// @Accept json
// @Produce json
// @Param scope path string true "Credential scope (admin, discipline, headmaster)"
// @Param payload body service.CredentialRequest true "Credential payload"
// @Success 201 {object} response.Envelope
// @Router /credentials/{scope} [post]
func (h *AuthHandler) CreateCredential(c *gin.Context) {
	scope, ok := credentialScope(c)
	if !ok {
		return
	}
	var req service.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cred, err := h.auth.CreateCredential(c.Request.Context(), scope, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cred)
}

// UpdateCredential godoc
// @Summary Update a credential
// @Tags Auth
// @Accept json
// @Produce json
// @Param id path string true "Credential ID"
// @Param payload body service.CredentialRequest true "Credential payload"
// @Success 200 {object} response.Envelope
// @Router /credentials/{id} [put]
func (h *AuthHandler) UpdateCredential(c *gin.Context) {
	var req service.CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	cred, err := h.auth.UpdateCredential(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cred, nil)
}

// DeleteCredential godoc
// @Summary Delete a credential
// @Tags Auth
// @Param id path string true "Credential ID"
// @Success 204
// @Router /credentials/{id} [delete]
func (h *AuthHandler) DeleteCredential(c *gin.Context) {
	if err := h.auth.DeleteCredential(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func credentialScope(c *gin.Context) (models.CredentialScope, bool) {
	switch scope := models.CredentialScope(c.Param("scope")); scope {
	case models.CredentialScopeAdmin, models.CredentialScopeDiscipline, models.CredentialScopeHeadmaster:
		return scope, true
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown credential scope"))
		return "", false
	}
}
