package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sman1kwanyar/e-presensi-api/internal/service"
	appErrors "github.com/sman1kwanyar/e-presensi-api/pkg/errors"
	"github.com/sman1kwanyar/e-presensi-api/pkg/response"
)

// ViolationHandler exposes the violation catalog and incident endpoints.
type ViolationHandler struct {
	violations *service.ViolationService
}

// NewViolationHandler constructs ViolationHandler.
func NewViolationHandler(violations *service.ViolationService) *ViolationHandler {
	return &ViolationHandler{violations: violations}
}

// ListItems godoc
// @Summary List the violation catalog
// @Tags Violations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /violations/items [get]
func (h *ViolationHandler) ListItems(c *gin.Context) {
	items, err := h.violations.ListItems(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// CreateItem godoc
// @Summary Add a catalog entry
// @Tags Violations
// @Accept json
// @Produce json
// @Param payload body service.ViolationItemRequest true "Catalog payload"
// @Success 201 {object} response.Envelope
// @Router /violations/items [post]
func (h *ViolationHandler) CreateItem(c *gin.Context) {
	var req service.ViolationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.violations.CreateItem(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// UpdateItem godoc
// @Summary Update a catalog entry
// @Tags Violations
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param payload body service.ViolationItemRequest true "Catalog payload"
// @Success 200 {object} response.Envelope
// @Router /violations/items/{id} [put]
func (h *ViolationHandler) UpdateItem(c *gin.Context) {
	var req service.ViolationItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.violations.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// DeleteItem godoc
// @Summary Delete a catalog entry
// @Tags Violations
// @Param id path string true "Item ID"
// @Success 204
// @Router /violations/items/{id} [delete]
func (h *ViolationHandler) DeleteItem(c *gin.Context) {
	if err := h.violations.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkDeleteItems godoc
// @Summary Delete several catalog entries at once
// @Tags Violations
// @Accept json
// @Param payload body handler.bulkDeleteRequest true "Item IDs"
// @Success 204
// @Router /violations/items/bulk-delete [post]
func (h *ViolationHandler) BulkDeleteItems(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.violations.DeleteItems(c.Request.Context(), req.IDs); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

// ListRecords godoc
// @Summary List incident records
// @Tags Violations
// @Produce json
// @Param classId query string false "Filter by class"
// @Param studentId query string false "Filter by student"
// @Param date query string false "Filter by date (YYYY-MM-DD)"
// @Param month query string false "Filter by month (YYYY-MM)"
// @Param search query string false "Search by student name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /violations [get]
func (h *ViolationHandler) ListRecords(c *gin.Context) {
	req := service.ViolationListRequest{
		ClassID:     c.Query("classId"),
		StudentID:   c.Query("studentId"),
		Month:       c.Query("month"),
		StudentName: strings.TrimSpace(c.Query("search")),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD"))
			return
		}
		req.Date = &date
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		req.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		req.PageSize = size
	}

	records, pagination, err := h.violations.ListRecords(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Record godoc
// @Summary Register a new incident
// @Tags Violations
// @Accept json
// @Produce json
// @Param payload body service.RecordViolationRequest true "Incident payload"
// @Success 201 {object} response.Envelope
// @Router /violations [post]
func (h *ViolationHandler) Record(c *gin.Context) {
	var req service.RecordViolationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if req.Reporter == "" {
		if claims := claimsFromContext(c); claims != nil {
			req.Reporter = claims.FullName
		}
	}
	record, err := h.violations.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}
