package handler

import (
	"net/http"
	"strconv"

	"betteredible/internal/dto"
	"betteredible/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductLinesHandler struct{ svc service.CatalogService }

func NewProductLinesHandler(svc service.CatalogService) *ProductLinesHandler {
	return &ProductLinesHandler{svc: svc}
}

func (h *ProductLinesHandler) Create(c *gin.Context) {
	var req dto.CreateProductLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLine(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductLinesHandler) List(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	resp, err := h.svc.ListLines(c.Request.Context(), includeInactive)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductLinesHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductLineRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateLine(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductLinesHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeactivateLine(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
