package handler

import (
	"net/http"

	"betteredible/internal/apierror"
	"betteredible/internal/dto"
	"betteredible/internal/middleware"
	"betteredible/internal/service"

	"github.com/gin-gonic/gin"
)

type LabelsHandler struct{ svc service.LabelService }

func NewLabelsHandler(svc service.LabelService) *LabelsHandler {
	return &LabelsHandler{svc: svc}
}

// actorFromClaims builds the transition actor from the authenticated user.
func actorFromClaims(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	if claims == nil {
		return service.Actor{ID: "anonymous", Type: "system"}
	}
	return service.Actor{ID: claims.UserID, Type: claims.Role}
}

// Create godoc
// @Summary Submit a new label for a client
// @Tags labels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client UUID"
// @Param body body dto.CreateLabelRequest true "Label details"
// @Success 201 {object} dto.LabelResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/clients/{clientId}/labels [post]
func (h *LabelsHandler) Create(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}
	var req dto.CreateLabelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), clientID, req, actorFromClaims(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LabelsHandler) ListByClient(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}
	var filter dto.LabelFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListByClient(c.Request.Context(), clientID, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Approved returns the client's approved labels — the pool an order is
// assembled from.
func (h *LabelsHandler) Approved(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}
	resp, err := h.svc.ApprovedByClient(c.Request.Context(), clientID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LabelsHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateLabelRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *LabelsHandler) History(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.History(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Advance godoc
// @Summary Advance a label to a later stage
// @Description Stages only move forward; targets at or before the current stage are rejected with 409.
// @Tags labels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Label UUID"
// @Param body body dto.AdvanceStageRequest true "Target stage"
// @Success 200 {object} dto.LabelResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/labels/{id}/advance [post]
func (h *LabelsHandler) Advance(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AdvanceStageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Advance(c.Request.Context(), id, req, actorFromClaims(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BulkAdvance godoc
// @Summary Advance a client's whole label group
// @Description Labels already at or past the target stage are skipped. Returns how many labels moved.
// @Tags labels
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clientId path string true "Client UUID"
// @Param body body dto.AdvanceStageRequest true "Target stage"
// @Success 200 {object} dto.BulkAdvanceResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/clients/{clientId}/labels/advance [post]
func (h *LabelsHandler) BulkAdvance(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "clientId")
	if !ok {
		return
	}
	var req dto.AdvanceStageRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.BulkAdvance(c.Request.Context(), clientID, req, actorFromClaims(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
