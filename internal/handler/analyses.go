package handler

import (
	"net/http"

	"feedmill/internal/apierror"
	"feedmill/internal/dto"
	"feedmill/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalysisHandler struct{ svc service.AnalysisService }

func NewAnalysisHandler(svc service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

func (h *AnalysisHandler) CreateInternal(c *gin.Context) {
	var req dto.CreateInternalAnalysisRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateInternal(c.Request.Context(), req, actorRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AnalysisHandler) CreateExternal(c *gin.Context) {
	var req dto.CreateExternalAnalysisRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateExternal(c.Request.Context(), req, actorRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AnalysisHandler) List(c *gin.Context) {
	var filter dto.AnalysisFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters: "+err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
