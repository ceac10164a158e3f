package handler

import (
	"net/http"
	"strconv"

	"feedmill/internal/dto"
	"feedmill/internal/service"

	"github.com/gin-gonic/gin"
)

type AcceptanceHandler struct{ svc service.AcceptanceService }

func NewAcceptanceHandler(svc service.AcceptanceService) *AcceptanceHandler {
	return &AcceptanceHandler{svc: svc}
}

func (h *AcceptanceHandler) Create(c *gin.Context) {
	var req dto.CreateAcceptanceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req, actorRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AcceptanceHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ListLatest(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
