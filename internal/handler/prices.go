package handler

import (
	"net/http"

	"feedmill/internal/dto"
	"feedmill/internal/service"

	"github.com/gin-gonic/gin"
)

type PriceHandler struct{ svc service.PriceService }

func NewPriceHandler(svc service.PriceService) *PriceHandler {
	return &PriceHandler{svc: svc}
}

func (h *PriceHandler) Create(c *gin.Context) {
	var req dto.CreatePriceRequest
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

func (h *PriceHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
