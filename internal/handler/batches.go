package handler

import (
	"net/http"
	"strconv"

	"feedmill/internal/dto"
	"feedmill/internal/service"

	"github.com/gin-gonic/gin"
)

type BatchHandler struct{ svc service.BatchFixService }

func NewBatchHandler(svc service.BatchFixService) *BatchHandler {
	return &BatchHandler{svc: svc}
}

func (h *BatchHandler) ListSuspicious(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.ListSuspicious(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchHandler) ZeroLoaded(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetZeroLoaded(c.Request.Context(), batchID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BatchHandler) FixItem(c *gin.Context) {
	batchID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId")
	if !ok {
		return
	}
	var req dto.FixBatchItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FixItem(c.Request.Context(), batchID, itemID, req, actorRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
