package handler

import (
	"io"
	"net/http"
	"strconv"

	"feedmill/internal/apierror"
	"feedmill/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImportFileSize caps uploads at 20 MB; batch files are a few hundred KB.
const maxImportFileSize = 20 << 20

type ImportHandler struct{ svc service.BatchImportService }

func NewImportHandler(svc service.BatchImportService) *ImportHandler {
	return &ImportHandler{svc: svc}
}

// Upload handles POST /v1/imports/batch with a multipart "file" field.
func (h *ImportHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("multipart field 'file' is required"))
		return
	}
	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("file too large"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.svc.ImportFile(c.Request.Context(), fileHeader.Filename, content, actorRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, summary)
}

func (h *ImportHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.svc.ListJobs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
