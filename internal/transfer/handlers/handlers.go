// Package handlers exposes the transfer operations over HTTP.
package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boardio/boardio/internal/common/errors"
	"github.com/boardio/boardio/internal/common/logger"
	"github.com/boardio/boardio/internal/transfer/service"
	v1 "github.com/boardio/boardio/pkg/api/v1"
)

type Handlers struct {
	service *service.Service
	logger  *logger.Logger
}

func NewHandlers(svc *service.Service, log *logger.Logger) *Handlers {
	return &Handlers{
		service: svc,
		logger:  log.WithFields(zap.String("component", "transfer-handlers")),
	}
}

// RegisterRoutes mounts the transfer endpoints under /api/v1.
func RegisterRoutes(router *gin.Engine, svc *service.Service, log *logger.Logger) {
	h := NewHandlers(svc, log)

	api := router.Group("/api/v1")
	api.POST("/boards/import", h.importBoard)
	api.GET("/boards/:id/export", h.exportBoard)
	api.POST("/boards/:id/export/bpmn", h.exportBPMN)
	api.GET("/export", h.exportAll)
}

// importBoard accepts an archive in the request body. The format query
// parameter selects the codec (json by default). Failures are reported in
// the result record with HTTP 200; the record carries the error.
func (h *Handlers) importBoard(c *gin.Context) {
	format := c.DefaultQuery("format", string(v1.ExportFormatJSON))

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	var result *v1.ImportResult
	switch v1.ExportFormat(format) {
	case v1.ExportFormatJSON:
		result = h.service.ImportJSON(c.Request.Context(), data)
	case v1.ExportFormatXML:
		result = h.service.ImportXML(c.Request.Context(), data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported import format: %s", format)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// exportBoard streams a board archive as a file download.
func (h *Handlers) exportBoard(c *gin.Context) {
	boardID := c.Param("id")
	format := c.DefaultQuery("format", string(v1.ExportFormatJSON))

	var (
		download *v1.Download
		err      error
	)
	switch v1.ExportFormat(format) {
	case v1.ExportFormatJSON:
		download, err = h.service.ExportJSON(c.Request.Context(), boardID)
	case v1.ExportFormatXML:
		download, err = h.service.ExportXML(c.Request.Context(), boardID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format: %s", format)})
		return
	}
	if err != nil {
		h.respondError(c, err, "failed to export board")
		return
	}

	h.sendDownload(c, download)
}

// exportBPMN maps a board onto a BPMN diagram using the posted mapping
// configuration.
func (h *Handlers) exportBPMN(c *gin.Context) {
	boardID := c.Param("id")

	var req v1.BPMNExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload: statusPropertyId is required"})
		return
	}

	download, err := h.service.ExportBPMN(c.Request.Context(), boardID, req)
	if err != nil {
		h.respondError(c, err, "failed to export BPMN")
		return
	}

	h.sendDownload(c, download)
}

// exportAll returns the JSON archives of every board.
func (h *Handlers) exportAll(c *gin.Context) {
	downloads, err := h.service.ExportAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "failed to export boards")
		return
	}
	if downloads == nil {
		downloads = []*v1.Download{}
	}
	c.JSON(http.StatusOK, downloads)
}

func (h *Handlers) sendDownload(c *gin.Context, download *v1.Download) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Data(http.StatusOK, download.MIME, download.Data)
}

func (h *Handlers) respondError(c *gin.Context, err error, fallback string) {
	if appErr := errors.AsAppError(err); appErr != nil {
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return
	}
	h.logger.Error(fallback, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
