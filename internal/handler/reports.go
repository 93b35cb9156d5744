package handler

import (
	"net/http"

	"smartstock/internal/apierror"
	"smartstock/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

func (h *ReportsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to build report summary"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportPDF enqueues an async PDF render; the file lands under the configured
// storage path. Returns 202 so clients do not block on rendering.
func (h *ReportsHandler) ExportPDF(c *gin.Context) {
	if err := h.svc.EnqueuePDF(c.Request.Context(), actorFrom(c)); err != nil {
		c.JSON(http.StatusServiceUnavailable, apierror.New("Failed to enqueue report export"))
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}
