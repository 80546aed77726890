package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	exportapp "github.com/hubzone/backend/internal/application/export"
)

// ExportHandler streams designation data downloads.
type ExportHandler struct {
	BaseHandler
	exportService *exportapp.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *exportapp.ExportService) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
	}
}

// Export renders the filtered designation data as a file download.
// GET /map/export?format=geojson|csv&state=..&county=..&zone_type=..&status=..
func (h *ExportHandler) Export(c *gin.Context) {
	req := exportapp.ExportRequest{
		Format:    c.DefaultQuery("format", "geojson"),
		State:     c.Query("state"),
		County:    c.Query("county"),
		ZoneTypes: c.QueryArray("zone_type"),
		Statuses:  c.QueryArray("status"),
	}

	doc, err := h.exportService.Export(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Content-Length", strconv.Itoa(len(doc.Data)))
	c.Header("X-Record-Count", strconv.Itoa(doc.RecordCount))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
