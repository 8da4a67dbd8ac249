package api

import (
	"net/http"

	"github.com/event-roster-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExportHandler handles roster export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/roster/export
// Streams the attendee roster in csv, json or ndjson format.
func (h *ExportHandler) StreamExport(c *gin.Context) {
	ctx := c.Request.Context()

	format := c.Query("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "json" && format != "ndjson" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, json, ndjson"})
		return
	}

	if err := h.services.Export.StreamAttendees(ctx, c.Writer, format); err != nil {
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
		// Headers may already be written; nothing more to send.
	}
}
