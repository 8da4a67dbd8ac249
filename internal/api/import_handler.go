package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/event-roster-api/internal/config"
	"github.com/event-roster-api/internal/mapping"
	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/parser"
	"github.com/event-roster-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ImportHandler handles roster import endpoints
type ImportHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "import").Logger(),
	}
}

// ImportResponse is the body returned by a completed import call.
type ImportResponse struct {
	RunID string `json:"run_id,omitempty"`
	models.ImportResult
}

// CreateImport handles POST /v1/roster/imports
// Accepts a multipart CSV or XLSX upload plus an optional "mappings"
// form field (JSON array of explicit field mappings), runs the full
// pipeline and returns the structured result.
func (h *ImportHandler) CreateImport(c *gin.Context) {
	ctx := c.Request.Context()

	records, fileName, ok := h.readUpload(c)
	if !ok {
		return
	}

	start := time.Now()
	result := h.services.Import.ImportUsers(ctx, records)
	run := h.services.Run.RecordRun(ctx, fileName, models.RunSourceAPI, result, time.Since(start))

	h.log.Info().
		Str("run_id", run.ID).
		Str("file", fileName).
		Int("total", result.TotalRows).
		Int("successful", result.SuccessfulImports).
		Int("failed", result.FailedImports).
		Msg("Import request completed")

	c.JSON(http.StatusOK, ImportResponse{RunID: run.ID, ImportResult: *result})
}

// PreviewImport handles POST /v1/roster/imports/preview
// Runs parsing, mapping and validation without touching the store.
func (h *ImportHandler) PreviewImport(c *gin.Context) {
	records, _, ok := h.readUpload(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.services.Import.Preview(records))
}

// ListRuns handles GET /v1/roster/imports
func (h *ImportHandler) ListRuns(c *gin.Context) {
	ctx := c.Request.Context()

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := h.services.Run.ListRuns(ctx, limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list import runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list import runs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

// GetRun handles GET /v1/roster/imports/:run_id
func (h *ImportHandler) GetRun(c *gin.Context) {
	ctx := c.Request.Context()
	runID := c.Param("run_id")

	run, err := h.services.Run.GetRun(ctx, runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get run")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get import run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "import run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetRunErrors handles GET /v1/roster/imports/:run_id/errors
// Supports ?format=csv for a downloadable error report.
func (h *ImportHandler) GetRunErrors(c *gin.Context) {
	ctx := c.Request.Context()
	runID := c.Param("run_id")

	rowErrors, err := h.services.Run.GetRunErrors(ctx, runID)
	if err != nil {
		h.log.Error().Err(err).Str("run_id", runID).Msg("Failed to get run errors")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get errors"})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=errors_%s.csv", runID))
		writer := csv.NewWriter(c.Writer)
		writer.Write([]string{"row", "email", "error"})
		for _, e := range rowErrors {
			writer.Write([]string{strconv.Itoa(e.Row), e.Email, e.Message})
		}
		writer.Flush()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":      runID,
		"error_count": len(rowErrors),
		"errors":      rowErrors,
	})
}

// readUpload extracts the uploaded roster file and optional mappings and
// runs the parse and map stages. On failure it writes the error response
// and reports false.
func (h *ImportHandler) readUpload(c *gin.Context) ([]models.UserRecord, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return nil, "", false
	}
	defer file.Close()

	if header.Size > h.cfg.Import.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Import.MaxUploadSize/(1024*1024)),
		})
		return nil, "", false
	}

	mappings, err := parseMappingsField(c.PostForm("mappings"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}

	rawRecords, err := parseRosterFile(file, header)
	if err != nil {
		if errors.Is(err, parser.ErrInvalidFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			h.log.Error().Err(err).Str("file", header.Filename).Msg("Failed to parse upload")
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse uploaded file"})
		}
		return nil, "", false
	}

	return mapping.MapFields(rawRecords, mappings), header.Filename, true
}

// parseMappingsField decodes the optional "mappings" form field.
func parseMappingsField(raw string) ([]models.FieldMapping, error) {
	if raw == "" {
		return nil, nil
	}
	var mappings []models.FieldMapping
	if err := json.Unmarshal([]byte(raw), &mappings); err != nil {
		return nil, fmt.Errorf("invalid mappings field: %w", err)
	}
	if err := mapping.ValidateMappings(mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// parseRosterFile dispatches on the upload's extension: CSV is the
// primary format, XLSX is accepted for rosters exported from
// spreadsheet tools.
func parseRosterFile(file multipart.File, header *multipart.FileHeader) ([]models.RawRecord, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv", ".txt", "":
		return parser.Parse(string(data))
	case ".xlsx":
		return parser.ParseWorkbook(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(header.Filename))
	}
}
