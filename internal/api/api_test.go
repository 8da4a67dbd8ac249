package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/event-roster-api/internal/config"
	"github.com/event-roster-api/internal/mocks"
	"github.com/event-roster-api/internal/models"
	"github.com/event-roster-api/internal/repository"
	"github.com/event-roster-api/internal/service"
)

func newTestRouter(attendees *mocks.MockAttendeeRepository, runs *mocks.MockImportRunRepository) *gin.Engine {
	repos := &repository.Repositories{Attendee: attendees, Run: runs}
	cfg := &config.Config{}
	cfg.Import.MaxUploadSize = 50 * 1024 * 1024
	cfg.Import.ErrorLimit = 100
	services := service.NewServices(repos, cfg, zerolog.Nop())
	return NewRouter(services, cfg, zerolog.Nop())
}

func multipartUpload(t *testing.T, fileName, contents string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(contents)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, w.FormDataContentType()
}

func TestCreateImport(t *testing.T) {
	t.Run("successful upload", func(t *testing.T) {
		attendees := mocks.NewMockAttendeeRepository()
		runs := mocks.NewMockImportRunRepository()
		router := newTestRouter(attendees, runs)

		csv := "first_name,last_name,email,phone_number\nJohn,Doe,john@example.com,555-1234\n"
		body, contentType := multipartUpload(t, "roster.csv", csv, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}

		var resp ImportResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if !resp.Success || resp.SuccessfulImports != 1 {
			t.Errorf("response = %+v", resp)
		}
		if resp.RunID == "" {
			t.Error("run_id missing from response")
		}
		if _, ok := runs.Runs[resp.RunID]; !ok {
			t.Error("run not recorded")
		}
		if len(attendees.Attendees) != 1 {
			t.Errorf("store holds %d attendees", len(attendees.Attendees))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		router := newTestRouter(mocks.NewMockAttendeeRepository(), mocks.NewMockImportRunRepository())
		req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", strings.NewReader(""))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("header-only file", func(t *testing.T) {
		router := newTestRouter(mocks.NewMockAttendeeRepository(), mocks.NewMockImportRunRepository())
		body, contentType := multipartUpload(t, "roster.csv", "first_name,email\n", nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		router := newTestRouter(mocks.NewMockAttendeeRepository(), mocks.NewMockImportRunRepository())
		body, contentType := multipartUpload(t, "roster.pdf", "x", nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("explicit mappings field", func(t *testing.T) {
		attendees := mocks.NewMockAttendeeRepository()
		router := newTestRouter(attendees, mocks.NewMockImportRunRepository())

		csv := "Work Email,Contact,Given,Surname\njohn@example.com,555-1234,John,Doe\n"
		mappings := `[
			{"source":"Work Email","target":"email"},
			{"source":"Contact","target":"phone_number"},
			{"source":"Given","target":"first_name"},
			{"source":"Surname","target":"last_name"}
		]`
		body, contentType := multipartUpload(t, "roster.csv", csv, map[string]string{"mappings": mappings})
		req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		a, ok := attendees.Attendees["john@example.com"]
		if !ok {
			t.Fatal("attendee not imported via explicit mappings")
		}
		if a.FirstName != "John" || a.LastName != "Doe" {
			t.Errorf("attendee = %+v", a)
		}
	})

	t.Run("invalid mappings field", func(t *testing.T) {
		router := newTestRouter(mocks.NewMockAttendeeRepository(), mocks.NewMockImportRunRepository())
		body, contentType := multipartUpload(t, "roster.csv", "a,b\n1,2\n", map[string]string{"mappings": "not json"})
		req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestPreviewImport(t *testing.T) {
	attendees := mocks.NewMockAttendeeRepository()
	router := newTestRouter(attendees, mocks.NewMockImportRunRepository())

	csv := "first_name,last_name,email,phone_number\nJohn,Doe,john@example.com,555-1234\nJane,Smith,,\n"
	body, contentType := multipartUpload(t, "roster.csv", csv, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports/preview", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var preview models.PreviewResult
	if err := json.Unmarshal(rec.Body.Bytes(), &preview); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if preview.TotalRows != 2 || preview.ValidCount != 1 || preview.ErrorCount != 1 {
		t.Errorf("preview = %+v", preview)
	}
	if len(attendees.Attendees) != 0 {
		t.Error("preview must not persist anything")
	}
}

func TestRunEndpoints(t *testing.T) {
	attendees := mocks.NewMockAttendeeRepository()
	runs := mocks.NewMockImportRunRepository()
	router := newTestRouter(attendees, runs)

	// Seed one run via an import with a failing row.
	csv := "first_name,last_name,email,phone_number\nJohn,Doe,john@example.com,555-1234\nJane,Smith,,\n"
	body, contentType := multipartUpload(t, "roster.csv", csv, nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/roster/imports", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("seed import failed: %d", rec.Code)
	}
	var created ImportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	t.Run("list runs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/imports", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp struct {
			Count int                `json:"count"`
			Runs  []models.ImportRun `json:"runs"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Count != 1 || len(resp.Runs) != 1 {
			t.Errorf("resp = %+v", resp)
		}
	})

	t.Run("get run", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/imports/"+created.RunID, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var resp models.RunResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.TotalRows != 2 || resp.SuccessfulImports != 1 || resp.FailedImports != 1 {
			t.Errorf("run = %+v", resp.ImportRun)
		}
		if len(resp.Errors) != 1 {
			t.Errorf("inline errors = %d", len(resp.Errors))
		}
	})

	t.Run("get run not found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/imports/missing", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})

	t.Run("errors as csv", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/imports/"+created.RunID+"/errors?format=csv", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
			t.Errorf("content type = %q", got)
		}
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("csv lines = %v", lines)
		}
		if !strings.HasPrefix(lines[0], "row,email,error") {
			t.Errorf("header = %q", lines[0])
		}
		if !strings.Contains(lines[1], "Email is required") {
			t.Errorf("error row = %q", lines[1])
		}
	})
}

func TestExportEndpoint(t *testing.T) {
	attendees := mocks.NewMockAttendeeRepository()
	attendees.Attendees["a@example.com"] = &models.Attendee{
		ID: "1", Name: "A User", FirstName: "A", LastName: "User",
		Email: "a@example.com", Status: models.AttendeeStatusActive,
	}
	router := newTestRouter(attendees, mocks.NewMockImportRunRepository())

	t.Run("csv default", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/export", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "a@example.com") {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("ndjson", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/export?format=ndjson", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var a models.Attendee
		if err := json.Unmarshal([]byte(strings.TrimSpace(rec.Body.String())), &a); err != nil {
			t.Fatalf("decode ndjson line: %v", err)
		}
		if a.Email != "a@example.com" {
			t.Errorf("attendee = %+v", a)
		}
	})

	t.Run("bad format", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/roster/export?format=xml", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(mocks.NewMockAttendeeRepository(), mocks.NewMockImportRunRepository())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "healthy") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
