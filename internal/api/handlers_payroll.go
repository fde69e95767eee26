package api

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"talento/internal/importer"
	"talento/internal/models"
)

const maxImportBytes = 20 << 20 // 20 MiB upload cap

func (s *HTTPServer) handlePayroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := queryInt(r, "year"), queryInt(r, "month")
	if year == 0 || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	lines, err := s.db.ListPayrollPeriod(r.Context(), year, month)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"payroll": lines})
}

func (s *HTTPServer) handlePayrollSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := queryInt(r, "year"), queryInt(r, "month")
	if year == 0 || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	summary, err := s.db.GetPayrollSummary(r.Context(), year, month)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *HTTPServer) handleAttendance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	lines, err := s.db.ListAttendanceByDate(r.Context(), date)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attendance": lines})
}

// handleImport serves POST /api/v1/import/{kind} (file upload) and
// GET /api/v1/import/{kind}/last (the cached report of the previous run).
func (s *HTTPServer) handleImport(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/import/")
	kind, action, _ := strings.Cut(rest, "/")
	if !models.ValidImportKind(kind) {
		writeError(w, http.StatusBadRequest, "unknown import kind")
		return
	}

	if action == "last" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		result, err := s.cache.GetLastResult(r.Context(), kind)
		if err != nil {
			s.logger.Error().Err(err).Str("kind", kind).Msg("read cached import result")
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if result == nil {
			writeError(w, http.StatusNotFound, "no import has run for this kind")
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	if action != "" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	data, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.importer.ProcessFile(r.Context(), data, kind)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrNoDataRows), errors.Is(err, importer.ErrUnknownKind):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusBadRequest, "unreadable file: "+err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readUpload accepts either a multipart form with a "file" field or the raw
// request body.
func readUpload(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			return nil, errors.New("invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, errors.New("file field is required")
		}
		defer file.Close()
		return io.ReadAll(io.LimitReader(file, maxImportBytes))
	}

	return io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
}

func (s *HTTPServer) handleExportPayroll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year, month := queryInt(r, "year"), queryInt(r, "month")
	if year == 0 || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "year and month are required")
		return
	}

	path, err := s.exporter.ExportPayrollPeriod(r.Context(), year, month)
	if err != nil {
		s.logger.Error().Err(err).Msg("payroll export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}

func (s *HTTPServer) handleExportEmployees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := strings.TrimSpace(r.URL.Query().Get("status"))
	path, err := s.exporter.ExportEmployees(r.Context(), status)
	if err != nil {
		s.logger.Error().Err(err).Msg("employee export failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"file": path})
}
