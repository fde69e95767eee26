package api

import (
	"net/http"
	"strings"

	"talento/internal/events"
	"talento/internal/importer"
	"talento/internal/models"
)

func (s *HTTPServer) handleEmployees(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		employees, err := s.db.ListEmployees(r.Context(), status)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"employees": employees})

	case http.MethodPost:
		var e models.Employee
		if err := decodeJSON(r, &e); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		e.Cedula = importer.NormalizeCedula(e.Cedula)
		if e.Cedula == "" {
			writeError(w, http.StatusBadRequest, "cedula is required")
			return
		}
		if e.FirstName == "" && e.LastName == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if e.Status == "" {
			e.Status = models.StatusActive
		}
		if err := s.db.CreateEmployee(r.Context(), &e); err != nil {
			s.storeError(w, err)
			return
		}
		s.publishEmployeeEvent(events.EventEmployeeCreated, &e)
		writeJSON(w, http.StatusCreated, e)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleEmployeeByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/v1/employees/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if action != "" {
		s.handleEmployeeSubresource(w, r, id, action)
		return
	}

	switch r.Method {
	case http.MethodGet:
		employee, err := s.db.GetEmployee(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, employee)

	case http.MethodPut:
		var e models.Employee
		if err := decodeJSON(r, &e); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		e.ID = id
		e.Cedula = importer.NormalizeCedula(e.Cedula)
		if err := s.db.UpdateEmployee(r.Context(), &e); err != nil {
			s.storeError(w, err)
			return
		}
		s.publishEmployeeEvent(events.EventEmployeeUpdated, &e)
		writeJSON(w, http.StatusOK, e)

	case http.MethodDelete:
		if err := s.db.DeleteEmployee(r.Context(), id); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) publishEmployeeEvent(eventType string, e *models.Employee) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, e); err != nil {
		s.logger.Warn().Err(err).Int64("employee_id", e.ID).Msg("publish employee event")
	}
}

func (s *HTTPServer) handleEmployeeSubresource(w http.ResponseWriter, r *http.Request, id int64, action string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	switch action {
	case "payroll":
		lines, err := s.db.ListPayrollByEmployee(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"payroll": lines})

	case "attendance":
		from := strings.TrimSpace(r.URL.Query().Get("from"))
		to := strings.TrimSpace(r.URL.Query().Get("to"))
		lines, err := s.db.ListAttendanceByEmployee(r.Context(), id, from, to)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"attendance": lines})

	case "documents":
		docs, err := s.db.ListDocuments(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"documents": docs})

	case "benefits":
		benefits, err := s.benefits.ListByEmployee(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"benefits": benefits})

	case "leaves":
		leaves, err := s.db.ListLeaves(r.Context(), id, "")
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leaves": leaves})

	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}
