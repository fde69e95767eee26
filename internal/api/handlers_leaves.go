package api

import (
	"net/http"
	"strings"

	"talento/internal/events"
	"talento/internal/models"
)

func (s *HTTPServer) handleLeaves(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		employeeID := int64(queryInt(r, "employee_id"))
		status := strings.TrimSpace(r.URL.Query().Get("status"))
		leaves, err := s.db.ListLeaves(r.Context(), employeeID, status)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"leaves": leaves})

	case http.MethodPost:
		var l models.Leave
		if err := decodeJSON(r, &l); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if l.EmployeeID == 0 || l.StartDate == "" || l.EndDate == "" {
			writeError(w, http.StatusBadRequest, "employee_id, start_date and end_date are required")
			return
		}
		if err := s.db.CreateLeave(r.Context(), &l); err != nil {
			s.storeError(w, err)
			return
		}
		s.publishLeaveEvent(events.EventLeaveRequested, &l)
		writeJSON(w, http.StatusCreated, l)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleLeaveByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/v1/leaves/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case action == "status" && r.Method == http.MethodPut:
		var body struct {
			Status string `json:"status"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if body.Status != models.LeaveApproved && body.Status != models.LeaveRejected {
			writeError(w, http.StatusBadRequest, "status must be approved or rejected")
			return
		}
		if err := s.db.UpdateLeaveStatus(r.Context(), id, body.Status); err != nil {
			s.storeError(w, err)
			return
		}
		leave, err := s.db.GetLeave(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		s.publishLeaveEvent(events.EventLeaveResolved, leave)
		writeJSON(w, http.StatusOK, leave)

	case action == "" && r.Method == http.MethodGet:
		leave, err := s.db.GetLeave(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, leave)

	case action == "" && r.Method == http.MethodDelete:
		if err := s.db.DeleteLeave(r.Context(), id); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) publishLeaveEvent(eventType string, leave *models.Leave) {
	if s.eventBus == nil {
		return
	}
	payload := events.LeaveEventPayload{
		LeaveID:    leave.ID,
		EmployeeID: leave.EmployeeID,
		Type:       leave.Type,
		StartDate:  leave.StartDate,
		EndDate:    leave.EndDate,
		Status:     leave.Status,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Int64("leave_id", leave.ID).Msg("publish leave event")
	}
}

func (s *HTTPServer) handleDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var d models.Document
	if err := decodeJSON(r, &d); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if d.EmployeeID == 0 || d.Name == "" || d.Path == "" {
		writeError(w, http.StatusBadRequest, "employee_id, name and path are required")
		return
	}
	if err := s.db.CreateDocument(r.Context(), &d); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *HTTPServer) handleDocumentByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/v1/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := s.db.GetDocument(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, doc)

	case http.MethodDelete:
		if err := s.db.DeleteDocument(r.Context(), id); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBenefits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var b models.Benefit
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if b.EmployeeID == 0 || b.Name == "" {
		writeError(w, http.StatusBadRequest, "employee_id and name are required")
		return
	}
	if err := s.benefits.Save(r.Context(), &b); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *HTTPServer) handleBenefitByID(w http.ResponseWriter, r *http.Request) {
	id, _, err := pathID(r.URL.Path, "/api/v1/benefits/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.benefits.Delete(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
