package api

import (
	"net/http"

	"talento/internal/models"
)

func (s *HTTPServer) handleDepartments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		departments, err := s.db.ListDepartments(r.Context())
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"departments": departments})

	case http.MethodPost:
		var d models.Department
		if err := decodeJSON(r, &d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if d.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.db.CreateDepartment(r.Context(), &d); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleDepartmentByID(w http.ResponseWriter, r *http.Request) {
	id, _, err := pathID(r.URL.Path, "/api/v1/departments/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var d models.Department
		if err := decodeJSON(r, &d); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		d.ID = id
		if err := s.db.UpdateDepartment(r.Context(), &d); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)

	case http.MethodDelete:
		if err := s.db.DeleteDepartment(r.Context(), id); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handlePositions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		positions, err := s.db.ListPositions(r.Context())
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"positions": positions})

	case http.MethodPost:
		var p models.Position
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if p.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}
		if err := s.db.CreatePosition(r.Context(), &p); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handlePositionByID(w http.ResponseWriter, r *http.Request) {
	id, _, err := pathID(r.URL.Path, "/api/v1/positions/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch r.Method {
	case http.MethodPut:
		var p models.Position
		if err := decodeJSON(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		p.ID = id
		if err := s.db.UpdatePosition(r.Context(), &p); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)

	case http.MethodDelete:
		if err := s.db.DeletePosition(r.Context(), id); err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
