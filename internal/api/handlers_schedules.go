package api

import (
	"net/http"
	"strings"

	"talento/internal/events"
	"talento/internal/models"
	"talento/internal/worker"
)

func (s *HTTPServer) handleSchedules(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		schedules, err := s.db.ListSchedules(r.Context())
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"schedules": schedules})

	case http.MethodPost:
		var sched models.NotificationSchedule
		if err := decodeJSON(r, &sched); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := validateSchedule(&sched); err != "" {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.db.CreateSchedule(r.Context(), &sched); err != nil {
			s.storeError(w, err)
			return
		}
		if err := s.scheduler.Install(&sched); err != nil {
			s.logger.Error().Err(err).Int64("schedule_id", sched.ID).Msg("install schedule")
		}
		s.publishScheduleChanged(sched.ID, "created")
		writeJSON(w, http.StatusCreated, sched)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleScheduleByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/v1/schedules/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		sched, err := s.db.GetSchedule(r.Context(), id)
		if err != nil {
			s.storeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sched)

	case action == "" && r.Method == http.MethodPut:
		var sched models.NotificationSchedule
		if err := decodeJSON(r, &sched); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		sched.ID = id
		if msg := validateSchedule(&sched); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if err := s.db.UpdateSchedule(r.Context(), &sched); err != nil {
			s.storeError(w, err)
			return
		}
		if err := s.scheduler.Reinstall(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Int64("schedule_id", id).Msg("reinstall schedule")
		}
		s.publishScheduleChanged(id, "updated")
		writeJSON(w, http.StatusOK, sched)

	case action == "" && r.Method == http.MethodDelete:
		if err := s.db.DeleteSchedule(r.Context(), id); err != nil {
			s.storeError(w, err)
			return
		}
		s.scheduler.Cancel(id)
		s.publishScheduleChanged(id, "deleted")
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) publishScheduleChanged(id int64, change string) {
	if s.eventBus == nil {
		return
	}
	payload := map[string]any{"schedule_id": id, "change": change}
	if err := s.eventBus.PublishJSON(events.EventScheduleChanged, payload); err != nil {
		s.logger.Warn().Err(err).Int64("schedule_id", id).Msg("publish schedule event")
	}
}

// validateSchedule returns an error message, empty when valid.
func validateSchedule(sched *models.NotificationSchedule) string {
	if !models.ValidScheduleType(sched.Type) {
		return "unknown schedule type"
	}
	if sched.Hour < 0 || sched.Hour > 23 {
		return "hour must be 0-23"
	}
	if sched.Minute < 0 || sched.Minute > 59 {
		return "minute must be 0-59"
	}
	if sched.DayOfMonth < 0 || sched.DayOfMonth > 31 {
		return "day_of_month must be 1-31"
	}
	if len(sched.Channels) == 0 {
		return "at least one channel is required"
	}
	return ""
}

func (s *HTTPServer) handleNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	recipient := strings.TrimSpace(r.URL.Query().Get("recipient"))
	if recipient == "" {
		writeError(w, http.StatusBadRequest, "recipient is required")
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := s.db.ListNotifications(r.Context(), recipient, unreadOnly)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications})
}

func (s *HTTPServer) handleNotificationByID(w http.ResponseWriter, r *http.Request) {
	id, action, err := pathID(r.URL.Path, "/api/v1/notifications/")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if action != "read" || r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if err := s.db.MarkNotificationRead(r.Context(), id); err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// handleNotificationSend queues an ad-hoc notification for the worker.
func (s *HTTPServer) handleNotificationSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var body struct {
		Channels []string                    `json:"channels"`
		Payload  *models.NotificationPayload `json:"payload"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Payload == nil || body.Payload.Title == "" {
		writeError(w, http.StatusBadRequest, "payload with title is required")
		return
	}
	if len(body.Channels) == 0 {
		writeError(w, http.StatusBadRequest, "at least one channel is required")
		return
	}

	task := worker.NotifyTask{Channels: body.Channels, Payload: body.Payload}
	if err := s.notifier.Enqueue(r.Context(), task); err != nil {
		s.logger.Error().Err(err).Msg("enqueue notification")
		writeError(w, http.StatusServiceUnavailable, "could not queue notification")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
