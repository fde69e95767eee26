package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"talento/internal/config"
	"talento/internal/database"
	"talento/internal/domain"
	"talento/internal/export"
	"talento/internal/importer"
	"talento/internal/metrics"
	"talento/internal/scheduler"
	"talento/internal/worker"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the HR REST API consumed by the SPA.
type HTTPServer struct {
	cfg       config.APIConfig
	db        *database.DB
	importer  *importer.Importer
	cache     domain.ImportResultCache
	benefits  domain.BenefitRepository
	scheduler *scheduler.Scheduler
	exporter  *export.Exporter
	notifier  *worker.NotifyWorker
	eventBus  domain.EventPublisher
	server    *http.Server
	auth      *HTTPAuth
	logger    *zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	db *database.DB,
	imp *importer.Importer,
	cache domain.ImportResultCache,
	benefits domain.BenefitRepository,
	sched *scheduler.Scheduler,
	exporter *export.Exporter,
	notifier *worker.NotifyWorker,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:       cfg,
		db:        db,
		importer:  imp,
		cache:     cache,
		benefits:  benefits,
		scheduler: sched,
		exporter:  exporter,
		notifier:  notifier,
		eventBus:  eventBus,
		logger:    logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/api/v1/employees", srv.handleEmployees)
	mux.HandleFunc("/api/v1/employees/", srv.handleEmployeeByID)
	mux.HandleFunc("/api/v1/departments", srv.handleDepartments)
	mux.HandleFunc("/api/v1/departments/", srv.handleDepartmentByID)
	mux.HandleFunc("/api/v1/positions", srv.handlePositions)
	mux.HandleFunc("/api/v1/positions/", srv.handlePositionByID)
	mux.HandleFunc("/api/v1/payroll", srv.handlePayroll)
	mux.HandleFunc("/api/v1/payroll/summary", srv.handlePayrollSummary)
	mux.HandleFunc("/api/v1/attendance", srv.handleAttendance)
	mux.HandleFunc("/api/v1/import/", srv.handleImport)
	mux.HandleFunc("/api/v1/export/payroll", srv.handleExportPayroll)
	mux.HandleFunc("/api/v1/export/employees", srv.handleExportEmployees)
	mux.HandleFunc("/api/v1/leaves", srv.handleLeaves)
	mux.HandleFunc("/api/v1/leaves/", srv.handleLeaveByID)
	mux.HandleFunc("/api/v1/documents", srv.handleDocuments)
	mux.HandleFunc("/api/v1/documents/", srv.handleDocumentByID)
	mux.HandleFunc("/api/v1/benefits", srv.handleBenefits)
	mux.HandleFunc("/api/v1/benefits/", srv.handleBenefitByID)
	mux.HandleFunc("/api/v1/schedules", srv.handleSchedules)
	mux.HandleFunc("/api/v1/schedules/", srv.handleScheduleByID)
	mux.HandleFunc("/api/v1/notifications", srv.handleNotifications)
	mux.HandleFunc("/api/v1/notifications/", srv.handleNotificationByID)
	mux.HandleFunc("/api/v1/notifications/send", srv.handleNotificationSend)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// storeError maps database sentinel errors onto HTTP statuses.
func (s *HTTPServer) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound), errors.Is(err, database.ErrEmployeeNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, database.ErrDuplicateCedula):
		writeError(w, http.StatusConflict, "cedula already registered")
	default:
		s.logger.Error().Err(err).Msg("store error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses "/prefix/{id}" and "/prefix/{id}/{action}".
func pathID(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	idPart, action, _ := strings.Cut(rest, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id")
	}
	return id, action, nil
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	return v
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
