package templates

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/services/grading"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/handlers"
)

// Handler serves lesson templates and graded submissions
type Handler struct {
	gradingService grading.IGradingService
	logger         primary.Logger
}

// NewHandler creates a new template handler
func NewHandler(gradingService grading.IGradingService, logger primary.Logger) *Handler {
	return &Handler{
		gradingService: gradingService,
		logger:         logger,
	}
}

// RegisterRoutes registers the template and report routes on the /api subrouter
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/templates", h.ListTemplates).Methods("GET")
	router.HandleFunc("/templates/{templateId}", h.GetTemplate).Methods("GET")
	router.HandleFunc("/templates/{templateId}/grade", h.Grade).Methods("POST")
	router.HandleFunc("/reports", h.ListReports).Methods("GET")
	router.HandleFunc("/reports/{reportId}", h.GetReport).Methods("GET")
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := h.gradingService.ListTemplates(r.Context())
	if err != nil {
		h.logger.Error("Failed to list templates", "error", err)
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.CodeTemplate{"templates": list})
}

func (h *Handler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.gradingService.GetTemplate(r.Context(), mux.Vars(r)["templateId"])
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, tmpl)
}

// GradeRequest represents a submission against a template
type GradeRequest struct {
	Code string `json:"code"`
}

// Grade runs the submitted code against the template's test cases
func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user := handlers.AuthFromContext(r.Context()).Subject()
	submission := domain.NewSubmission(user, req.Code, mux.Vars(r)["templateId"])

	report, err := h.gradingService.Grade(r.Context(), submission)
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, report)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportIDStr := mux.Vars(r)["reportId"]
	reportID, err := uuid.Parse(reportIDStr)
	if err != nil {
		h.logger.Error("Invalid report ID", "id", reportIDStr)
		handlers.ResponseError(w, "Invalid report ID", http.StatusBadRequest)
		return
	}

	report, err := h.gradingService.GetReport(r.Context(), reportID)
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, report)
}

// ListReports returns the caller's recent reports; ?limit= caps the count
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			handlers.ResponseError(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	user := handlers.AuthFromContext(r.Context()).Subject()
	reports, err := h.gradingService.ListReports(r.Context(), user, limit)
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.GradeReport{"reports": reports})
}
