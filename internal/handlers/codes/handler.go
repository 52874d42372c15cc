package codes

import (
	"net/http"

	"github.com/gorilla/mux"

	"gitlab.com/learnhub.net/internal/core/ports/primary"
	"gitlab.com/learnhub.net/internal/core/services/codestore"
	"gitlab.com/learnhub.net/internal/domain"
	"gitlab.com/learnhub.net/internal/handlers"
)

// Handler serves the caller's saved code
type Handler struct {
	codeService codestore.ICodeStoreService
	logger      primary.Logger
}

// NewHandler creates a new saved-code handler
func NewHandler(codeService codestore.ICodeStoreService, logger primary.Logger) *Handler {
	return &Handler{
		codeService: codeService,
		logger:      logger,
	}
}

// RegisterRoutes registers the saved-code routes on the /api subrouter
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/codes", h.List).Methods("GET")
	router.HandleFunc("/codes/{codeId}", h.Get).Methods("GET")
	router.HandleFunc("/codes/{codeId}", h.Put).Methods("PUT")
	router.HandleFunc("/codes/{codeId}", h.Delete).Methods("DELETE")
}

// SaveCodeRequest represents a snippet to store
type SaveCodeRequest struct {
	LessonID string          `json:"lessonId"`
	Filename string          `json:"filename"`
	Language domain.Language `json:"language"`
	Content  string          `json:"content"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	owner := handlers.AuthFromContext(r.Context()).Subject()
	list, err := h.codeService.List(r.Context(), owner)
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, map[string][]*domain.SavedCode{"codes": list})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	owner := handlers.AuthFromContext(r.Context()).Subject()
	code, err := h.codeService.Load(r.Context(), owner, mux.Vars(r)["codeId"])
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, code)
}

func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	var req SaveCodeRequest
	if err := handlers.DecodeJSON(w, r, &req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		handlers.ResponseError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	owner := handlers.AuthFromContext(r.Context()).Subject()
	saved, err := h.codeService.Save(r.Context(), owner, &domain.SavedCode{
		ID:       mux.Vars(r)["codeId"],
		LessonID: req.LessonID,
		Filename: req.Filename,
		Language: req.Language,
		Content:  req.Content,
	})
	if err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	handlers.ResponseWithJson(w, http.StatusOK, saved)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	owner := handlers.AuthFromContext(r.Context()).Subject()
	if err := h.codeService.Delete(r.Context(), owner, mux.Vars(r)["codeId"]); err != nil {
		handlers.ResponseServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
