package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"hatrean-quiz-service/internal/app"
)

// APIHandler serves the read-only catalog endpoints backing the browse
// screens: categories, joinable sessions, and the leaderboard.
type APIHandler struct {
	service *app.QuizService
	log     *logrus.Entry
}

func NewAPIHandler(service *app.QuizService) *APIHandler {
	return &APIHandler{
		service: service,
		log:     logrus.WithField("component", "api"),
	}
}

// Register mounts the endpoints on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/categories", h.Categories)
	mux.HandleFunc("/sessions/active", h.ActiveSessions)
	mux.HandleFunc("/leaderboard", h.Leaderboard)
}

func (h *APIHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.Categories(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, categories)
}

func (h *APIHandler) ActiveSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.service.ActiveSessions(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	// Answer keys stay server-side.
	for i := range sessions {
		sessions[i].QuestionIDs = nil
	}
	h.respond(w, sessions)
}

func (h *APIHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.respond(w, entries)
}

func (h *APIHandler) respond(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if payload == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.WithError(err).Warn("response encode failed")
	}
}

func (h *APIHandler) fail(w http.ResponseWriter, err error) {
	h.log.WithError(err).Warn("store read failed")
	http.Error(w, "store unavailable", http.StatusServiceUnavailable)
}
