package practice

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/studymitra/backend/internal/content"
	"github.com/studymitra/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// POST /student/questions
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	var req models.PracticeQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Code: "VALIDATION_ERROR"})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}
	if req.Limit > 50 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "limit must be at most 50", Code: "VALIDATION_ERROR"})
		return
	}
	if req.Difficulty != nil && !models.ValidDifficulties[*req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "difficulty must be easy, medium, or hard", Code: "VALIDATION_ERROR"})
		return
	}

	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Questions(userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /student/questions/random
func (h *Handler) RandomQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.RandomQuestion(userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /student/adaptive/next?count=
func (h *Handler) AdaptiveNext(w http.ResponseWriter, r *http.Request) {
	count := intQueryParam(r, "count", 5)
	if count < 1 || count > 20 {
		count = 5
	}

	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.AdaptiveNext(userID, count)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /student/attempts/track
func (h *Handler) TrackAttempt(w http.ResponseWriter, r *http.Request) {
	var req models.TrackAttemptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Code: "VALIDATION_ERROR"})
		return
	}
	if req.Question.ContentID == "" || req.Question.SubIndex < 0 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question reference is required", Code: "VALIDATION_ERROR"})
		return
	}
	if req.SelectedAnswer == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "selected_answer is required", Code: "VALIDATION_ERROR"})
		return
	}

	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.TrackAttempt(userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /student/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Stats(userID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoQuestions):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No questions match the given filters", Code: "NOT_FOUND"})
	case errors.Is(err, content.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found", Code: "NOT_FOUND"})
	default:
		log.Printf("[practice] internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

// getUserID pulls the authenticated user from the request context. A
// missing value means the route bypassed the auth middleware; respond
// 401 instead of panicking.
func getUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := r.Context().Value("user_id").(int64)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
	}
	return userID, ok
}

func intQueryParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
