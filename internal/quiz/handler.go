package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/studymitra/backend/internal/content"
	"github.com/studymitra/backend/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// POST /quiz/start
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req models.QuizStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	if !models.ValidQuizTypes[req.QuizType] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "quiz_type must be mcq, adaptive, timed, or mock_exam", Code: "VALIDATION_ERROR"})
		return
	}
	if req.QuestionCount < 5 || req.QuestionCount > 100 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "question_count must be between 5 and 100", Code: "VALIDATION_ERROR"})
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
	resp, err := h.service.Start(userID, req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// GET /quiz/{sessionID}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Next(userID, mux.Vars(r)["sessionID"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /quiz/{sessionID}/answer
func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	var req models.QuizAnswerRequest
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
	resp, err := h.service.Answer(userID, mux.Vars(r)["sessionID"], req)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /quiz/{sessionID}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Submit(userID, mux.Vars(r)["sessionID"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /quiz/{sessionID}/results
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.Results(userID, mux.Vars(r)["sessionID"])
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /quiz/history?type=&limit=
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	var quizType *models.QuizType
	if t := r.URL.Query().Get("type"); t != "" {
		qt := models.QuizType(t)
		if !models.ValidQuizTypes[qt] {
			writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "invalid quiz type filter", Code: "VALIDATION_ERROR"})
			return
		}
		quizType = &qt
	}
	limit := intQueryParam(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	userID, ok := getUserID(w, r)
	if !ok {
		return
	}
	resp, err := h.service.History(userID, quizType, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /quiz/stats
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
	case errors.Is(err, ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Quiz session not found", Code: "NOT_FOUND"})
	case errors.Is(err, ErrNoQuestions):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "No questions match the given filters", Code: "NOT_FOUND"})
	case errors.Is(err, content.ErrQuestionNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found", Code: "NOT_FOUND"})
	case errors.Is(err, ErrQuizCompleted):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Quiz already completed", Code: "INVALID_STATE"})
	case errors.Is(err, ErrQuizNotCompleted):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Quiz has not been submitted yet", Code: "INVALID_STATE"})
	default:
		log.Printf("[quiz] internal error: %v", err)
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
