package content

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/studymitra/backend/internal/generator"
	"github.com/studymitra/backend/internal/models"
)

type Handler struct {
	store *Store
	gen   *generator.Generator
}

func NewHandler(store *Store, gen *generator.Generator) *Handler {
	return &Handler{store: store, gen: gen}
}

// GET /student/chapters
func (h *Handler) ListChapters(w http.ResponseWriter, r *http.Request) {
	chapters, err := h.store.ListChapters()
	if err != nil {
		log.Printf("[content] list chapters failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load chapters"})
		return
	}
	writeJSON(w, http.StatusOK, models.ChapterListResponse{Chapters: chapters, Total: len(chapters)})
}

// GET /student/chapters/{chapterID}/topics
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	chapterID, err := strconv.ParseInt(mux.Vars(r)["chapterID"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid chapter id", Code: "VALIDATION_ERROR"})
		return
	}

	topics, err := h.store.ListTopics(chapterID)
	if err != nil {
		log.Printf("[content] list topics failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load topics"})
		return
	}
	writeJSON(w, http.StatusOK, models.TopicListResponse{Topics: topics, Total: len(topics)})
}

// GET /content/{contentID}
func (h *Handler) GetContent(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["contentID"]

	item, err := h.store.GetContentItem(id)
	if errors.Is(err, ErrContentNotFound) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Content not found", Code: "NOT_FOUND"})
		return
	}
	if err != nil {
		log.Printf("[content] get content %s failed: %v", id, err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load content"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// POST /content/generate
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	if req.Topic == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Topic is required", Code: "VALIDATION_ERROR"})
		return
	}
	if !models.ValidDifficulties[req.Difficulty] {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Difficulty must be easy, medium, or hard", Code: "VALIDATION_ERROR"})
		return
	}
	if req.Count < 1 || req.Count > 20 {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Count must be between 1 and 20", Code: "VALIDATION_ERROR"})
		return
	}

	batch, llmResp, err := h.gen.GenerateMCQBatch(r.Context(), req.Topic, req.Difficulty, req.Count)
	if err != nil {
		log.Printf("[content] generation failed for topic %q: %v", req.Topic, err)
		writeJSON(w, http.StatusBadGateway, models.ErrorResponse{Error: "Question generation failed"})
		return
	}
	if llmResp != nil {
		log.Printf("[content] generated %d questions for %q (prompt=%d output=%d tokens)",
			len(batch.Questions), req.Topic, llmResp.PromptTokens, llmResp.OutputTokens)
	}

	item := &models.ContentItem{
		ID:          uuid.NewString(),
		ChapterID:   req.ChapterID,
		Topic:       req.Topic,
		ContentType: models.MCQContentType(req.Difficulty),
		Questions:   batch.ToQuestions(req.Difficulty),
		ModelUsed:   h.gen.ModelName(),
	}
	if err := h.store.InsertContentItem(item); err != nil {
		log.Printf("[content] insert content failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to store content"})
		return
	}

	writeJSON(w, http.StatusCreated, models.GenerateContentResponse{
		ContentID:     item.ID,
		ContentType:   item.ContentType,
		QuestionCount: len(item.Questions),
		ModelUsed:     item.ModelUsed,
		Message:       "Content generated",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
