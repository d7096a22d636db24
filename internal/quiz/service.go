package quiz

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/studymitra/backend/internal/content"
	"github.com/studymitra/backend/internal/models"
)

// CoinCreditor queues a coin credit against a user's wallet. Credits
// are applied out of band; a queue failure never fails the caller.
type CoinCreditor interface {
	Enqueue(userID int64, amount int, reason string)
}

type Service struct {
	store   *Store
	content *content.Store
	coins   CoinCreditor
}

func NewService(store *Store, contentStore *content.Store, coins CoinCreditor) *Service {
	return &Service{store: store, content: contentStore, coins: coins}
}

// ── Lifecycle ───────────────────────────────────────────

func (s *Service) Start(userID int64, req models.QuizStartRequest) (*models.QuizStartResponse, error) {
	filters := content.Filters{ChapterID: req.ChapterID, Topic: req.Topic}
	if req.Difficulty != nil {
		ct := models.MCQContentType(*req.Difficulty)
		filters.ContentType = &ct
	}

	items, err := s.content.ListContent(filters)
	if err != nil {
		return nil, err
	}
	pool := content.Flatten(items)

	if req.ExcludeAttempted {
		attempted, err := s.store.AttemptedRefs(userID)
		if err != nil {
			return nil, err
		}
		pool = content.ExcludeAttempted(pool, attempted)
	}

	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	selected := content.Sample(pool, req.QuestionCount)
	refs := make([]models.QuestionRef, len(selected))
	for i, rq := range selected {
		refs[i] = rq.Ref
	}

	session := &models.QuizSession{
		ID:                uuid.NewString(),
		UserID:            userID,
		QuizType:          req.QuizType,
		QuestionRefs:      refs,
		CurrentIndex:      0,
		Answers:           []models.AnswerRecord{},
		Status:            models.QuizInProgress,
		CurrentDifficulty: InitialDifficulty(req.QuizType, req.Difficulty),
		TimeLimitMinutes:  ComputeTimeLimit(req.QuizType, req.TimePerQuestion, len(refs)),
	}
	if err := s.store.CreateSession(session); err != nil {
		return nil, err
	}

	canSkip, canGoBack := NavFlags(req.QuizType)
	return &models.QuizStartResponse{
		SessionID:        session.ID,
		Question:         selected[0].Question.Serve(selected[0].Ref),
		QuestionNumber:   1,
		TotalQuestions:   len(refs),
		TimeLimitMinutes: session.TimeLimitMinutes,
		CanSkip:          canSkip,
		CanGoBack:        canGoBack,
	}, nil
}

func (s *Service) Next(userID int64, sessionID string) (*models.QuizNextResponse, error) {
	session, err := s.store.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.QuizInProgress {
		return nil, ErrQuizCompleted
	}

	// Adaptive sessions retune their tier from the rolling window;
	// persistence failures only cost the tier change, not the response.
	if session.QuizType == models.QuizTypeAdaptive {
		next := NextDifficulty(session.CurrentDifficulty, session.Answers)
		if next != session.CurrentDifficulty {
			session.CurrentDifficulty = next
			if err := s.store.UpdateDifficulty(session.ID, userID, next); err != nil {
				log.Printf("[quiz] WARN: failed to persist difficulty for session %s: %v", session.ID, err)
			}
		}
	}

	if session.CurrentIndex >= session.TotalQuestions() {
		return &models.QuizNextResponse{
			Completed:         true,
			TotalQuestions:    session.TotalQuestions(),
			CurrentDifficulty: session.CurrentDifficulty,
			Message:           "No more questions. Submit the quiz to see results.",
		}, nil
	}

	ref := session.QuestionRefs[session.CurrentIndex]
	q, err := s.content.GetQuestion(ref)
	if err != nil {
		return nil, fmt.Errorf("resolve question %s/%d: %w", ref.ContentID, ref.SubIndex, err)
	}

	served := q.Serve(ref)
	return &models.QuizNextResponse{
		Question:          &served,
		QuestionNumber:    session.CurrentIndex + 1,
		TotalQuestions:    session.TotalQuestions(),
		CurrentDifficulty: session.CurrentDifficulty,
	}, nil
}

func (s *Service) Answer(userID int64, sessionID string, req models.QuizAnswerRequest) (*models.QuizAnswerResponse, error) {
	session, err := s.store.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.QuizInProgress {
		return nil, ErrQuizCompleted
	}

	q, err := s.content.GetQuestion(req.Question)
	if err != nil {
		return nil, err
	}

	// Correctness is derived here, never trusted from the client
	isCorrect := req.SelectedAnswer == q.CorrectAnswer

	record := models.AnswerRecord{
		Ref:              req.Question,
		SelectedAnswer:   req.SelectedAnswer,
		IsCorrect:        isCorrect,
		TimeSpentSeconds: req.TimeSpentSeconds,
		AnsweredAt:       time.Now(),
	}
	applyAnswer(session, record)

	if err := s.store.SaveProgress(session); err != nil {
		return nil, err
	}

	// Ledger write is idempotent under retries; the session already
	// holds the answer, so a ledger failure is logged and swallowed.
	if err := s.store.UpsertAttempt(userID, req.Question, &session.ID, isCorrect, req.TimeSpentSeconds); err != nil {
		log.Printf("[quiz] WARN: attempt ledger write failed for session %s: %v", session.ID, err)
	}

	resp := &models.QuizAnswerResponse{
		Correct: isCorrect,
		HasNext: session.CurrentIndex < session.TotalQuestions(),
	}
	if !isCorrect && req.ShowExplanation {
		resp.CorrectAnswer = q.CorrectAnswer
		resp.Explanation = q.Explanation
	}
	return resp, nil
}

func (s *Service) Submit(userID int64, sessionID string) (*models.QuizResultResponse, error) {
	session, err := s.store.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.QuizCompleted {
		return nil, ErrQuizCompleted
	}

	now := time.Now()
	cache := newContentCache(s.content)
	score := ComputeResults(session.Answers, session.TotalQuestions(),
		session.StartedAt, now, session.QuizType, cache.difficulty)

	if err := s.store.Complete(session.ID, userID, now, score); err != nil {
		return nil, err
	}

	if score.CoinsEarned > 0 {
		s.coins.Enqueue(userID, score.CoinsEarned, "quiz:"+session.ID)
	}

	return &models.QuizResultResponse{
		SessionID:        session.ID,
		QuizType:         session.QuizType,
		TotalQuestions:   session.TotalQuestions(),
		CorrectAnswers:   score.CorrectAnswers,
		Accuracy:         Round2(score.Accuracy),
		TimeSpentMinutes: Round2(score.TimeSpentMinutes),
		CoinsEarned:      score.CoinsEarned,
		PerformanceLevel: score.PerformanceLevel,
		Analysis:         score.Analysis,
	}, nil
}

func (s *Service) Results(userID int64, sessionID string) (*models.QuizReviewResponse, error) {
	session, err := s.store.GetSession(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.QuizCompleted || session.CompletedAt == nil {
		return nil, ErrQuizNotCompleted
	}

	cache := newContentCache(s.content)
	score := ComputeResults(session.Answers, session.TotalQuestions(),
		session.StartedAt, *session.CompletedAt, session.QuizType, cache.difficulty)

	review := make([]models.QuizReviewItem, 0, len(session.Answers))
	for _, a := range session.Answers {
		item := models.QuizReviewItem{
			Ref:              a.Ref,
			SelectedAnswer:   a.SelectedAnswer,
			Correct:          a.IsCorrect,
			TimeSpentSeconds: a.TimeSpentSeconds,
		}
		q, err := cache.question(a.Ref)
		if err != nil {
			log.Printf("[quiz] WARN: review question %s/%d missing: %v", a.Ref.ContentID, a.Ref.SubIndex, err)
		} else {
			item.QuestionText = q.QuestionText
			item.Options = q.Options
			item.CorrectAnswer = q.CorrectAnswer
			item.Explanation = q.Explanation
		}
		review = append(review, item)
	}

	return &models.QuizReviewResponse{
		SessionID: session.ID,
		Result: models.QuizResultResponse{
			SessionID:        session.ID,
			QuizType:         session.QuizType,
			TotalQuestions:   session.TotalQuestions(),
			CorrectAnswers:   session.CorrectAnswers,
			Accuracy:         Round2(session.Accuracy),
			TimeSpentMinutes: Round2(session.TimeSpentMinutes),
			CoinsEarned:      session.CoinsEarned,
			PerformanceLevel: PerformanceLevel(session.Accuracy),
			Analysis:         score.Analysis,
		},
		Questions: review,
	}, nil
}

// ── History & Stats ─────────────────────────────────────

func (s *Service) History(userID int64, quizType *models.QuizType, limit int) (*models.QuizHistoryResponse, error) {
	entries, err := s.store.ListCompleted(userID, quizType, limit)
	if err != nil {
		return nil, err
	}
	return &models.QuizHistoryResponse{Sessions: entries, Total: len(entries)}, nil
}

func (s *Service) Stats(userID int64) (*models.QuizStatsResponse, error) {
	return s.store.Stats(userID)
}

// ── Content Cache ───────────────────────────────────────

// contentCache memoizes content items so scoring a session loads each
// item once instead of once per answer.
type contentCache struct {
	store *content.Store
	items map[string]*models.ContentItem
}

func newContentCache(store *content.Store) *contentCache {
	return &contentCache{store: store, items: make(map[string]*models.ContentItem)}
}

func (c *contentCache) question(ref models.QuestionRef) (*models.Question, error) {
	item, ok := c.items[ref.ContentID]
	if !ok {
		loaded, err := c.store.GetContentItem(ref.ContentID)
		if err != nil {
			if errors.Is(err, content.ErrContentNotFound) {
				return nil, content.ErrQuestionNotFound
			}
			return nil, err
		}
		c.items[ref.ContentID] = loaded
		item = loaded
	}
	if ref.SubIndex < 0 || ref.SubIndex >= len(item.Questions) {
		return nil, content.ErrQuestionNotFound
	}
	q := item.Questions[ref.SubIndex]
	return &q, nil
}

// difficulty resolves an answered question's tier, defaulting to
// medium when the question is missing or carries an unknown tier.
func (c *contentCache) difficulty(ref models.QuestionRef) models.Difficulty {
	q, err := c.question(ref)
	if err != nil || !models.ValidDifficulties[q.Difficulty] {
		return models.DifficultyMedium
	}
	return q.Difficulty
}
