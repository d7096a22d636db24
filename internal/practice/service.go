package practice

import (
	"errors"
	"math"

	"github.com/studymitra/backend/internal/content"
	"github.com/studymitra/backend/internal/models"
)

var ErrNoQuestions = errors.New("no questions match the given filters")

type Service struct {
	store   *Store
	content *content.Store
}

func NewService(store *Store, contentStore *content.Store) *Service {
	return &Service{store: store, content: contentStore}
}

// Questions returns a batch of practice questions matching the request
// filters, optionally excluding everything the user has already seen.
func (s *Service) Questions(userID int64, req models.PracticeQuestionsRequest) (*models.PracticeQuestionsResponse, error) {
	filters := content.Filters{
		ContentType: req.ContentType,
		ChapterID:   req.ChapterID,
		Topic:       req.Topic,
	}
	if filters.ContentType == nil && req.Difficulty != nil {
		ct := models.MCQContentType(*req.Difficulty)
		filters.ContentType = &ct
	}

	pool, err := s.pool(userID, filters, req.ExcludeAttempted)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	picked := content.Sample(pool, req.Limit)
	questions := make([]models.ServedQuestion, len(picked))
	for i, rq := range picked {
		questions[i] = rq.Question.Serve(rq.Ref)
	}
	return &models.PracticeQuestionsResponse{Questions: questions, Total: len(questions)}, nil
}

// RandomQuestion serves one unseen question from the whole pool.
func (s *Service) RandomQuestion(userID int64) (*models.ServedQuestion, error) {
	pool, err := s.pool(userID, content.Filters{}, true)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrNoQuestions
	}

	rq := content.Sample(pool, 1)[0]
	served := rq.Question.Serve(rq.Ref)
	return &served, nil
}

// AdaptiveNext suggests a difficulty from the user's recent record and
// serves unseen questions at that tier.
func (s *Service) AdaptiveNext(userID int64, count int) (*models.AdaptiveNextResponse, error) {
	attempts, err := s.store.RecentAttempts(userID, practiceWindow)
	if err != nil {
		return nil, err
	}
	results := make([]bool, len(attempts))
	for i, a := range attempts {
		results[i] = a.IsCorrect
	}
	suggested, accuracy := SuggestDifficulty(results)

	ct := models.MCQContentType(suggested)
	pool, err := s.pool(userID, content.Filters{ContentType: &ct}, true)
	if err != nil {
		return nil, err
	}

	picked := content.Sample(pool, count)
	questions := make([]models.ServedQuestion, len(picked))
	for i, rq := range picked {
		questions[i] = rq.Question.Serve(rq.Ref)
	}

	return &models.AdaptiveNextResponse{
		SuggestedDifficulty: suggested,
		RecentAccuracy:      math.Round(accuracy*100) / 100,
		AttemptsConsidered:  len(results),
		Questions:           questions,
	}, nil
}

// TrackAttempt grades a practice answer against the stored question and
// records it in the attempt ledger.
func (s *Service) TrackAttempt(userID int64, req models.TrackAttemptRequest) (*models.TrackAttemptResponse, error) {
	question, err := s.content.GetQuestion(req.Question)
	if err != nil {
		return nil, err
	}

	correct := req.SelectedAnswer == question.CorrectAnswer
	if err := s.store.UpsertAttempt(userID, req.Question, correct, req.TimeTakenSeconds); err != nil {
		return nil, err
	}

	resp := &models.TrackAttemptResponse{
		Correct:       correct,
		CorrectAnswer: question.CorrectAnswer,
	}
	if !correct {
		resp.Explanation = question.Explanation
	}
	return resp, nil
}

func (s *Service) Stats(userID int64) (*models.StudentStatsResponse, error) {
	return s.store.Stats(userID)
}

func (s *Service) pool(userID int64, filters content.Filters, excludeAttempted bool) ([]content.RefQuestion, error) {
	items, err := s.content.ListContent(filters)
	if err != nil {
		return nil, err
	}
	pool := content.Flatten(items)
	if excludeAttempted {
		seen, err := s.store.AttemptedRefs(userID)
		if err != nil {
			return nil, err
		}
		pool = content.ExcludeAttempted(pool, seen)
	}
	return pool, nil
}
