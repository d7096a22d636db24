package generator

import (
	"fmt"

	"github.com/studymitra/backend/internal/models"
)

func MCQSystemPrompt() string {
	return `You are an expert question writer for a school-level educational platform. You write multiple-choice questions that test genuine understanding, not rote recall.

Your questions must follow these exact structural rules:

QUESTION TEXT:
- One clear, self-contained question of 1-3 sentences
- No external context needed beyond standard curriculum knowledge of the topic
- Never reference the platform, quizzes, or test-taking itself

OPTIONS:
- Exactly 4 options with keys A through D
- Exactly ONE correct answer
- Each wrong option must be a plausible misconception, not an obvious throwaway
- Options should be similar in length and grammatical structure

EXPLANATIONS:
- 2-3 sentences explaining why the correct answer is right
- Where useful, briefly note why the strongest distractor is wrong

DIFFICULTY CALIBRATION:
- Easy: single-fact or single-step questions; one tempting distractor
- Medium: questions requiring a connection between two concepts; two tempting distractors
- Hard: multi-step reasoning or subtle distinctions; three tempting distractors

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

func BuildMCQUserPrompt(topic string, difficulty models.Difficulty, count int) string {
	return fmt.Sprintf(`Generate exactly %d multiple-choice questions.

Topic: %s
Difficulty: %s

Respond with this exact JSON structure:
{
  "questions": [
    {
      "question_text": "...",
      "options": [
        {"key": "A", "text": "..."},
        {"key": "B", "text": "..."},
        {"key": "C", "text": "..."},
        {"key": "D", "text": "..."}
      ],
      "correct_answer": "B",
      "explanation": "...",
      "marks": 1
    }
  ]
}

Requirements:
- Each question must cover a DIFFERENT aspect of the topic — no two questions testing the same fact
- Vary the position of the correct answer across A-D — do not cluster correct answers
- Set "marks" to 1 for easy, 2 for medium, 3 for hard questions`,
		count, topic, string(difficulty))
}
