package service

import (
	"strconv"
	"strings"

	"github.com/eduai-companion/go-api/pkg/ai"
)

// ScoreAttempt grades a set of answers against the quiz answer key and returns
// the score as a percentage of attainable points.
//
// Answers are keyed by the zero-based question index rendered as a string.
// Multiple choice and true/false answers must match the key exactly after
// trimming and lowercasing. Every other question type earns full credit when
// the trimmed, lowercased answer is non-empty and appears anywhere inside the
// correct answer.
func ScoreAttempt(questions []ai.QuizQuestion, answers map[string]string) float64 {
	var earned, total float64

	for i, question := range questions {
		points := question.Points
		if points == 0 {
			points = 1.0
		}
		total += points

		answer, ok := answers[strconv.Itoa(i)]
		if !ok {
			continue
		}

		given := strings.ToLower(strings.TrimSpace(answer))
		correct := strings.ToLower(strings.TrimSpace(question.CorrectAnswer))

		switch question.QuestionType {
		case "multiple_choice", "true_false":
			if given == correct {
				earned += points
			}
		default:
			if given != "" && strings.Contains(correct, given) {
				earned += points
			}
		}
	}

	if total == 0 {
		return 0
	}

	return earned / total * 100
}
