package dto

import (
	"encoding/json"
	"time"

	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/pkg/ai"
)

// QuizGenerateRequest is the payload for AI quiz generation.
type QuizGenerateRequest struct {
	CourseID     uint   `json:"course_id" validate:"required,gt=0"`
	Topic        string `json:"topic" validate:"required,min=1,max=300"`
	NumQuestions int    `json:"num_questions" validate:"omitempty,gt=0,lte=50"`
	Difficulty   string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
}

// QuizAttemptCreateRequest is the payload for submitting a quiz attempt.
// Answers are keyed by question index as decimal strings.
type QuizAttemptCreateRequest struct {
	QuizID    uint              `json:"quiz_id" validate:"required,gt=0"`
	StudentID uint              `json:"student_id" validate:"required,gt=0"`
	Answers   map[string]string `json:"answers"`
}

// QuizResponse is returned to API clients when viewing quizzes.
type QuizResponse struct {
	ID           uint              `json:"id"`
	CourseID     uint              `json:"course_id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Questions    []ai.QuizQuestion `json:"questions"`
	TimeLimit    int               `json:"time_limit"`
	PassingScore float64           `json:"passing_score"`
	CreatedAt    time.Time         `json:"created_at"`
}

// QuizAttemptResponse is returned to API clients when viewing quiz attempts.
type QuizAttemptResponse struct {
	ID          uint              `json:"id"`
	QuizID      uint              `json:"quiz_id"`
	StudentID   uint              `json:"student_id"`
	Answers     map[string]string `json:"answers"`
	Score       float64           `json:"score"`
	StartedAt   time.Time         `json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at"`
}

// NewQuizResponse converts a Quiz model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	var questions []ai.QuizQuestion
	if len(model.Questions) > 0 {
		_ = json.Unmarshal(model.Questions, &questions)
	}
	if questions == nil {
		questions = []ai.QuizQuestion{}
	}

	return QuizResponse{
		ID:           model.ID,
		CourseID:     model.CourseID,
		Title:        model.Title,
		Description:  model.Description,
		Questions:    questions,
		TimeLimit:    model.TimeLimit,
		PassingScore: model.PassingScore,
		CreatedAt:    model.CreatedAt,
	}
}

// NewQuizResponseSlice converts quiz models into DTOs.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}

	return responses
}

// NewQuizAttemptResponse converts a QuizAttempt model into a DTO.
func NewQuizAttemptResponse(model models.QuizAttempt) QuizAttemptResponse {
	answers := make(map[string]string, len(model.Answers))
	for key, value := range model.Answers {
		if text, ok := value.(string); ok {
			answers[key] = text
		}
	}

	return QuizAttemptResponse{
		ID:          model.ID,
		QuizID:      model.QuizID,
		StudentID:   model.StudentID,
		Answers:     answers,
		Score:       model.Score,
		StartedAt:   model.StartedAt,
		CompletedAt: model.CompletedAt,
	}
}

// NewQuizAttemptResponseSlice converts quiz attempt models into DTOs.
func NewQuizAttemptResponseSlice(attempts []models.QuizAttempt) []QuizAttemptResponse {
	responses := make([]QuizAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		responses = append(responses, NewQuizAttemptResponse(attempt))
	}

	return responses
}
