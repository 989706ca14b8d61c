package dto

import (
	"time"

	"github.com/eduai-companion/go-api/internal/models"
)

// SubmissionCreateRequest is the payload for submitting assignment work.
type SubmissionCreateRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	StudentID    uint   `json:"student_id" validate:"required,gt=0"`
	Content      string `json:"content" validate:"required,min=1"`
}

// SubmissionFilter describes query string filters for listing submissions.
type SubmissionFilter struct {
	AssignmentID *uint   `query:"assignment_id"`
	StudentID    *uint   `query:"student_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=submitted grading graded grading_failed"`
}

// GradeSubmissionRequest manually triggers grading for a submission.
type GradeSubmissionRequest struct {
	SubmissionID uint `json:"submission_id" validate:"required,gt=0"`
}

// GradeSubmissionResponse is returned by the manual grading endpoint.
type GradeSubmissionResponse struct {
	SubmissionID uint                   `json:"submission_id"`
	Score        float64                `json:"score"`
	Feedback     string                 `json:"feedback"`
	RubricScores map[string]interface{} `json:"rubric_scores"`
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID           uint                   `json:"id"`
	AssignmentID uint                   `json:"assignment_id"`
	StudentID    uint                   `json:"student_id"`
	Content      string                 `json:"content"`
	Status       string                 `json:"status"`
	Score        *float64               `json:"score"`
	Feedback     string                 `json:"feedback"`
	RubricScores map[string]interface{} `json:"rubric_scores"`
	AIGraded     bool                   `json:"ai_graded"`
	GradedAt     *time.Time             `json:"graded_at"`
	SubmittedAt  time.Time              `json:"submitted_at"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Content:      model.Content,
		Status:       model.Status,
		Score:        model.Score,
		Feedback:     model.Feedback,
		RubricScores: model.RubricScores,
		AIGraded:     model.AIGraded,
		GradedAt:     model.GradedAt,
		SubmittedAt:  model.SubmittedAt,
	}
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
