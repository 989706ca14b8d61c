package dto

import (
	"time"

	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/pkg/ai"
)

// AssignmentCreateRequest is the payload for creating an assignment.
// Question-style assignment types get questions auto-generated into the rubric.
type AssignmentCreateRequest struct {
	CourseID       uint                   `json:"course_id" validate:"required,gt=0"`
	Title          string                 `json:"title" validate:"required,min=1,max=300"`
	Description    string                 `json:"description"`
	AssignmentType string                 `json:"assignment_type" validate:"omitempty,oneof=essay questions short_answer problem_solving project"`
	MaxPoints      float64                `json:"max_points" validate:"omitempty,gt=0"`
	Rubric         map[string]interface{} `json:"rubric"`
	DueDate        *time.Time             `json:"due_date"`
}

// GenerateQuestionsRequest asks for AI question generation on an existing assignment.
type GenerateQuestionsRequest struct {
	NumQuestions int `json:"num_questions" validate:"omitempty,gt=0,lte=50"`
}

// GenerateQuestionsResponse returns the generated question set.
type GenerateQuestionsResponse struct {
	AssignmentID uint                    `json:"assignment_id"`
	Questions    []ai.AssignmentQuestion `json:"questions"`
}

// AssignmentResponse is returned to API clients when viewing assignments.
type AssignmentResponse struct {
	ID             uint                   `json:"id"`
	CourseID       uint                   `json:"course_id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	AssignmentType string                 `json:"assignment_type"`
	MaxPoints      float64                `json:"max_points"`
	Rubric         map[string]interface{} `json:"rubric"`
	DueDate        *time.Time             `json:"due_date"`
	CreatedAt      time.Time              `json:"created_at"`
}

// NewAssignmentResponse converts an Assignment model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:             model.ID,
		CourseID:       model.CourseID,
		Title:          model.Title,
		Description:    model.Description,
		AssignmentType: model.AssignmentType,
		MaxPoints:      model.MaxPoints,
		Rubric:         model.Rubric,
		DueDate:        model.DueDate,
		CreatedAt:      model.CreatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}
