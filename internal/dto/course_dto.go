package dto

import (
	"time"

	"github.com/eduai-companion/go-api/internal/models"
)

// CourseCreateRequest is the payload for creating a course.
type CourseCreateRequest struct {
	Name                string   `json:"name" validate:"required,min=1,max=200"`
	Description         string   `json:"description"`
	GradeLevel          string   `json:"grade_level" validate:"omitempty,max=20"`
	Subject             string   `json:"subject" validate:"omitempty,max=100"`
	CurriculumStandards []string `json:"curriculum_standards"`
}

// CourseResponse is returned to API clients when viewing courses.
type CourseResponse struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	GradeLevel          string    `json:"grade_level"`
	Subject             string    `json:"subject"`
	CurriculumStandards []string  `json:"curriculum_standards"`
	CreatedAt           time.Time `json:"created_at"`
}

// NewCourseResponse converts a Course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:                  model.ID,
		Name:                model.Name,
		Description:         model.Description,
		GradeLevel:          model.GradeLevel,
		Subject:             model.Subject,
		CurriculumStandards: model.CurriculumStandards,
		CreatedAt:           model.CreatedAt,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
