package dto

import (
	"time"

	"github.com/eduai-companion/go-api/internal/models"
)

// StudentCreateRequest is the payload for registering a student.
type StudentCreateRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"required,min=1,max=100"`
	Email      string `json:"email" validate:"required,email"`
	GradeLevel string `json:"grade_level" validate:"omitempty,max=20"`
	StudentID  string `json:"student_id" validate:"omitempty,max=50"`
}

// StudentUpdateRequest is the payload for updating student details.
type StudentUpdateRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName   *string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Email      *string `json:"email" validate:"omitempty,email"`
	GradeLevel *string `json:"grade_level" validate:"omitempty,max=20"`
}

// StudentResponse is returned to API clients when viewing students.
type StudentResponse struct {
	ID         uint      `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	GradeLevel string    `json:"grade_level"`
	StudentID  string    `json:"student_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewStudentResponse converts a Student model into a DTO.
func NewStudentResponse(model models.Student) StudentResponse {
	return StudentResponse{
		ID:         model.ID,
		FirstName:  model.FirstName,
		LastName:   model.LastName,
		Email:      model.Email,
		GradeLevel: model.GradeLevel,
		StudentID:  model.StudentID,
		CreatedAt:  model.CreatedAt,
	}
}

// NewStudentResponseSlice converts student models into DTOs.
func NewStudentResponseSlice(students []models.Student) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}
