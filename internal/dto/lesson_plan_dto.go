package dto

import (
	"encoding/json"
	"time"

	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/pkg/ai"
)

// LessonPlanGenerateRequest is the payload for AI lesson plan generation.
type LessonPlanGenerateRequest struct {
	CourseID           uint     `json:"course_id" validate:"required,gt=0"`
	Topic              string   `json:"topic" validate:"required,min=1,max=300"`
	GradeLevel         string   `json:"grade_level" validate:"required,max=20"`
	Duration           int      `json:"duration" validate:"required,gt=0"`
	LearningObjectives []string `json:"learning_objectives"`
}

// LessonPlanResponse is returned to API clients when viewing lesson plans.
type LessonPlanResponse struct {
	ID               uint          `json:"id"`
	CourseID         uint          `json:"course_id"`
	Title            string        `json:"title"`
	Objectives       []string      `json:"objectives"`
	Content          string        `json:"content"`
	Activities       []ai.Activity `json:"activities"`
	Materials        []string      `json:"materials"`
	Duration         int           `json:"duration"`
	StandardsAligned []string      `json:"standards_aligned"`
	CreatedAt        time.Time     `json:"created_at"`
}

// NewLessonPlanResponse converts a LessonPlan model into a DTO.
func NewLessonPlanResponse(model models.LessonPlan) LessonPlanResponse {
	var activities []ai.Activity
	if len(model.Activities) > 0 {
		_ = json.Unmarshal(model.Activities, &activities)
	}
	if activities == nil {
		activities = []ai.Activity{}
	}

	return LessonPlanResponse{
		ID:               model.ID,
		CourseID:         model.CourseID,
		Title:            model.Title,
		Objectives:       model.Objectives,
		Content:          model.Content,
		Activities:       activities,
		Materials:        model.Materials,
		Duration:         model.Duration,
		StandardsAligned: model.StandardsAligned,
		CreatedAt:        model.CreatedAt,
	}
}

// NewLessonPlanResponseSlice converts lesson plan models into DTOs.
func NewLessonPlanResponseSlice(plans []models.LessonPlan) []LessonPlanResponse {
	responses := make([]LessonPlanResponse, 0, len(plans))
	for _, plan := range plans {
		responses = append(responses, NewLessonPlanResponse(plan))
	}

	return responses
}
