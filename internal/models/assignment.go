package models

import (
	"time"

	"gorm.io/datatypes"
)

// GradingTypeAnswerSheet marks a rubric whose questions are graded by parsing
// the student's answer sheet question-by-question.
const GradingTypeAnswerSheet = "answer_sheet"

// Assignment represents homework, an essay, or a question-based task.
type Assignment struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	CourseID       uint              `gorm:"not null;index" json:"course_id"`
	Title          string            `gorm:"size:300;not null" json:"title"`
	Description    string            `gorm:"type:text" json:"description"`
	AssignmentType string            `gorm:"size:50" json:"assignment_type"`
	MaxPoints      float64           `gorm:"default:100" json:"max_points"`
	Rubric         datatypes.JSONMap `gorm:"type:json" json:"rubric"`
	DueDate        *time.Time        `json:"due_date"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Course         Course            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// EffectiveMaxPoints returns the assignment score ceiling, defaulting to 100.
func (a Assignment) EffectiveMaxPoints() float64 {
	if a.MaxPoints <= 0 {
		return 100
	}
	return a.MaxPoints
}

// UsesAnswerSheetGrading reports whether the rubric carries generated questions
// that should be graded by answer-sheet parsing instead of the essay rubric.
func (a Assignment) UsesAnswerSheetGrading() bool {
	if a.Rubric == nil {
		return false
	}
	gradingType, _ := a.Rubric["grading_type"].(string)
	if gradingType != GradingTypeAnswerSheet {
		return false
	}
	questions, ok := a.Rubric["questions"].([]interface{})
	return ok && len(questions) > 0
}
