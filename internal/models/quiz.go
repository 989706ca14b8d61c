package models

import (
	"time"

	"gorm.io/datatypes"
)

// Quiz holds AI-generated quiz questions for a course.
type Quiz struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CourseID     uint           `gorm:"not null;index" json:"course_id"`
	Title        string         `gorm:"size:300;not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	Questions    datatypes.JSON `gorm:"type:json" json:"questions"`
	TimeLimit    int            `json:"time_limit"`
	PassingScore float64        `gorm:"default:70" json:"passing_score"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Course       Course         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// QuizAttempt records a student's answers and their deterministic score.
// The score is computed once when the attempt is created and never revised.
type QuizAttempt struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	QuizID      uint              `gorm:"not null;index" json:"quiz_id"`
	StudentID   uint              `gorm:"not null;index" json:"student_id"`
	Answers     datatypes.JSONMap `gorm:"type:json" json:"answers"`
	Score       float64           `json:"score"`
	StartedAt   time.Time         `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt *time.Time        `json:"completed_at"`
	Quiz        Quiz              `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student     Student           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
