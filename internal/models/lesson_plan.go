package models

import (
	"time"

	"gorm.io/datatypes"
)

// LessonPlan stores an AI-generated lesson plan for a course.
type LessonPlan struct {
	ID               uint                        `gorm:"primaryKey" json:"id"`
	CourseID         uint                        `gorm:"not null;index" json:"course_id"`
	Title            string                      `gorm:"size:300;not null" json:"title"`
	Objectives       datatypes.JSONSlice[string] `gorm:"type:json" json:"objectives"`
	Content          string                      `gorm:"type:text" json:"content"`
	Activities       datatypes.JSON              `gorm:"type:json" json:"activities"`
	Materials        datatypes.JSONSlice[string] `gorm:"type:json" json:"materials"`
	Duration         int                         `json:"duration"`
	StandardsAligned datatypes.JSONSlice[string] `gorm:"type:json" json:"standards_aligned"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	Course           Course                      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
