package models

import (
	"time"

	"gorm.io/datatypes"
)

// Course represents a subject taught to a group of students.
type Course struct {
	ID                  uint                        `gorm:"primaryKey" json:"id"`
	Name                string                      `gorm:"size:200;not null" json:"name"`
	Description         string                      `gorm:"type:text" json:"description"`
	GradeLevel          string                      `gorm:"size:20" json:"grade_level"`
	Subject             string                      `gorm:"size:100" json:"subject"`
	CurriculumStandards datatypes.JSONSlice[string] `gorm:"type:json" json:"curriculum_standards"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
}
