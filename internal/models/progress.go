package models

import (
	"time"

	"gorm.io/datatypes"
)

// StudentProgress is a recorded analytics data point for a student.
type StudentProgress struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	StudentID   uint              `gorm:"not null;index" json:"student_id"`
	MetricName  string            `gorm:"size:100" json:"metric_name"`
	MetricValue float64           `json:"metric_value"`
	Period      string            `gorm:"size:50" json:"period"`
	RecordedAt  time.Time         `gorm:"autoCreateTime" json:"recorded_at"`
	ExtraData   datatypes.JSONMap `gorm:"type:json" json:"extra_data"`
	Student     Student           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}
