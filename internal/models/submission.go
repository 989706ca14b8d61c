package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// SubmissionStatusSubmitted indicates the submission exists but grading has not started.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGrading indicates a grading attempt currently owns the record.
	SubmissionStatusGrading = "grading"
	// SubmissionStatusGraded indicates grading finished and results are persisted.
	SubmissionStatusGraded = "graded"
	// SubmissionStatusGradingFailed indicates the last grading attempt failed;
	// the submission remains visibly ungraded and can be re-enqueued.
	SubmissionStatusGradingFailed = "grading_failed"
)

// Submission is a student's submitted work for an assignment.
//
// Score, Feedback, RubricScores, and GradedAt are written together by the
// grading pipeline: GradedAt is set if and only if Score and Feedback are
// present. A failed grading attempt leaves all four absent.
type Submission struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssignmentID uint              `gorm:"not null;index" json:"assignment_id"`
	StudentID    uint              `gorm:"not null;index" json:"student_id"`
	Content      string            `gorm:"type:text;not null" json:"content"`
	Status       string            `gorm:"size:32;not null;default:submitted" json:"status"`
	Score        *float64          `json:"score"`
	Feedback     string            `gorm:"type:text" json:"feedback"`
	RubricScores datatypes.JSONMap `gorm:"type:json" json:"rubric_scores"`
	AIGraded     bool              `gorm:"default:true" json:"ai_graded"`
	GradedAt     *time.Time        `json:"graded_at"`
	SubmittedAt  time.Time         `gorm:"autoCreateTime" json:"submitted_at"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Assignment   Assignment        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Student      Student           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsGraded reports whether the submission carries a final grade.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded
}
