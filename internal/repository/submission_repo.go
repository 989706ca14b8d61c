package repository

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	AssignmentID *uint
	StudentID    *uint
	Status       *string
}

// GradeUpdate carries the full grading result written in a single update.
// Score, Feedback, RubricScores, and GradedAt land together so a reader can
// never observe a partially graded submission.
type GradeUpdate struct {
	Score        float64
	Feedback     string
	RubricScores map[string]interface{}
	GradedAt     time.Time
}

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	Create(ctx context.Context, submission *models.Submission) error
	// TryMarkGrading atomically transitions the submission into grading.
	// It reports false when the record is missing or another grading attempt
	// already owns it. Re-grading an already graded submission is allowed and
	// overwrites the prior result.
	TryMarkGrading(ctx context.Context, id uint) (bool, error)
	// SaveGrade persists the grading result and moves the submission to graded.
	SaveGrade(ctx context.Context, id uint, grade GradeUpdate) error
	// MarkGradingFailed releases the record after a failed attempt, leaving
	// score, feedback, rubric scores, and graded_at absent.
	MarkGradingFailed(ctx context.Context, id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.db.WithContext(ctx).Model(&models.Submission{})

	if filter.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filter.AssignmentID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Order("created_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) TryMarkGrading(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Where("status <> ?", models.SubmissionStatusGrading).
		Update("status", models.SubmissionStatusGrading)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *submissionRepository) SaveGrade(ctx context.Context, id uint, grade GradeUpdate) error {
	updates := map[string]interface{}{
		"status":        models.SubmissionStatusGraded,
		"score":         grade.Score,
		"feedback":      grade.Feedback,
		"rubric_scores": datatypes.JSONMap(grade.RubricScores),
		"ai_graded":     true,
		"graded_at":     grade.GradedAt,
	}

	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *submissionRepository) MarkGradingFailed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", models.SubmissionStatusGradingFailed).Error
}
