package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/models"
)

// LessonPlanRepository defines data operations for lesson plans.
type LessonPlanRepository interface {
	List(ctx context.Context, courseID *uint) ([]models.LessonPlan, error)
	GetByID(ctx context.Context, id uint) (models.LessonPlan, error)
	Create(ctx context.Context, plan *models.LessonPlan) error
	Delete(ctx context.Context, id uint) error
}

type lessonPlanRepository struct {
	db *gorm.DB
}

// NewLessonPlanRepository instantiates the repository.
func NewLessonPlanRepository(db *gorm.DB) LessonPlanRepository {
	return &lessonPlanRepository{db: db}
}

func (r *lessonPlanRepository) List(ctx context.Context, courseID *uint) ([]models.LessonPlan, error) {
	query := r.db.WithContext(ctx).Model(&models.LessonPlan{})
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}

	var plans []models.LessonPlan
	if err := query.Order("created_at DESC").Find(&plans).Error; err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *lessonPlanRepository) GetByID(ctx context.Context, id uint) (models.LessonPlan, error) {
	var plan models.LessonPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return models.LessonPlan{}, err
	}

	return plan, nil
}

func (r *lessonPlanRepository) Create(ctx context.Context, plan *models.LessonPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *lessonPlanRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.LessonPlan{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
