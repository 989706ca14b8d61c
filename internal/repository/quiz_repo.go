package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/models"
)

// QuizRepository defines data operations for quizzes and quiz attempts.
type QuizRepository interface {
	List(ctx context.Context, courseID *uint) ([]models.Quiz, error)
	GetByID(ctx context.Context, id uint) (models.Quiz, error)
	Create(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	ListAttemptsByStudent(ctx context.Context, studentID uint) ([]models.QuizAttempt, error)
	ListAttemptsByQuiz(ctx context.Context, quizID uint) ([]models.QuizAttempt, error)
}

type quizRepository struct {
	db *gorm.DB
}

// NewQuizRepository instantiates the repository.
func NewQuizRepository(db *gorm.DB) QuizRepository {
	return &quizRepository{db: db}
}

func (r *quizRepository) List(ctx context.Context, courseID *uint) ([]models.Quiz, error) {
	query := r.db.WithContext(ctx).Model(&models.Quiz{})
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}

	var quizzes []models.Quiz
	if err := query.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	return quizzes, nil
}

func (r *quizRepository) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	if err := r.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		return models.Quiz{}, err
	}

	return quiz, nil
}

func (r *quizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.WithContext(ctx).Create(quiz).Error
}

func (r *quizRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *quizRepository) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}

func (r *quizRepository) ListAttemptsByStudent(ctx context.Context, studentID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("started_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}

func (r *quizRepository) ListAttemptsByQuiz(ctx context.Context, quizID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("started_at DESC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}

	return attempts, nil
}
