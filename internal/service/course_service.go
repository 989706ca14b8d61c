package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/repository"
)

// CourseService manages course records.
type CourseService interface {
	Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error)
	List(ctx context.Context) ([]dto.CourseResponse, error)
	GetByID(ctx context.Context, id uint) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint) error
}

type courseService struct {
	courses  repository.CourseRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewCourseService builds the course service.
func NewCourseService(courses repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:  courses,
		validate: validate,
		logger:   logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) Create(ctx context.Context, req dto.CourseCreateRequest) (dto.CourseResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Name:                req.Name,
		Description:         req.Description,
		GradeLevel:          req.GradeLevel,
		Subject:             req.Subject,
		CurriculumStandards: datatypes.NewJSONSlice(req.CurriculumStandards),
	}
	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.logger.Info().Uint("course_id", course.ID).Msg("course created")
	return dto.NewCourseResponse(course), nil
}

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (dto.CourseResponse, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.courses.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return nil
}
