package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/observability"
	"github.com/eduai-companion/go-api/internal/repository"
	"github.com/eduai-companion/go-api/pkg/ai"
)

// LessonPlanService manages AI lesson plan generation and retrieval.
type LessonPlanService interface {
	Generate(ctx context.Context, req dto.LessonPlanGenerateRequest) (dto.LessonPlanResponse, error)
	List(ctx context.Context, courseID *uint) ([]dto.LessonPlanResponse, error)
	GetByID(ctx context.Context, id uint) (dto.LessonPlanResponse, error)
	Delete(ctx context.Context, id uint) error
}

type lessonPlanService struct {
	plans     repository.LessonPlanRepository
	courses   repository.CourseRepository
	generator Generator
	validate  *validator.Validate
	logger    zerolog.Logger
}

// NewLessonPlanService builds the lesson plan service.
func NewLessonPlanService(
	plans repository.LessonPlanRepository,
	courses repository.CourseRepository,
	generator Generator,
	validate *validator.Validate,
	logger zerolog.Logger,
) LessonPlanService {
	return &lessonPlanService{
		plans:     plans,
		courses:   courses,
		generator: generator,
		validate:  validate,
		logger:    logger.With().Str("component", "lesson_plan_service").Logger(),
	}
}

func (s *lessonPlanService) Generate(ctx context.Context, req dto.LessonPlanGenerateRequest) (dto.LessonPlanResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.LessonPlanResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonPlanResponse{}, ErrCourseNotFound
		}
		return dto.LessonPlanResponse{}, err
	}

	prompt, system := ai.LessonPlanPrompt(req.Topic, req.GradeLevel, req.Duration, req.LearningObjectives)
	raw, err := s.generator.Generate(ctx, prompt, system)
	if err != nil {
		return dto.LessonPlanResponse{}, fmt.Errorf("generate lesson plan: %w", err)
	}

	plan, extracted := ai.DecodeLessonPlan(raw, req.Topic, req.LearningObjectives)
	if !extracted {
		observability.ExtractionFallbacks().WithLabelValues("lesson_plan").Inc()
	}

	activities, err := json.Marshal(plan.Activities)
	if err != nil {
		return dto.LessonPlanResponse{}, fmt.Errorf("encode activities: %w", err)
	}

	record := models.LessonPlan{
		CourseID:         req.CourseID,
		Title:            plan.Title,
		Objectives:       datatypes.NewJSONSlice(plan.Objectives),
		Content:          plan.Content,
		Activities:       datatypes.JSON(activities),
		Materials:        datatypes.NewJSONSlice(plan.Materials),
		Duration:         req.Duration,
		StandardsAligned: datatypes.NewJSONSlice(plan.StandardsAligned),
	}
	if err := s.plans.Create(ctx, &record); err != nil {
		return dto.LessonPlanResponse{}, err
	}

	s.logger.Info().Uint("lesson_plan_id", record.ID).Str("topic", req.Topic).
		Msg("lesson plan generated")

	return dto.NewLessonPlanResponse(record), nil
}

func (s *lessonPlanService) List(ctx context.Context, courseID *uint) ([]dto.LessonPlanResponse, error) {
	plans, err := s.plans.List(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewLessonPlanResponseSlice(plans), nil
}

func (s *lessonPlanService) GetByID(ctx context.Context, id uint) (dto.LessonPlanResponse, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LessonPlanResponse{}, ErrLessonPlanNotFound
		}
		return dto.LessonPlanResponse{}, err
	}

	return dto.NewLessonPlanResponse(plan), nil
}

func (s *lessonPlanService) Delete(ctx context.Context, id uint) error {
	if err := s.plans.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonPlanNotFound
		}
		return err
	}

	return nil
}
