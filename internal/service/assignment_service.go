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

const defaultQuestionCount = 5

// questionTypes are assignment types that get questions auto-generated on
// creation.
var questionTypes = map[string]bool{
	"questions":       true,
	"short_answer":    true,
	"problem_solving": true,
}

// AssignmentService manages assignments and AI question generation.
type AssignmentService interface {
	Create(ctx context.Context, req dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	List(ctx context.Context, courseID *uint) ([]dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	GenerateQuestions(ctx context.Context, assignmentID uint, numQuestions int) (dto.GenerateQuestionsResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	generator   Generator
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewAssignmentService builds the assignment service.
func NewAssignmentService(
	assignments repository.AssignmentRepository,
	courses repository.CourseRepository,
	generator Generator,
	validate *validator.Validate,
	logger zerolog.Logger,
) AssignmentService {
	return &assignmentService{
		assignments: assignments,
		courses:     courses,
		generator:   generator,
		validate:    validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
	}
}

func (s *assignmentService) Create(ctx context.Context, req dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.AssignmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	rubric := req.Rubric

	// Question-style assignments get their answer key generated up front. A
	// generation failure is logged and the assignment is created without it.
	if questionTypes[req.AssignmentType] {
		questions, err := s.generateQuestions(ctx, req.Title, req.Description, defaultQuestionCount, req.AssignmentType)
		if err != nil {
			s.logger.Error().Err(err).Str("title", req.Title).
				Msg("question generation failed, creating assignment without questions")
		} else {
			rubric = answerSheetRubric(rubric, questions)
		}
	}

	assignment := models.Assignment{
		CourseID:       req.CourseID,
		Title:          req.Title,
		Description:    req.Description,
		AssignmentType: req.AssignmentType,
		MaxPoints:      req.MaxPoints,
		Rubric:         datatypes.JSONMap(rubric),
		DueDate:        req.DueDate,
	}
	if assignment.MaxPoints == 0 {
		assignment.MaxPoints = 100
	}
	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).
		Str("type", assignment.AssignmentType).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) List(ctx context.Context, courseID *uint) ([]dto.AssignmentResponse, error) {
	assignments, err := s.assignments.List(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewAssignmentResponseSlice(assignments), nil
}

func (s *assignmentService) GetByID(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

// GenerateQuestions regenerates the question set for an existing assignment
// and stores it in the rubric, switching the assignment to answer sheet
// grading.
func (s *assignmentService) GenerateQuestions(ctx context.Context, assignmentID uint, numQuestions int) (dto.GenerateQuestionsResponse, error) {
	if numQuestions <= 0 {
		numQuestions = defaultQuestionCount
	}

	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.GenerateQuestionsResponse{}, ErrAssignmentNotFound
		}
		return dto.GenerateQuestionsResponse{}, err
	}

	questions, err := s.generateQuestions(ctx, assignment.Title, assignment.Description, numQuestions, assignment.AssignmentType)
	if err != nil {
		return dto.GenerateQuestionsResponse{}, err
	}

	assignment.Rubric = answerSheetRubric(assignment.Rubric, questions)
	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.GenerateQuestionsResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignmentID).
		Int("questions", len(questions)).Msg("assignment questions generated")

	return dto.GenerateQuestionsResponse{
		AssignmentID: assignmentID,
		Questions:    questions,
	}, nil
}

func (s *assignmentService) generateQuestions(ctx context.Context, topic, description string, numQuestions int, questionType string) ([]ai.AssignmentQuestion, error) {
	prompt, system := ai.AssignmentQuestionsPrompt(topic, description, numQuestions, questionType)
	raw, err := s.generator.Generate(ctx, prompt, system)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}

	questions, extracted := ai.DecodeAssignmentQuestions(raw, topic, numQuestions)
	if !extracted {
		observability.ExtractionFallbacks().WithLabelValues("assignment_questions").Inc()
	}

	return questions, nil
}

// answerSheetRubric merges generated questions into an existing rubric. The
// questions round-trip through JSON so the stored shape matches what a
// database read would produce.
func answerSheetRubric(rubric map[string]interface{}, questions []ai.AssignmentQuestion) map[string]interface{} {
	merged := make(map[string]interface{}, len(rubric)+2)
	for key, value := range rubric {
		merged[key] = value
	}

	encoded, err := json.Marshal(questions)
	if err != nil {
		return merged
	}
	var raw []interface{}
	if err := json.Unmarshal(encoded, &raw); err != nil {
		return merged
	}

	merged["questions"] = raw
	merged["grading_type"] = models.GradingTypeAnswerSheet
	return merged
}
