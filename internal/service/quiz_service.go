package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

// QuizService manages AI quiz generation and deterministic attempt grading.
type QuizService interface {
	Generate(ctx context.Context, req dto.QuizGenerateRequest) (dto.QuizResponse, error)
	List(ctx context.Context, courseID *uint) ([]dto.QuizResponse, error)
	GetByID(ctx context.Context, id uint) (dto.QuizResponse, error)
	Delete(ctx context.Context, id uint) error
	SubmitAttempt(ctx context.Context, req dto.QuizAttemptCreateRequest) (dto.QuizAttemptResponse, error)
	ListAttemptsByStudent(ctx context.Context, studentID uint) ([]dto.QuizAttemptResponse, error)
	ListAttemptsByQuiz(ctx context.Context, quizID uint) ([]dto.QuizAttemptResponse, error)
}

type quizService struct {
	quizzes   repository.QuizRepository
	courses   repository.CourseRepository
	students  repository.StudentRepository
	generator Generator
	validate  *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewQuizService builds the quiz service.
func NewQuizService(
	quizzes repository.QuizRepository,
	courses repository.CourseRepository,
	students repository.StudentRepository,
	generator Generator,
	validate *validator.Validate,
	logger zerolog.Logger,
) QuizService {
	return &quizService{
		quizzes:   quizzes,
		courses:   courses,
		students:  students,
		generator: generator,
		validate:  validate,
		logger:    logger.With().Str("component", "quiz_service").Logger(),
		now:       time.Now,
	}
}

func (s *quizService) Generate(ctx context.Context, req dto.QuizGenerateRequest) (dto.QuizResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.QuizResponse{}, err
	}

	if req.NumQuestions == 0 {
		req.NumQuestions = 5
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}

	if _, err := s.courses.GetByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrCourseNotFound
		}
		return dto.QuizResponse{}, err
	}

	prompt, system := ai.QuizPrompt(req.Topic, req.NumQuestions, req.Difficulty)
	raw, err := s.generator.Generate(ctx, prompt, system)
	if err != nil {
		return dto.QuizResponse{}, fmt.Errorf("generate quiz: %w", err)
	}

	questions, extracted := ai.DecodeQuizQuestions(raw, req.Topic)
	if !extracted {
		observability.ExtractionFallbacks().WithLabelValues("quiz").Inc()
	}

	encoded, err := json.Marshal(questions)
	if err != nil {
		return dto.QuizResponse{}, fmt.Errorf("encode quiz questions: %w", err)
	}

	quiz := models.Quiz{
		CourseID:     req.CourseID,
		Title:        "Quiz: " + req.Topic,
		Description:  fmt.Sprintf("A %s level quiz on %s", req.Difficulty, req.Topic),
		Questions:    datatypes.JSON(encoded),
		TimeLimit:    req.NumQuestions * 2,
		PassingScore: 70.0,
	}
	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Str("topic", req.Topic).
		Int("questions", len(questions)).Msg("quiz generated")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) List(ctx context.Context, courseID *uint) ([]dto.QuizResponse, error) {
	quizzes, err := s.quizzes.List(ctx, courseID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizResponseSlice(quizzes), nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (dto.QuizResponse, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Delete(ctx context.Context, id uint) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	return nil
}

func (s *quizService) SubmitAttempt(ctx context.Context, req dto.QuizAttemptCreateRequest) (dto.QuizAttemptResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, req.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizAttemptResponse{}, ErrQuizNotFound
		}
		return dto.QuizAttemptResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizAttemptResponse{}, ErrStudentNotFound
		}
		return dto.QuizAttemptResponse{}, err
	}

	var questions []ai.QuizQuestion
	if len(quiz.Questions) > 0 {
		if err := json.Unmarshal(quiz.Questions, &questions); err != nil {
			return dto.QuizAttemptResponse{}, fmt.Errorf("decode quiz questions: %w", err)
		}
	}

	score := ScoreAttempt(questions, req.Answers)

	answers := make(datatypes.JSONMap, len(req.Answers))
	for key, value := range req.Answers {
		answers[key] = value
	}

	completedAt := s.now()
	attempt := models.QuizAttempt{
		QuizID:      req.QuizID,
		StudentID:   req.StudentID,
		Answers:     answers,
		Score:       score,
		CompletedAt: &completedAt,
	}
	if err := s.quizzes.CreateAttempt(ctx, &attempt); err != nil {
		return dto.QuizAttemptResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", req.QuizID).Uint("student_id", req.StudentID).
		Float64("score", score).Msg("quiz attempt graded")

	return dto.NewQuizAttemptResponse(attempt), nil
}

func (s *quizService) ListAttemptsByStudent(ctx context.Context, studentID uint) ([]dto.QuizAttemptResponse, error) {
	attempts, err := s.quizzes.ListAttemptsByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizAttemptResponseSlice(attempts), nil
}

func (s *quizService) ListAttemptsByQuiz(ctx context.Context, quizID uint) ([]dto.QuizAttemptResponse, error) {
	attempts, err := s.quizzes.ListAttemptsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuizAttemptResponseSlice(attempts), nil
}
