package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/observability"
	"github.com/eduai-companion/go-api/internal/repository"
	"github.com/eduai-companion/go-api/pkg/ai"
)

const gradedSubject = "eduai.submissions.graded"

// Generator produces a completion for a prompt pair. *ai.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt, system string) (string, error)
}

// EventPublisher emits domain events. *nats.Conn satisfies it.
type EventPublisher interface {
	Publish(subject string, data []byte) error
}

// GradingService orchestrates AI grading of submissions. GradeSubmission is
// the asynchronous entry point invoked by the worker queue; GradeEssay is the
// synchronous manual trigger.
type GradingService interface {
	GradeSubmission(ctx context.Context, submissionID uint) error
	GradeEssay(ctx context.Context, submissionID uint) (dto.GradeSubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	generator   Generator
	events      EventPublisher
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewGradingService builds the grading orchestrator. The event publisher may
// be nil when no broker is configured.
func NewGradingService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	generator Generator,
	events EventPublisher,
	logger zerolog.Logger,
) GradingService {
	return &gradingService{
		submissions: submissions,
		assignments: assignments,
		generator:   generator,
		events:      events,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		tracer:      otel.Tracer("github.com/eduai-companion/go-api/internal/service"),
		now:         time.Now,
	}
}

type gradeResult struct {
	score        float64
	feedback     string
	rubricScores map[string]interface{}
	strategy     string
}

func (s *gradingService) GradeSubmission(ctx context.Context, submissionID uint) error {
	ctx, span := s.tracer.Start(ctx, "grading.submission",
		trace.WithAttributes(attribute.Int64("submission.id", int64(submissionID))))
	defer span.End()

	claimed, err := s.submissions.TryMarkGrading(ctx, submissionID)
	if err != nil {
		return fmt.Errorf("claim submission %d: %w", submissionID, err)
	}
	if !claimed {
		s.logger.Debug().Uint("submission_id", submissionID).
			Msg("submission already being graded, skipping")
		observability.GradingOutcomes().WithLabelValues("none", "skipped").Inc()
		return nil
	}

	submission, assignment, err := s.load(ctx, submissionID)
	if err != nil {
		s.fail(ctx, submissionID, "none", err)
		return err
	}

	result, err := s.grade(ctx, submission, assignment)
	if err != nil {
		s.fail(ctx, submissionID, result.strategy, err)
		return err
	}

	gradedAt := s.now()
	update := repository.GradeUpdate{
		Score:        result.score,
		Feedback:     result.feedback,
		RubricScores: result.rubricScores,
		GradedAt:     gradedAt,
	}
	if err := s.submissions.SaveGrade(ctx, submissionID, update); err != nil {
		s.fail(ctx, submissionID, result.strategy, err)
		return fmt.Errorf("persist grade for submission %d: %w", submissionID, err)
	}

	observability.GradingOutcomes().WithLabelValues(result.strategy, "success").Inc()
	s.logger.Info().
		Uint("submission_id", submissionID).
		Str("strategy", result.strategy).
		Float64("score", result.score).
		Msg("submission graded")

	s.publishGraded(submission, result.score, gradedAt)
	return nil
}

// GradeEssay grades a submission synchronously with the essay strategy,
// regardless of the assignment rubric.
func (s *gradingService) GradeEssay(ctx context.Context, submissionID uint) (dto.GradeSubmissionResponse, error) {
	ctx, span := s.tracer.Start(ctx, "grading.manual",
		trace.WithAttributes(attribute.Int64("submission.id", int64(submissionID))))
	defer span.End()

	submission, assignment, err := s.load(ctx, submissionID)
	if err != nil {
		return dto.GradeSubmissionResponse{}, err
	}

	claimed, err := s.submissions.TryMarkGrading(ctx, submissionID)
	if err != nil {
		return dto.GradeSubmissionResponse{}, fmt.Errorf("claim submission %d: %w", submissionID, err)
	}
	if !claimed {
		return dto.GradeSubmissionResponse{}, ErrGradingInProgress
	}

	result, err := s.gradeEssay(ctx, submission, assignment)
	if err != nil {
		s.fail(ctx, submissionID, "essay", err)
		return dto.GradeSubmissionResponse{}, err
	}

	gradedAt := s.now()
	update := repository.GradeUpdate{
		Score:        result.score,
		Feedback:     result.feedback,
		RubricScores: result.rubricScores,
		GradedAt:     gradedAt,
	}
	if err := s.submissions.SaveGrade(ctx, submissionID, update); err != nil {
		s.fail(ctx, submissionID, "essay", err)
		return dto.GradeSubmissionResponse{}, fmt.Errorf("persist grade for submission %d: %w", submissionID, err)
	}

	observability.GradingOutcomes().WithLabelValues("essay", "success").Inc()
	s.publishGraded(submission, result.score, gradedAt)

	return dto.GradeSubmissionResponse{
		SubmissionID: submissionID,
		Score:        result.score,
		Feedback:     result.feedback,
		RubricScores: result.rubricScores,
	}, nil
}

func (s *gradingService) load(ctx context.Context, submissionID uint) (models.Submission, models.Assignment, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, models.Assignment{}, ErrSubmissionNotFound
		}
		return models.Submission{}, models.Assignment{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, submission.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Submission{}, models.Assignment{}, err
	}

	return submission, assignment, nil
}

func (s *gradingService) grade(ctx context.Context, submission models.Submission, assignment models.Assignment) (gradeResult, error) {
	if assignment.UsesAnswerSheetGrading() {
		return s.gradeAnswerSheet(ctx, submission, assignment)
	}
	return s.gradeEssay(ctx, submission, assignment)
}

func (s *gradingService) gradeEssay(ctx context.Context, submission models.Submission, assignment models.Assignment) (gradeResult, error) {
	maxPoints := assignment.EffectiveMaxPoints()
	prompt, system := ai.EssayGradingPrompt(submission.Content, assignment.Rubric, maxPoints)

	raw, err := s.generator.Generate(ctx, prompt, system)
	if err != nil {
		return gradeResult{strategy: "essay"}, fmt.Errorf("grade essay: %w", err)
	}

	grade, extracted := ai.DecodeEssayGrade(raw, maxPoints)
	if !extracted {
		observability.ExtractionFallbacks().WithLabelValues("essay").Inc()
	}

	rubricScores := make(map[string]interface{}, len(grade.RubricScores))
	for criterion, cs := range grade.RubricScores {
		rubricScores[criterion] = map[string]interface{}{
			"score":    cs.Score,
			"feedback": cs.Feedback,
		}
	}

	return gradeResult{
		score:        grade.Score,
		feedback:     grade.Feedback,
		rubricScores: rubricScores,
		strategy:     "essay",
	}, nil
}

func (s *gradingService) gradeAnswerSheet(ctx context.Context, submission models.Submission, assignment models.Assignment) (gradeResult, error) {
	questions, err := rubricQuestions(assignment)
	if err != nil {
		return gradeResult{strategy: "answer_sheet"}, fmt.Errorf("decode rubric questions: %w", err)
	}

	maxPoints := assignment.EffectiveMaxPoints()
	prompt, system := ai.AnswerSheetPrompt(submission.Content, questions, maxPoints)

	raw, err := s.generator.Generate(ctx, prompt, system)
	if err != nil {
		return gradeResult{strategy: "answer_sheet"}, fmt.Errorf("grade answer sheet: %w", err)
	}

	grade, extracted := ai.DecodeAnswerSheetGrade(raw, maxPoints)
	if !extracted {
		observability.ExtractionFallbacks().WithLabelValues("answer_sheet").Inc()
	}

	score := grade.Percentage / 100 * maxPoints

	rubricScores := make(map[string]interface{}, len(grade.ParsedAnswers))
	for criterion, cs := range grade.RubricScores() {
		rubricScores[criterion] = map[string]interface{}{
			"score":    cs.Score,
			"feedback": cs.Feedback,
		}
	}

	return gradeResult{
		score:        score,
		feedback:     composeAnswerSheetFeedback(grade),
		rubricScores: rubricScores,
		strategy:     "answer_sheet",
	}, nil
}

// composeAnswerSheetFeedback flattens the structured grade into the feedback
// text stored on the submission.
func composeAnswerSheetFeedback(grade ai.AnswerSheetGrade) string {
	parts := []string{grade.OverallFeedback}

	if len(grade.Strengths) > 0 {
		parts = append(parts, "\n\n**Strengths:**")
		for _, strength := range grade.Strengths {
			parts = append(parts, "• "+strength)
		}
	}

	if len(grade.AreasForImprovement) > 0 {
		parts = append(parts, "\n\n**Areas for Improvement:**")
		for _, area := range grade.AreasForImprovement {
			parts = append(parts, "• "+area)
		}
	}

	if len(grade.ParsedAnswers) > 0 {
		parts = append(parts, "\n\n**Question-by-Question Feedback:**")
		for _, answer := range grade.ParsedAnswers {
			parts = append(parts, fmt.Sprintf("\nQuestion %d: %v/%v points", answer.QuestionNumber, answer.Score, answer.MaxScore))
			parts = append(parts, "  "+answer.Feedback)
		}
	}

	return strings.Join(parts, "\n")
}

func rubricQuestions(assignment models.Assignment) ([]ai.AssignmentQuestion, error) {
	rawQuestions, ok := assignment.Rubric["questions"]
	if !ok {
		return nil, nil
	}

	encoded, err := json.Marshal(rawQuestions)
	if err != nil {
		return nil, err
	}

	var questions []ai.AssignmentQuestion
	if err := json.Unmarshal(encoded, &questions); err != nil {
		return nil, err
	}

	return questions, nil
}

func (s *gradingService) fail(ctx context.Context, submissionID uint, strategy string, cause error) {
	observability.GradingOutcomes().WithLabelValues(strategy, "failure").Inc()
	s.logger.Error().Err(cause).Uint("submission_id", submissionID).
		Msg("grading failed")

	if err := s.submissions.MarkGradingFailed(ctx, submissionID); err != nil {
		s.logger.Error().Err(err).Uint("submission_id", submissionID).
			Msg("could not mark submission grading_failed")
	}
}

func (s *gradingService) publishGraded(submission models.Submission, score float64, gradedAt time.Time) {
	if s.events == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"submission_id": submission.ID,
		"assignment_id": submission.AssignmentID,
		"student_id":    submission.StudentID,
		"score":         score,
		"graded_at":     gradedAt,
	})
	if err != nil {
		return
	}

	if err := s.events.Publish(gradedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).
			Msg("could not publish graded event")
	}
}
