package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/repository"
)

// Enqueuer hands grading work to the background queue. *worker.GradingQueue
// satisfies it.
type Enqueuer interface {
	Enqueue(submissionID uint) bool
}

// SubmissionService manages submission intake and queuing for grading.
type SubmissionService interface {
	Create(ctx context.Context, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error)
	List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	students    repository.StudentRepository
	queue       Enqueuer
	validate    *validator.Validate
	logger      zerolog.Logger
}

// NewSubmissionService builds the submission service.
func NewSubmissionService(
	submissions repository.SubmissionRepository,
	assignments repository.AssignmentRepository,
	students repository.StudentRepository,
	queue Enqueuer,
	validate *validator.Validate,
	logger zerolog.Logger,
) SubmissionService {
	return &submissionService{
		submissions: submissions,
		assignments: assignments,
		students:    students,
		queue:       queue,
		validate:    validate,
		logger:      logger.With().Str("component", "submission_service").Logger(),
	}
}

func (s *submissionService) Create(ctx context.Context, req dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.assignments.GetByID(ctx, req.AssignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.students.GetByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrStudentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	submission := models.Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		Content:      req.Content,
		Status:       models.SubmissionStatusSubmitted,
	}
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionResponse{}, err
	}

	// The record stays in submitted status if the queue is full; a manual
	// grade trigger can pick it up later.
	if s.queue != nil && !s.queue.Enqueue(submission.ID) {
		s.logger.Warn().Uint("submission_id", submission.ID).
			Msg("grading queue full, submission left ungraded")
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint) (dto.SubmissionResponse, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) List(ctx context.Context, filter dto.SubmissionFilter) ([]dto.SubmissionResponse, error) {
	if err := s.validate.Struct(filter); err != nil {
		return nil, err
	}

	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
		Status:       filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewSubmissionResponseSlice(submissions), nil
}
