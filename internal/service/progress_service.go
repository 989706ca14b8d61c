package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/repository"
)

// ProgressService computes per-student performance analytics.
type ProgressService interface {
	GetStudentProgress(ctx context.Context, studentID uint) (dto.StudentProgressResponse, error)
}

type progressService struct {
	students    repository.StudentRepository
	submissions repository.SubmissionRepository
	quizzes     repository.QuizRepository
	assignments repository.AssignmentRepository
	cache       *redis.Client
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewProgressService builds the analytics service. The cache may be nil when
// Redis is not configured.
func NewProgressService(
	students repository.StudentRepository,
	submissions repository.SubmissionRepository,
	quizzes repository.QuizRepository,
	assignments repository.AssignmentRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) ProgressService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &progressService{
		students:    students,
		submissions: submissions,
		quizzes:     quizzes,
		assignments: assignments,
		cache:       cache,
		ttl:         ttl,
		logger:      logger.With().Str("component", "progress_service").Logger(),
	}
}

func (s *progressService) GetStudentProgress(ctx context.Context, studentID uint) (dto.StudentProgressResponse, error) {
	cacheKey := "progress:student:" + strconv.FormatUint(uint64(studentID), 10)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			var response dto.StudentProgressResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				return response, nil
			}
		}
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentProgressResponse{}, ErrStudentNotFound
		}
		return dto.StudentProgressResponse{}, err
	}

	gradedStatus := models.SubmissionStatusGraded
	submissions, err := s.submissions.List(ctx, repository.SubmissionFilter{
		StudentID: &studentID,
		Status:    &gradedStatus,
	})
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	attempts, err := s.quizzes.ListAttemptsByStudent(ctx, studentID)
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	totalAssignments, err := s.assignments.Count(ctx)
	if err != nil {
		return dto.StudentProgressResponse{}, err
	}

	// Both lists come back newest first; reverse into chronological order so
	// the trend window reads oldest to newest.
	scores := make([]float64, 0, len(submissions)+len(attempts))
	for i := len(submissions) - 1; i >= 0; i-- {
		if submissions[i].Score != nil {
			scores = append(scores, *submissions[i].Score)
		}
	}
	for i := len(attempts) - 1; i >= 0; i-- {
		scores = append(scores, attempts[i].Score)
	}

	var average float64
	if len(scores) > 0 {
		var sum float64
		for _, score := range scores {
			sum += score
		}
		average = sum / float64(len(scores))
	}

	var completionRate float64
	if totalAssignments > 0 {
		completionRate = float64(len(submissions)) / float64(totalAssignments) * 100
	}

	response := dto.StudentProgressResponse{
		StudentID:        student.ID,
		StudentName:      student.FirstName + " " + student.LastName,
		AverageScore:     round2(average),
		TotalSubmissions: len(submissions),
		TotalQuizzes:     len(attempts),
		CompletionRate:   round2(completionRate),
		RecentTrend:      scoreTrend(scores),
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Uint("student_id", studentID).
					Msg("could not cache student progress")
			}
		}
	}

	return response, nil
}

// scoreTrend compares the most recent five scores against the five before
// them. A swing of more than five points either way changes the trend.
func scoreTrend(scores []float64) string {
	recent := scores
	if len(scores) >= 5 {
		recent = scores[len(scores)-5:]
	}

	var previous []float64
	if len(scores) >= 10 {
		previous = scores[len(scores)-10 : len(scores)-5]
	}

	if len(previous) == 0 || len(recent) == 0 {
		return "stable"
	}

	recentAvg := mean(recent)
	previousAvg := mean(previous)

	switch {
	case recentAvg > previousAvg+5:
		return "improving"
	case recentAvg < previousAvg-5:
		return "declining"
	default:
		return "stable"
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, value := range values {
		sum += value
	}
	return sum / float64(len(values))
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
