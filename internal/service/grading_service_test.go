package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/pkg/ai"
)

type capturedEvent struct {
	subject string
	data    []byte
}

type stubPublisher struct {
	events []capturedEvent
	err    error
}

func (p *stubPublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, capturedEvent{subject: subject, data: data})
	return nil
}

func essayFixture(subs *fakeSubmissionRepo, assigns *fakeAssignmentRepo) {
	assigns.put(models.Assignment{ID: 1, CourseID: 1, Title: "Essay", AssignmentType: "essay", MaxPoints: 100})
	subs.put(models.Submission{ID: 1, AssignmentID: 1, StudentID: 1, Content: "My essay text", Status: models.SubmissionStatusSubmitted})
}

func answerSheetFixture(subs *fakeSubmissionRepo, assigns *fakeAssignmentRepo) {
	assigns.put(models.Assignment{
		ID: 2, CourseID: 1, Title: "Questions", AssignmentType: "short_answer", MaxPoints: 50,
		Rubric: datatypes.JSONMap{
			"grading_type": "answer_sheet",
			"questions": []interface{}{
				map[string]interface{}{
					"question_number": float64(1),
					"question_text":   "What is 2+2?",
					"model_answer":    "4",
					"key_points":      []interface{}{"arithmetic"},
					"points":          float64(10),
				},
			},
		},
	})
	subs.put(models.Submission{ID: 2, AssignmentID: 2, StudentID: 1, Content: "1. four", Status: models.SubmissionStatusSubmitted})
}

func TestGradeSubmissionEssaySuccess(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{response: `{"overall_score": 92, "detailed_feedback": "Excellent structure.", "rubric_scores": {"Clarity": {"score": 9, "feedback": "clear"}}}`}
	events := &stubPublisher{}
	svc := NewGradingService(subs, assigns, gen, events, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 1))

	graded := subs.get(1)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.NotNil(t, graded.Score)
	require.Equal(t, 92.0, *graded.Score)
	require.Equal(t, "Excellent structure.", graded.Feedback)
	require.NotNil(t, graded.GradedAt)
	require.True(t, graded.AIGraded)
	require.Contains(t, graded.RubricScores, "Clarity")

	require.Len(t, events.events, 1)
	require.Equal(t, "eduai.submissions.graded", events.events[0].subject)
}

func TestGradeSubmissionEssayFallbackScore(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{response: "I cannot produce JSON today."}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 1))

	graded := subs.get(1)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.Equal(t, 75.0, *graded.Score)
	require.Equal(t, "I cannot produce JSON today.", graded.Feedback)
}

func TestGradeSubmissionAnswerSheet(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	answerSheetFixture(subs, assigns)

	gen := &stubGenerator{response: `{
		"parsed_answers": [{"question_number": 1, "student_answer": "four", "score": 8, "max_score": 10, "feedback": "Correct but terse."}],
		"total_score": 8, "max_total_score": 10, "percentage": 80,
		"overall_feedback": "Solid effort.",
		"strengths": ["Accuracy"],
		"areas_for_improvement": ["Show work"]
	}`}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 2))

	graded := subs.get(2)
	require.Equal(t, models.SubmissionStatusGraded, graded.Status)
	// 80% of the 50 point maximum
	require.Equal(t, 40.0, *graded.Score)
	require.Contains(t, graded.Feedback, "Solid effort.")
	require.Contains(t, graded.Feedback, "**Strengths:**")
	require.Contains(t, graded.Feedback, "• Accuracy")
	require.Contains(t, graded.Feedback, "**Areas for Improvement:**")
	require.Contains(t, graded.Feedback, "• Show work")
	require.Contains(t, graded.Feedback, "**Question-by-Question Feedback:**")
	require.Contains(t, graded.Feedback, "Question 1: 8/10 points")
	require.Contains(t, graded.Feedback, "Correct but terse.")
	require.Contains(t, graded.RubricScores, "Question 1")

	// answer sheet grading sends the question set in the prompt
	require.Contains(t, gen.lastPrompt, "What is 2+2?")
	require.Contains(t, gen.lastPrompt, "1. four")
}

func TestGradeSubmissionAnswerSheetFallback(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	answerSheetFixture(subs, assigns)

	gen := &stubGenerator{response: "no json"}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 2))

	graded := subs.get(2)
	// fallback is 75% of the 50 point maximum
	require.Equal(t, 37.5, *graded.Score)
	require.Contains(t, graded.Feedback, "Answer sheet graded. Good effort overall.")
}

func TestGradeSubmissionBackendFailure(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{err: &ai.BackendError{Cause: errors.New("connection refused")}}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	err := svc.GradeSubmission(context.Background(), 1)
	require.Error(t, err)

	failed := subs.get(1)
	require.Equal(t, models.SubmissionStatusGradingFailed, failed.Status)
	require.Nil(t, failed.Score)
	require.Nil(t, failed.GradedAt)
	require.Empty(t, failed.Feedback)
}

func TestGradeSubmissionSkipsWhenAlreadyGrading(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)
	subs.put(models.Submission{ID: 1, AssignmentID: 1, StudentID: 1, Content: "x", Status: models.SubmissionStatusGrading})

	gen := &stubGenerator{response: "{}"}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 1))
	require.Zero(t, gen.calls)
}

func TestGradeSubmissionRetryAfterFailure(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{err: &ai.BackendError{Cause: errors.New("down")}}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	require.Error(t, svc.GradeSubmission(context.Background(), 1))
	require.Equal(t, models.SubmissionStatusGradingFailed, subs.get(1).Status)

	gen.err = nil
	gen.response = `{"overall_score": 70, "detailed_feedback": "ok"}`
	require.NoError(t, svc.GradeSubmission(context.Background(), 1))
	require.Equal(t, models.SubmissionStatusGraded, subs.get(1).Status)
	require.Equal(t, 70.0, *subs.get(1).Score)
}

func TestGradeSubmissionRegradeOverwrites(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{response: `{"overall_score": 60, "detailed_feedback": "first pass"}`}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 1))
	require.Equal(t, 60.0, *subs.get(1).Score)

	gen.response = `{"overall_score": 85, "detailed_feedback": "second pass"}`
	require.NoError(t, svc.GradeSubmission(context.Background(), 1))
	require.Equal(t, 85.0, *subs.get(1).Score)
	require.Equal(t, "second pass", subs.get(1).Feedback)
}

func TestGradeSubmissionMissingSubmission(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()

	svc := NewGradingService(subs, assigns, &stubGenerator{}, nil, testLogger())

	err := svc.GradeSubmission(context.Background(), 99)
	require.NoError(t, err)
}

func TestGradeEssayManual(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{response: `{"overall_score": 88, "detailed_feedback": "Well argued."}`}
	svc := NewGradingService(subs, assigns, gen, nil, testLogger())

	result, err := svc.GradeEssay(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, uint(1), result.SubmissionID)
	require.Equal(t, 88.0, result.Score)
	require.Equal(t, "Well argued.", result.Feedback)
	require.Equal(t, models.SubmissionStatusGraded, subs.get(1).Status)
}

func TestGradeEssayManualConflict(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)
	subs.put(models.Submission{ID: 1, AssignmentID: 1, StudentID: 1, Content: "x", Status: models.SubmissionStatusGrading})

	svc := NewGradingService(subs, assigns, &stubGenerator{}, nil, testLogger())

	_, err := svc.GradeEssay(context.Background(), 1)
	require.ErrorIs(t, err, ErrGradingInProgress)
}

func TestGradeEssayManualNotFound(t *testing.T) {
	svc := NewGradingService(newFakeSubmissionRepo(), newFakeAssignmentRepo(), &stubGenerator{}, nil, testLogger())

	_, err := svc.GradeEssay(context.Background(), 42)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestGradeSubmissionPublishFailureDoesNotFailGrading(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	essayFixture(subs, assigns)

	gen := &stubGenerator{response: `{"overall_score": 90, "detailed_feedback": "ok"}`}
	events := &stubPublisher{err: errors.New("nats down")}
	svc := NewGradingService(subs, assigns, gen, events, testLogger())

	require.NoError(t, svc.GradeSubmission(context.Background(), 1))
	require.Equal(t, models.SubmissionStatusGraded, subs.get(1).Status)
}
