package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
)

type stubQueue struct {
	enqueued []uint
	full     bool
}

func (q *stubQueue) Enqueue(submissionID uint) bool {
	if q.full {
		return false
	}
	q.enqueued = append(q.enqueued, submissionID)
	return true
}

func submissionTestService(subs *fakeSubmissionRepo, assigns *fakeAssignmentRepo, students *fakeStudentRepo, queue Enqueuer) SubmissionService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewSubmissionService(subs, assigns, students, queue, validate, testLogger())
}

func TestSubmissionCreateEnqueuesGrading(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	students := newFakeStudentRepo()
	assigns.put(models.Assignment{ID: 1, CourseID: 1, Title: "Essay"})
	students.put(models.Student{ID: 2, FirstName: "Ada"})

	queue := &stubQueue{}
	svc := submissionTestService(subs, assigns, students, queue)

	submission, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: 1, StudentID: 2, Content: "My answer",
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, submission.Status)
	require.Nil(t, submission.Score)
	require.Equal(t, []uint{submission.ID}, queue.enqueued)
}

func TestSubmissionCreateQueueFull(t *testing.T) {
	subs := newFakeSubmissionRepo()
	assigns := newFakeAssignmentRepo()
	students := newFakeStudentRepo()
	assigns.put(models.Assignment{ID: 1, CourseID: 1})
	students.put(models.Student{ID: 2})

	svc := submissionTestService(subs, assigns, students, &stubQueue{full: true})

	// submission is still accepted, it just stays ungraded
	submission, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: 1, StudentID: 2, Content: "answer",
	})
	require.NoError(t, err)
	require.Equal(t, models.SubmissionStatusSubmitted, submission.Status)
}

func TestSubmissionCreateAssignmentMissing(t *testing.T) {
	students := newFakeStudentRepo()
	students.put(models.Student{ID: 2})

	svc := submissionTestService(newFakeSubmissionRepo(), newFakeAssignmentRepo(), students, &stubQueue{})

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: 1, StudentID: 2, Content: "answer",
	})
	require.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmissionCreateStudentMissing(t *testing.T) {
	assigns := newFakeAssignmentRepo()
	assigns.put(models.Assignment{ID: 1})

	svc := submissionTestService(newFakeSubmissionRepo(), assigns, newFakeStudentRepo(), &stubQueue{})

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{
		AssignmentID: 1, StudentID: 2, Content: "answer",
	})
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestSubmissionCreateValidation(t *testing.T) {
	svc := submissionTestService(newFakeSubmissionRepo(), newFakeAssignmentRepo(), newFakeStudentRepo(), &stubQueue{})

	_, err := svc.Create(context.Background(), dto.SubmissionCreateRequest{AssignmentID: 1, StudentID: 2})
	require.Error(t, err)
}

func TestSubmissionListFilters(t *testing.T) {
	subs := newFakeSubmissionRepo()
	subs.put(models.Submission{ID: 1, AssignmentID: 1, StudentID: 1, Status: models.SubmissionStatusGraded})
	subs.put(models.Submission{ID: 2, AssignmentID: 1, StudentID: 2, Status: models.SubmissionStatusSubmitted})
	subs.put(models.Submission{ID: 3, AssignmentID: 2, StudentID: 1, Status: models.SubmissionStatusGraded})

	svc := submissionTestService(subs, newFakeAssignmentRepo(), newFakeStudentRepo(), &stubQueue{})

	studentID := uint(1)
	status := models.SubmissionStatusGraded
	result, err := svc.List(context.Background(), dto.SubmissionFilter{StudentID: &studentID, Status: &status})
	require.NoError(t, err)
	require.Len(t, result, 2)
}

func TestSubmissionGetByIDMissing(t *testing.T) {
	svc := submissionTestService(newFakeSubmissionRepo(), newFakeAssignmentRepo(), newFakeStudentRepo(), &stubQueue{})

	_, err := svc.GetByID(context.Background(), 404)
	require.ErrorIs(t, err, ErrSubmissionNotFound)
}
