package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type stubGenerator struct {
	response string
	err      error

	calls      int
	lastPrompt string
	lastSystem string
}

func (g *stubGenerator) Generate(ctx context.Context, prompt, system string) (string, error) {
	g.calls++
	g.lastPrompt = prompt
	g.lastSystem = system
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

type fakeSubmissionRepo struct {
	mu    sync.Mutex
	next  uint
	items map[uint]models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{items: map[uint]models.Submission{}}
}

func (r *fakeSubmissionRepo) put(submission models.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if submission.ID > r.next {
		r.next = submission.ID
	}
	r.items[submission.ID] = submission
}

func (r *fakeSubmissionRepo) get(id uint) models.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id]
}

func (r *fakeSubmissionRepo) List(ctx context.Context, filter repository.SubmissionFilter) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Submission, 0)
	for _, item := range r.items {
		if filter.AssignmentID != nil && item.AssignmentID != *filter.AssignmentID {
			continue
		}
		if filter.StudentID != nil && item.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeSubmissionRepo) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	submission.ID = r.next
	r.items[submission.ID] = *submission
	return nil
}

func (r *fakeSubmissionRepo) TryMarkGrading(ctx context.Context, id uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok || item.Status == models.SubmissionStatusGrading {
		return false, nil
	}
	item.Status = models.SubmissionStatusGrading
	r.items[id] = item
	return true, nil
}

func (r *fakeSubmissionRepo) SaveGrade(ctx context.Context, id uint, grade repository.GradeUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	score := grade.Score
	gradedAt := grade.GradedAt
	item.Status = models.SubmissionStatusGraded
	item.Score = &score
	item.Feedback = grade.Feedback
	item.RubricScores = grade.RubricScores
	item.AIGraded = true
	item.GradedAt = &gradedAt
	r.items[id] = item
	return nil
}

func (r *fakeSubmissionRepo) MarkGradingFailed(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil
	}
	item.Status = models.SubmissionStatusGradingFailed
	r.items[id] = item
	return nil
}

type fakeAssignmentRepo struct {
	mu    sync.Mutex
	next  uint
	items map[uint]models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{items: map[uint]models.Assignment{}}
}

func (r *fakeAssignmentRepo) put(assignment models.Assignment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if assignment.ID > r.next {
		r.next = assignment.ID
	}
	r.items[assignment.ID] = assignment
}

func (r *fakeAssignmentRepo) List(ctx context.Context, courseID *uint) ([]models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Assignment, 0)
	for _, item := range r.items {
		if courseID != nil && item.CourseID != *courseID {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	assignment.ID = r.next
	r.items[assignment.ID] = *assignment
	return nil
}

func (r *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[assignment.ID] = *assignment
	return nil
}

func (r *fakeAssignmentRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.items)), nil
}

type fakeStudentRepo struct {
	mu    sync.Mutex
	next  uint
	items map[uint]models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{items: map[uint]models.Student{}}
}

func (r *fakeStudentRepo) put(student models.Student) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if student.ID > r.next {
		r.next = student.ID
	}
	r.items[student.ID] = student
}

func (r *fakeStudentRepo) List(ctx context.Context) ([]models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Student, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id uint) (models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.Student{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeStudentRepo) GetByEmail(ctx context.Context, email string) (models.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.Email == email {
			return item, nil
		}
	}
	return models.Student{}, gorm.ErrRecordNotFound
}

func (r *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	student.ID = r.next
	r.items[student.ID] = *student
	return nil
}

func (r *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[student.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.items[student.ID] = *student
	return nil
}

func (r *fakeStudentRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeCourseRepo struct {
	mu    sync.Mutex
	next  uint
	items map[uint]models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{items: map[uint]models.Course{}}
}

func (r *fakeCourseRepo) put(course models.Course) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if course.ID > r.next {
		r.next = course.ID
	}
	r.items[course.ID] = course
}

func (r *fakeCourseRepo) List(ctx context.Context) ([]models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Course, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeCourseRepo) GetByID(ctx context.Context, id uint) (models.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.Course{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeCourseRepo) Create(ctx context.Context, course *models.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	course.ID = r.next
	r.items[course.ID] = *course
	return nil
}

func (r *fakeCourseRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

type fakeQuizRepo struct {
	mu          sync.Mutex
	next        uint
	nextAttempt uint
	items       map[uint]models.Quiz
	attempts    []models.QuizAttempt
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{items: map[uint]models.Quiz{}}
}

func (r *fakeQuizRepo) put(quiz models.Quiz) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if quiz.ID > r.next {
		r.next = quiz.ID
	}
	r.items[quiz.ID] = quiz
}

func (r *fakeQuizRepo) List(ctx context.Context, courseID *uint) ([]models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.Quiz, 0)
	for _, item := range r.items {
		if courseID != nil && item.CourseID != *courseID {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeQuizRepo) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	quiz.ID = r.next
	r.items[quiz.ID] = *quiz
	return nil
}

func (r *fakeQuizRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeQuizRepo) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextAttempt++
	attempt.ID = r.nextAttempt
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *fakeQuizRepo) ListAttemptsByStudent(ctx context.Context, studentID uint) ([]models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.QuizAttempt, 0)
	for _, attempt := range r.attempts {
		if attempt.StudentID == studentID {
			result = append(result, attempt)
		}
	}
	return result, nil
}

func (r *fakeQuizRepo) ListAttemptsByQuiz(ctx context.Context, quizID uint) ([]models.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.QuizAttempt, 0)
	for _, attempt := range r.attempts {
		if attempt.QuizID == quizID {
			result = append(result, attempt)
		}
	}
	return result, nil
}

type fakeLessonPlanRepo struct {
	mu    sync.Mutex
	next  uint
	items map[uint]models.LessonPlan
}

func newFakeLessonPlanRepo() *fakeLessonPlanRepo {
	return &fakeLessonPlanRepo{items: map[uint]models.LessonPlan{}}
}

func (r *fakeLessonPlanRepo) List(ctx context.Context, courseID *uint) ([]models.LessonPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]models.LessonPlan, 0)
	for _, item := range r.items {
		if courseID != nil && item.CourseID != *courseID {
			continue
		}
		result = append(result, item)
	}
	return result, nil
}

func (r *fakeLessonPlanRepo) GetByID(ctx context.Context, id uint) (models.LessonPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return models.LessonPlan{}, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (r *fakeLessonPlanRepo) Create(ctx context.Context, plan *models.LessonPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	plan.ID = r.next
	r.items[plan.ID] = *plan
	return nil
}

func (r *fakeLessonPlanRepo) Delete(ctx context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, id)
	return nil
}
