package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/pkg/ai"
)

func TestLessonPlanGenerate(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.put(models.Course{ID: 1, Name: "Biology"})
	plans := newFakeLessonPlanRepo()
	gen := &stubGenerator{response: `{
		"title": "Cells and Organelles",
		"objectives": ["Identify organelles"],
		"content": "Start with the microscope lab.",
		"activities": [{"name": "Lab", "description": "Observe cells", "duration": 20}],
		"materials": ["Microscope"],
		"standards_aligned": ["NGSS MS-LS1-1"]
	}`}
	svc := NewLessonPlanService(plans, courses, gen, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	plan, err := svc.Generate(context.Background(), dto.LessonPlanGenerateRequest{
		CourseID:           1,
		Topic:              "Cell Structure",
		GradeLevel:         "7",
		Duration:           45,
		LearningObjectives: []string{"Identify organelles"},
	})
	require.NoError(t, err)
	require.Equal(t, "Cells and Organelles", plan.Title)
	require.Equal(t, []string{"Identify organelles"}, plan.Objectives)
	require.Len(t, plan.Activities, 1)
	require.Equal(t, "Lab", plan.Activities[0].Name)
	require.Equal(t, 45, plan.Duration)
	require.Contains(t, gen.lastPrompt, "Cell Structure")
}

func TestLessonPlanGenerateFallback(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.put(models.Course{ID: 1, Name: "Biology"})
	plans := newFakeLessonPlanRepo()
	gen := &stubGenerator{response: "Here is a rough outline for the lesson without any structure."}
	svc := NewLessonPlanService(plans, courses, gen, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	plan, err := svc.Generate(context.Background(), dto.LessonPlanGenerateRequest{
		CourseID:   1,
		Topic:      "Photosynthesis",
		GradeLevel: "8",
		Duration:   30,
	})
	require.NoError(t, err)
	require.Equal(t, "Lesson: Photosynthesis", plan.Title)
	require.Contains(t, plan.Content, "rough outline")
}

func TestLessonPlanGenerateCourseMissing(t *testing.T) {
	svc := NewLessonPlanService(newFakeLessonPlanRepo(), newFakeCourseRepo(), &stubGenerator{}, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Generate(context.Background(), dto.LessonPlanGenerateRequest{
		CourseID: 9, Topic: "Anything", GradeLevel: "6", Duration: 40,
	})
	require.ErrorIs(t, err, ErrCourseNotFound)
}

func TestLessonPlanGenerateBackendFailure(t *testing.T) {
	courses := newFakeCourseRepo()
	courses.put(models.Course{ID: 1, Name: "Biology"})
	gen := &stubGenerator{err: &ai.BackendError{Cause: errors.New("connection refused")}}
	svc := NewLessonPlanService(newFakeLessonPlanRepo(), courses, gen, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.Generate(context.Background(), dto.LessonPlanGenerateRequest{
		CourseID: 1, Topic: "Anything", GradeLevel: "6", Duration: 40,
	})

	var backendErr *ai.BackendError
	require.ErrorAs(t, err, &backendErr)
}

func TestLessonPlanGetMissing(t *testing.T) {
	svc := NewLessonPlanService(newFakeLessonPlanRepo(), newFakeCourseRepo(), &stubGenerator{}, validator.New(validator.WithRequiredStructEnabled()), testLogger())

	_, err := svc.GetByID(context.Background(), 7)
	require.ErrorIs(t, err, ErrLessonPlanNotFound)
}
