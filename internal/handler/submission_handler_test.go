package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eduai-companion/go-api/internal/config"
	"github.com/eduai-companion/go-api/internal/dto"
	"github.com/eduai-companion/go-api/internal/handler"
	"github.com/eduai-companion/go-api/internal/models"
	"github.com/eduai-companion/go-api/internal/repository"
	"github.com/eduai-companion/go-api/internal/router"
	"github.com/eduai-companion/go-api/internal/service"
)

type fixedGenerator struct {
	response string
	err      error
}

func (g *fixedGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	return g.response, g.err
}

type noopQueue struct{}

func (noopQueue) Enqueue(uint) bool { return true }

func setupSubmissionApp(t *testing.T, gen service.Generator) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Student{}, &models.Course{}, &models.Assignment{}, &models.Submission{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	assignmentService := service.NewAssignmentService(assignmentRepo, courseRepo, gen, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, assignmentRepo, gen, nil, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, studentRepo, noopQueue{}, validate, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, gradingService, logger),
	})

	return app, db
}

func seedSubmissionRecords(t *testing.T, db *gorm.DB) (models.Student, models.Assignment) {
	t.Helper()

	student := models.Student{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", GradeLevel: "9"}
	require.NoError(t, db.Create(&student).Error)

	course := models.Course{Name: "English"}
	require.NoError(t, db.Create(&course).Error)

	assignment := models.Assignment{CourseID: course.ID, Title: "Essay", AssignmentType: "essay", MaxPoints: 100}
	require.NoError(t, db.Create(&assignment).Error)

	return student, assignment
}

func TestSubmissionHandlerCreateAndGrade(t *testing.T) {
	gen := &fixedGenerator{response: `{"overall_score": 91.0, "detailed_feedback": "Well argued."}`}
	app, db := setupSubmissionApp(t, gen)
	student, assignment := seedSubmissionRecords(t, db)

	payload, err := json.Marshal(dto.SubmissionCreateRequest{
		AssignmentID: assignment.ID,
		StudentID:    student.ID,
		Content:      "My essay on symbolism.",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/assignments/submissions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Success bool                   `json:"success"`
		Data    dto.SubmissionResponse `json:"data"`
		Message string                 `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.True(t, created.Success)
	require.Equal(t, "submission accepted for grading", created.Message)
	require.NotZero(t, created.Data.ID)
	require.Equal(t, models.SubmissionStatusSubmitted, created.Data.Status)

	gradePayload, err := json.Marshal(dto.GradeSubmissionRequest{SubmissionID: created.Data.ID})
	require.NoError(t, err)

	gradeReq := httptest.NewRequest("POST", "/api/assignments/submissions/grade", bytes.NewReader(gradePayload))
	gradeReq.Header.Set("Content-Type", "application/json")
	gradeResp, err := app.Test(gradeReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, gradeResp.StatusCode)

	var graded struct {
		Success bool                        `json:"success"`
		Data    dto.GradeSubmissionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(gradeResp.Body).Decode(&graded))
	require.True(t, graded.Success)
	require.Equal(t, 91.0, graded.Data.Score)
	require.Equal(t, "Well argued.", graded.Data.Feedback)

	getReq := httptest.NewRequest("GET", "/api/assignments/submissions/"+strconv.FormatUint(uint64(created.Data.ID), 10), nil)
	getResp, err := app.Test(getReq)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, getResp.StatusCode)

	var fetched struct {
		Data dto.SubmissionResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&fetched))
	require.Equal(t, models.SubmissionStatusGraded, fetched.Data.Status)
	require.NotNil(t, fetched.Data.Score)
	require.Equal(t, 91.0, *fetched.Data.Score)
}

func TestSubmissionHandlerCreateUnknownAssignment(t *testing.T) {
	app, _ := setupSubmissionApp(t, &fixedGenerator{})

	payload := []byte(`{"assignment_id": 99, "student_id": 1, "content": "text"}`)
	req := httptest.NewRequest("POST", "/api/assignments/submissions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubmissionHandlerGradeRequiresID(t *testing.T) {
	app, _ := setupSubmissionApp(t, &fixedGenerator{})

	req := httptest.NewRequest("POST", "/api/assignments/submissions/grade", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSubmissionHandlerGetMissing(t *testing.T) {
	app, _ := setupSubmissionApp(t, &fixedGenerator{})

	req := httptest.NewRequest("GET", "/api/assignments/submissions/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
