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

// StudentService manages student records.
type StudentService interface {
	Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error)
	List(ctx context.Context) ([]dto.StudentResponse, error)
	GetByID(ctx context.Context, id uint) (dto.StudentResponse, error)
	Update(ctx context.Context, id uint, req dto.StudentUpdateRequest) (dto.StudentResponse, error)
	Delete(ctx context.Context, id uint) error
}

type studentService struct {
	students repository.StudentRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStudentService builds the student service.
func NewStudentService(students repository.StudentRepository, validate *validator.Validate, logger zerolog.Logger) StudentService {
	return &studentService{
		students: students,
		validate: validate,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Create(ctx context.Context, req dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	if _, err := s.students.GetByEmail(ctx, req.Email); err == nil {
		return dto.StudentResponse{}, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		GradeLevel: req.GradeLevel,
		StudentID:  req.StudentID,
	}
	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Uint("student_id", student.ID).Msg("student created")
	return dto.NewStudentResponse(student), nil
}

func (s *studentService) List(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (dto.StudentResponse, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Update(ctx context.Context, id uint, req dto.StudentUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return dto.StudentResponse{}, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentResponse{}, ErrStudentNotFound
		}
		return dto.StudentResponse{}, err
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
	}
	if req.GradeLevel != nil {
		student.GradeLevel = *req.GradeLevel
	}

	if err := s.students.Update(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) Delete(ctx context.Context, id uint) error {
	if err := s.students.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	return nil
}
