package service

import "errors"

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrLessonPlanNotFound = errors.New("lesson plan not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrGradingInProgress  = errors.New("grading already in progress")
)
