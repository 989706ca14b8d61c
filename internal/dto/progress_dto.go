package dto

// StudentProgressResponse aggregates performance metrics for a student.
type StudentProgressResponse struct {
	StudentID        uint    `json:"student_id"`
	StudentName      string  `json:"student_name"`
	AverageScore     float64 `json:"average_score"`
	TotalSubmissions int     `json:"total_submissions"`
	TotalQuizzes     int     `json:"total_quizzes"`
	CompletionRate   float64 `json:"completion_rate"`
	RecentTrend      string  `json:"recent_trend"`
}
