package ai

import "strconv"

// CriterionScore is the model's verdict for a single rubric criterion.
type CriterionScore struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// EssayGrade is the structured result of grading an essay against a rubric.
type EssayGrade struct {
	Score               float64                   `json:"score"`
	Feedback            string                    `json:"feedback"`
	RubricScores        map[string]CriterionScore `json:"rubric_scores"`
	Strengths           []string                  `json:"strengths"`
	AreasForImprovement []string                  `json:"areas_for_improvement"`
}

// Activity is a single block inside a lesson plan.
type Activity struct {
	Name        string `json:"name"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// LessonPlan is a generated lesson plan.
type LessonPlan struct {
	Title            string     `json:"title"`
	Objectives       []string   `json:"objectives"`
	Materials        []string   `json:"materials"`
	Activities       []Activity `json:"activities"`
	Content          string     `json:"content"`
	StandardsAligned []string   `json:"standards_aligned"`
	Differentiation  string     `json:"differentiation"`
	Assessment       string     `json:"assessment"`
}

// QuizQuestion is a single generated quiz question with its answer key.
type QuizQuestion struct {
	Question      string   `json:"question"`
	QuestionType  string   `json:"question_type"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
	Points        float64  `json:"points"`
}

// AssignmentQuestion is a generated assignment question with grading reference.
type AssignmentQuestion struct {
	QuestionNumber int      `json:"question_number"`
	QuestionText   string   `json:"question_text"`
	ModelAnswer    string   `json:"model_answer"`
	KeyPoints      []string `json:"key_points"`
	Points         float64  `json:"points"`
}

// ParsedAnswer is one student answer the model matched to a question and graded.
type ParsedAnswer struct {
	QuestionNumber     int      `json:"question_number"`
	StudentAnswer      string   `json:"student_answer"`
	Score              float64  `json:"score"`
	MaxScore           float64  `json:"max_score"`
	Feedback           string   `json:"feedback"`
	KeyPointsAddressed []string `json:"key_points_addressed"`
}

// AnswerSheetGrade is the structured result of parsing and grading a full
// answer sheet. The question-to-answer alignment is performed by the model and
// is best effort, not guaranteed.
type AnswerSheetGrade struct {
	ParsedAnswers       []ParsedAnswer `json:"parsed_answers"`
	TotalScore          float64        `json:"total_score"`
	MaxTotalScore       float64        `json:"max_total_score"`
	Percentage          float64        `json:"percentage"`
	OverallFeedback     string         `json:"overall_feedback"`
	Strengths           []string       `json:"strengths"`
	AreasForImprovement []string       `json:"areas_for_improvement"`
}

// RubricScores maps parsed answers to per-question criterion scores keyed as
// "Question N", matching the layout of essay rubric scores.
func (g AnswerSheetGrade) RubricScores() map[string]CriterionScore {
	scores := make(map[string]CriterionScore, len(g.ParsedAnswers))
	for _, answer := range g.ParsedAnswers {
		key := "Question " + strconv.Itoa(answer.QuestionNumber)
		scores[key] = CriterionScore{Score: answer.Score, Feedback: answer.Feedback}
	}
	return scores
}
