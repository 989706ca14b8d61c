package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Structured response extraction. Models wrap their JSON reply in prose more
// often than not, so every decoder slices the span between the first '{' and
// the last '}' and parses that. Extraction can never fail outright: when no
// object is found or the JSON does not parse, the decoder substitutes the
// task's deterministic fallback and reports extracted=false so callers can
// observe the degradation.

// extractObject locates the outermost JSON object span in raw model output.
func extractObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return strings.TrimSpace(raw[start : end+1]), true
}

func parseObject(raw string, target interface{}) bool {
	span, ok := extractObject(raw)
	if !ok {
		return false
	}
	return json.Unmarshal([]byte(span), target) == nil
}

// DecodeEssayGrade extracts an essay grade from raw model output.
// Fallback: 75% of maxPoints with the raw reply as feedback.
func DecodeEssayGrade(raw string, maxPoints float64) (EssayGrade, bool) {
	var payload struct {
		OverallScore        *float64                  `json:"overall_score"`
		RubricScores        map[string]CriterionScore `json:"rubric_scores"`
		Strengths           []string                  `json:"strengths"`
		AreasForImprovement []string                  `json:"areas_for_improvement"`
		DetailedFeedback    *string                   `json:"detailed_feedback"`
	}

	if !parseObject(raw, &payload) {
		return EssayGrade{
			Score:               maxPoints * 0.75,
			Feedback:            raw,
			RubricScores:        map[string]CriterionScore{},
			Strengths:           []string{},
			AreasForImprovement: []string{},
		}, false
	}

	grade := EssayGrade{
		Score:               maxPoints * 0.7,
		Feedback:            "Good work! Keep improving.",
		RubricScores:        payload.RubricScores,
		Strengths:           payload.Strengths,
		AreasForImprovement: payload.AreasForImprovement,
	}
	if payload.OverallScore != nil {
		grade.Score = *payload.OverallScore
	}
	if payload.DetailedFeedback != nil {
		grade.Feedback = *payload.DetailedFeedback
	}
	if grade.RubricScores == nil {
		grade.RubricScores = map[string]CriterionScore{}
	}
	if grade.Strengths == nil {
		grade.Strengths = []string{}
	}
	if grade.AreasForImprovement == nil {
		grade.AreasForImprovement = []string{}
	}

	return grade, true
}

// DecodeLessonPlan extracts a lesson plan from raw model output. A materials
// field delivered as comma-separated text instead of a list is normalized.
// Fallback: a minimal plan synthesized from the requested topic and objectives.
func DecodeLessonPlan(raw, topic string, objectives []string) (LessonPlan, bool) {
	var payload struct {
		Title            string          `json:"title"`
		Objectives       []string        `json:"objectives"`
		Materials        json.RawMessage `json:"materials"`
		Activities       []Activity      `json:"activities"`
		Content          string          `json:"content"`
		StandardsAligned []string        `json:"standards_aligned"`
		Differentiation  string          `json:"differentiation"`
		Assessment       string          `json:"assessment"`
	}

	if !parseObject(raw, &payload) {
		return fallbackLessonPlan(raw, topic, objectives), false
	}

	plan := LessonPlan{
		Title:            payload.Title,
		Objectives:       payload.Objectives,
		Materials:        decodeMaterials(payload.Materials),
		Activities:       payload.Activities,
		Content:          payload.Content,
		StandardsAligned: payload.StandardsAligned,
		Differentiation:  payload.Differentiation,
		Assessment:       payload.Assessment,
	}
	if plan.Title == "" {
		plan.Title = fmt.Sprintf("Lesson: %s", topic)
	}
	if plan.Objectives == nil {
		plan.Objectives = []string{}
	}
	if plan.Activities == nil {
		plan.Activities = []Activity{}
	}
	if plan.StandardsAligned == nil {
		plan.StandardsAligned = []string{}
	}

	return plan, true
}

// decodeMaterials accepts either a JSON list or a comma-separated string;
// small models frequently violate the schema only for this field.
func decodeMaterials(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return []string{}
	}

	materials := make([]string, 0)
	for _, part := range strings.Split(text, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			materials = append(materials, trimmed)
		}
	}
	return materials
}

func fallbackLessonPlan(raw, topic string, objectives []string) LessonPlan {
	if len(objectives) == 0 {
		objectives = []string{fmt.Sprintf("Understand %s", topic)}
	}

	content := "Lesson plan content"
	if len(raw) < 500 {
		content = raw
	}

	return LessonPlan{
		Title:      fmt.Sprintf("Lesson: %s", topic),
		Objectives: objectives,
		Materials:  []string{"Textbook", "Whiteboard", "Handouts"},
		Activities: []Activity{
			{
				Name:        "Introduction",
				Duration:    10,
				Description: fmt.Sprintf("Introduce %s", topic),
				Type:        "warmup",
			},
		},
		Content:          content,
		StandardsAligned: []string{},
		Differentiation:  "Provide support as needed",
		Assessment:       "Exit ticket",
	}
}

// DecodeQuizQuestions extracts generated quiz questions from raw model output.
// Fallback: a single short-answer placeholder question about the topic.
func DecodeQuizQuestions(raw, topic string) ([]QuizQuestion, bool) {
	var payload struct {
		Questions []QuizQuestion `json:"questions"`
	}

	if !parseObject(raw, &payload) {
		return []QuizQuestion{
			{
				Question:      fmt.Sprintf("Question about %s", topic),
				QuestionType:  "short_answer",
				Options:       []string{},
				CorrectAnswer: "Sample answer",
				Explanation:   "Explanation",
				Points:        1.0,
			},
		}, false
	}

	questions := payload.Questions
	if questions == nil {
		questions = []QuizQuestion{}
	}
	for i := range questions {
		if questions[i].Options == nil {
			questions[i].Options = []string{}
		}
	}

	return questions, true
}

// DecodeAssignmentQuestions extracts generated assignment questions.
// Fallback: numQuestions placeholder questions worth 10 points each.
func DecodeAssignmentQuestions(raw, topic string, numQuestions int) ([]AssignmentQuestion, bool) {
	var payload struct {
		Questions []AssignmentQuestion `json:"questions"`
	}

	if !parseObject(raw, &payload) {
		questions := make([]AssignmentQuestion, 0, numQuestions)
		for i := 0; i < numQuestions; i++ {
			questions = append(questions, AssignmentQuestion{
				QuestionNumber: i + 1,
				QuestionText:   fmt.Sprintf("Question %d about %s", i+1, topic),
				ModelAnswer:    "Model answer",
				KeyPoints:      []string{"Key point"},
				Points:         10,
			})
		}
		return questions, false
	}

	questions := payload.Questions
	if questions == nil {
		questions = []AssignmentQuestion{}
	}
	for i := range questions {
		if questions[i].KeyPoints == nil {
			questions[i].KeyPoints = []string{}
		}
	}

	return questions, true
}

// DecodeAnswerSheetGrade extracts an answer-sheet grading result.
// Fallback: 75% of maxPoints with generic encouraging feedback and no
// per-question breakdown.
func DecodeAnswerSheetGrade(raw string, maxPoints float64) (AnswerSheetGrade, bool) {
	var grade AnswerSheetGrade

	if !parseObject(raw, &grade) {
		return AnswerSheetGrade{
			ParsedAnswers:       []ParsedAnswer{},
			TotalScore:          maxPoints * 0.75,
			MaxTotalScore:       maxPoints,
			Percentage:          75.0,
			OverallFeedback:     "Answer sheet graded. Good effort overall.",
			Strengths:           []string{"Attempted all questions"},
			AreasForImprovement: []string{"Provide more detailed answers"},
		}, false
	}

	if grade.ParsedAnswers == nil {
		grade.ParsedAnswers = []ParsedAnswer{}
	}
	if grade.Strengths == nil {
		grade.Strengths = []string{}
	}
	if grade.AreasForImprovement == nil {
		grade.AreasForImprovement = []string{}
	}
	if grade.MaxTotalScore == 0 {
		grade.MaxTotalScore = maxPoints
	}

	return grade, true
}
