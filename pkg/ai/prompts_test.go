package ai

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEssayGradingPromptEmbedsRubricJSON(t *testing.T) {
	rubric := map[string]interface{}{"Clarity": "30 points"}

	prompt, system := EssayGradingPrompt("My essay.", rubric, 100)
	require.Contains(t, prompt, `"Clarity": "30 points"`)
	require.Contains(t, prompt, "My essay.")
	require.Contains(t, prompt, "out of 100")
	require.Contains(t, system, "grading essays")
}

func TestEssayGradingPromptWithoutRubric(t *testing.T) {
	prompt, _ := EssayGradingPrompt("text", nil, 50)
	require.Contains(t, prompt, "Standard essay rubric")
	require.Contains(t, prompt, "out of 50")
}

func TestLessonPlanPrompt(t *testing.T) {
	prompt, system := LessonPlanPrompt("Fractions", "5th", 45, []string{"Add fractions", "Compare fractions"})
	require.Contains(t, prompt, "TOPIC: Fractions")
	require.Contains(t, prompt, "GRADE LEVEL: 5th")
	require.Contains(t, prompt, "DURATION: 45 minutes")
	require.Contains(t, prompt, "Add fractions\nCompare fractions")
	require.Contains(t, system, "Respond ONLY with valid JSON")
}

func TestLessonPlanPromptDefaultObjectives(t *testing.T) {
	prompt, _ := LessonPlanPrompt("Cells", "7th", 60, nil)
	require.Contains(t, prompt, "Create appropriate objectives")
}

func TestQuizPrompt(t *testing.T) {
	prompt, _ := QuizPrompt("World War II", 8, "hard")
	require.Contains(t, prompt, "Create 8 quiz questions about: World War II")
	require.Contains(t, prompt, "Difficulty level: hard")
	require.Contains(t, prompt, `"question_type"`)
}

func TestAssignmentQuestionsPrompt(t *testing.T) {
	prompt, system := AssignmentQuestionsPrompt("Algebra", "Solve linear equations", 4, "problem_solving")
	require.Contains(t, prompt, "Create 4 problem_solving questions")
	require.Contains(t, prompt, "TOPIC: Algebra")
	require.Contains(t, prompt, "DESCRIPTION: Solve linear equations")
	require.Contains(t, system, "model answers")
}

func TestAnswerSheetPrompt(t *testing.T) {
	questions := []AssignmentQuestion{
		{QuestionNumber: 1, QuestionText: "What is 2+2?", ModelAnswer: "4", KeyPoints: []string{"arithmetic"}, Points: 5},
		{QuestionNumber: 2, QuestionText: "Name a prime.", ModelAnswer: "2"},
	}

	prompt, _ := AnswerSheetPrompt("1. four\n2. seven", questions, 15)
	require.Contains(t, prompt, "Question 1: What is 2+2?")
	require.Contains(t, prompt, "Points: 5")
	// unset question points default to 10
	require.Contains(t, prompt, "Points: 10")
	require.Contains(t, prompt, "1. four\n2. seven")
	require.Contains(t, prompt, `"max_total_score": 15`)
}
