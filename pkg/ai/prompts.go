package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Prompt builders. Each is a pure function returning the user prompt and the
// system instructions for one generation task. Every prompt pins the exact
// JSON schema the model must reply with; the extractor in extract.go is the
// counterpart that tolerates the model not fully complying.

const essayGradingSystem = `You are an experienced teacher assistant specializing in grading essays.
Provide detailed, constructive feedback that helps students improve their writing.
Be fair, consistent, and encouraging in your assessments.`

// EssayGradingPrompt builds the prompt for grading an essay against a rubric.
// The rubric is embedded structurally as indented JSON, not prose.
func EssayGradingPrompt(essay string, rubric map[string]interface{}, maxPoints float64) (string, string) {
	rubricStr := "Standard essay rubric"
	if len(rubric) > 0 {
		if encoded, err := json.MarshalIndent(rubric, "", "  "); err == nil {
			rubricStr = string(encoded)
		}
	}

	prompt := fmt.Sprintf(`Grade the following essay based on this rubric:

RUBRIC:
%s

ESSAY:
%s

Provide your response in the following JSON format:
{
    "overall_score": <number out of %g>,
    "rubric_scores": {
        "criterion_name": {"score": <number>, "feedback": "<specific feedback>"},
        ...
    },
    "strengths": ["<strength 1>", "<strength 2>", ...],
    "areas_for_improvement": ["<area 1>", "<area 2>", ...],
    "detailed_feedback": "<comprehensive feedback paragraph>"
}`, rubricStr, essay, maxPoints)

	return prompt, essayGradingSystem
}

const lessonPlanSystem = `You are an expert curriculum designer and educator.
Create engaging, standards-aligned lesson plans that promote active learning and critical thinking.
IMPORTANT: Respond ONLY with valid JSON. Do not include any text before or after the JSON object.`

// LessonPlanPrompt builds the prompt for generating a lesson plan.
func LessonPlanPrompt(topic, gradeLevel string, duration int, objectives []string) (string, string) {
	objectivesStr := "Create appropriate objectives"
	if len(objectives) > 0 {
		objectivesStr = strings.Join(objectives, "\n")
	}

	prompt := fmt.Sprintf(`Create a detailed lesson plan for:

TOPIC: %s
GRADE LEVEL: %s
DURATION: %d minutes
LEARNING OBJECTIVES: %s

IMPORTANT: Return ONLY the JSON object, with no additional text before or after.

Provide your response EXACTLY in this JSON format (use proper JSON array syntax with square brackets for lists):
{
    "title": "<lesson title>",
    "objectives": ["<objective 1>", "<objective 2>", ...],
    "materials": ["<material 1>", "<material 2>", ...],
    "activities": [
        {
            "name": "<activity name>",
            "duration": <minutes>,
            "description": "<detailed description>",
            "type": "<warmup|instruction|practice|assessment|closure>"
        },
        ...
    ],
    "content": "<detailed lesson content and teaching notes>",
    "standards_aligned": ["<standard 1>", "<standard 2>", ...],
    "differentiation": "<strategies for diverse learners>",
    "assessment": "<how to assess student learning>"
}`, topic, gradeLevel, duration, objectivesStr)

	return prompt, lessonPlanSystem
}

const quizSystem = `You are an expert at creating educational assessments.
Create clear, fair questions that accurately test student understanding.`

// QuizPrompt builds the prompt for generating quiz questions on a topic.
func QuizPrompt(topic string, numQuestions int, difficulty string) (string, string) {
	prompt := fmt.Sprintf(`Create %d quiz questions about: %s

Difficulty level: %s

Include a mix of multiple choice, true/false, and short answer questions.

Provide your response in the following JSON format:
{
    "questions": [
        {
            "question": "<question text>",
            "question_type": "<multiple_choice|true_false|short_answer>",
            "options": ["<option 1>", "<option 2>", ...],
            "correct_answer": "<correct answer>",
            "explanation": "<why this is correct>",
            "points": 1.0
        },
        ...
    ]
}`, numQuestions, topic, difficulty)

	return prompt, quizSystem
}

const assignmentQuestionsSystem = `You are an experienced teacher creating assignment questions.
Create thoughtful questions that assess deep understanding of the material.
Provide model answers for grading reference.`

// AssignmentQuestionsPrompt builds the prompt for generating assignment
// questions with model answers and key points.
func AssignmentQuestionsPrompt(topic, description string, numQuestions int, questionType string) (string, string) {
	prompt := fmt.Sprintf(`Create %d %s questions for this assignment:

TOPIC: %s
DESCRIPTION: %s

Generate questions that are:
- Clear and specific
- Appropriately challenging
- Aligned with the topic

Provide your response in the following JSON format:
{
    "questions": [
        {
            "question_number": 1,
            "question_text": "<question text>",
            "model_answer": "<ideal answer>",
            "key_points": ["<key point 1>", "<key point 2>", ...],
            "points": <points for this question>
        },
        ...
    ]
}`, numQuestions, questionType, topic, description)

	return prompt, assignmentQuestionsSystem
}

const answerSheetSystem = `You are an expert teacher grading assignments.
Analyze the answer sheet, identify which answer corresponds to which question,
grade each answer, and provide constructive feedback.`

// AnswerSheetPrompt builds the prompt for parsing a raw answer sheet and
// grading it against the question set. The model performs the alignment of
// unstructured answers to numbered questions, which is a known reliability
// risk rather than a guarantee.
func AnswerSheetPrompt(answerSheet string, questions []AssignmentQuestion, maxPoints float64) (string, string) {
	blocks := make([]string, 0, len(questions))
	for _, q := range questions {
		points := q.Points
		if points <= 0 {
			points = 10
		}
		blocks = append(blocks, fmt.Sprintf("Question %d: %s\nModel Answer: %s\nKey Points: %s\nPoints: %g",
			q.QuestionNumber, q.QuestionText, q.ModelAnswer, strings.Join(q.KeyPoints, ", "), points))
	}

	prompt := fmt.Sprintf(`Grade this student's answer sheet by matching their answers to the questions.

QUESTIONS:
%s

STUDENT'S ANSWER SHEET:
%s

Your task:
1. Parse the answer sheet and identify which answer corresponds to which question
2. Grade each answer based on the model answer and key points
3. Provide specific feedback for each answer
4. Calculate the total score

Provide your response in the following JSON format:
{
    "parsed_answers": [
        {
            "question_number": <number>,
            "student_answer": "<extracted answer>",
            "score": <points earned>,
            "max_score": <points possible>,
            "feedback": "<specific feedback>",
            "key_points_addressed": ["<point 1>", "<point 2>", ...]
        },
        ...
    ],
    "total_score": <total points earned>,
    "max_total_score": %g,
    "percentage": <percentage score>,
    "overall_feedback": "<general comments on the submission>",
    "strengths": ["<strength 1>", "<strength 2>", ...],
    "areas_for_improvement": ["<area 1>", "<area 2>", ...]
}`, strings.Join(blocks, "\n\n"), answerSheet, maxPoints)

	return prompt, answerSheetSystem
}
