package llm

import (
	"fmt"
	"strings"
)

// Prompt text lives here so the gateway code stays about plumbing. Each
// prompt pins the JSON shape the parser expects.

func levelName(level int) string {
	names := map[int]string{
		1: "A1 (beginner)",
		2: "A2 (elementary)",
		3: "B1 (intermediate)",
		4: "B2 (upper intermediate)",
		5: "C1 (advanced)",
		6: "C2 (proficient)",
	}
	if n, ok := names[level]; ok {
		return n
	}
	return "A1 (beginner)"
}

func readingExercisePrompt(level int) string {
	return fmt.Sprintf(
		`You are an English tutor. Write a short text suited to a %s learner, `+
			`followed by exactly %d comprehension questions about it. `+
			`Respond with JSON: {"text": string, "questions": [string, ...]}.`,
		levelName(level), QuestionCount,
	)
}

func readingEvaluationPrompt(level int) string {
	return fmt.Sprintf(
		`You are an English tutor grading a %s learner's answers to comprehension `+
			`questions. Respond with JSON: {"score": integer 1-10, "per_question": `+
			`[{"number": int, "correct": bool, "comment": string}], "overall_feedback": string}.`,
		levelName(level),
	)
}

func readingEvaluationInput(ex *ReadingExercise, answers string) string {
	var b strings.Builder
	b.WriteString("Text:\n")
	b.WriteString(ex.Text)
	b.WriteString("\n\nQuestions:\n")
	for i, q := range ex.Questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	b.WriteString("\nLearner's answers:\n")
	b.WriteString(answers)
	return b.String()
}

func speakingExercisePrompt(level int) string {
	return fmt.Sprintf(
		`You are an English tutor. Propose a speaking topic for a %s learner. `+
			`Respond with JSON: {"topic": string, "prompt_target": string written in English, `+
			`"prompt_explain": string explaining the task in simple words}.`,
		levelName(level),
	)
}

func speakingEvaluationPrompt(level int) string {
	return fmt.Sprintf(
		`You are an English tutor grading a %s learner's spoken answer (transcribed). `+
			`Respond with JSON: {"score": integer 1-10, "feedback": string, "sample_answer": string}.`,
		levelName(level),
	)
}

func speakingEvaluationInput(ex *SpeakingExercise, transcript string) string {
	return fmt.Sprintf(
		"Topic: %s\nTask: %s\nExplanation: %s\n\nTranscript of the learner's answer:\n%s",
		ex.Topic, ex.PromptTarget, ex.PromptExplain, transcript,
	)
}

func chatPrompt(level int) string {
	return fmt.Sprintf(
		`You are a friendly English conversation partner for a %s learner. `+
			`Keep the conversation going with a short reply and a question. `+
			`Respond with JSON: {"reply": string, "translation": string (the reply in the `+
			`learner's native language), "corrections": [{"original": string, "corrected": `+
			`string, "explanation": string}] for up to %d mistakes in the learner's message}.`,
		levelName(level), MaxCorrections,
	)
}
