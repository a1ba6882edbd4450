package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuestionCount is how many comprehension questions an exercise carries.
const QuestionCount = 5

func decode(raw string, v any) error {
	// Some models wrap JSON in a markdown fence despite the response format.
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func validScore(score int) bool {
	return score >= 1 && score <= 10
}

func ParseReadingExercise(raw string) (*ReadingExercise, error) {
	var ex ReadingExercise
	if err := decode(raw, &ex); err != nil {
		return nil, err
	}
	if ex.Text == "" {
		return nil, fmt.Errorf("%w: exercise has no text", ErrMalformed)
	}
	if len(ex.Questions) != QuestionCount {
		return nil, fmt.Errorf(
			"%w: expected %d questions, got %d",
			ErrMalformed, QuestionCount, len(ex.Questions),
		)
	}
	return &ex, nil
}

func ParseReadingEvaluation(raw string) (*ReadingEvaluation, error) {
	var ev ReadingEvaluation
	if err := decode(raw, &ev); err != nil {
		return nil, err
	}
	if !validScore(ev.Score) {
		return nil, fmt.Errorf("%w: score %d out of range", ErrMalformed, ev.Score)
	}
	return &ev, nil
}

func ParseSpeakingExercise(raw string) (*SpeakingExercise, error) {
	var ex SpeakingExercise
	if err := decode(raw, &ex); err != nil {
		return nil, err
	}
	if ex.Topic == "" {
		return nil, fmt.Errorf("%w: exercise has no topic", ErrMalformed)
	}
	return &ex, nil
}

func ParseSpeakingEvaluation(raw string) (*SpeakingEvaluation, error) {
	var ev SpeakingEvaluation
	if err := decode(raw, &ev); err != nil {
		return nil, err
	}
	if !validScore(ev.Score) {
		return nil, fmt.Errorf("%w: score %d out of range", ErrMalformed, ev.Score)
	}
	return &ev, nil
}

func ParseChatTurn(raw string) (*ChatTurn, error) {
	var turn ChatTurn
	if err := decode(raw, &turn); err != nil {
		return nil, err
	}
	if turn.Reply == "" {
		return nil, fmt.Errorf("%w: chat turn has no reply", ErrMalformed)
	}
	if len(turn.Corrections) > MaxCorrections {
		turn.Corrections = turn.Corrections[:MaxCorrections]
	}
	return &turn, nil
}
