package practice

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"lingo.chat/llm"
	"lingo.chat/session"
	"lingo.chat/tts"
)

// Comprehension drives the reading and listening modes, which share one
// state machine: idle → waiting for answers → idle. Listening additionally
// synthesizes the exercise text to audio before presenting it.
type Comprehension struct {
	kind    session.PracticeType
	gateway llm.Gateway
	speech  tts.SpeechGenerator // nil for reading
	log     *log.Logger
}

func NewReading(gateway llm.Gateway, logger *log.Logger) *Comprehension {
	return &Comprehension{
		kind:    session.PracticeReading,
		gateway: gateway,
		log:     logger,
	}
}

func NewListening(gateway llm.Gateway, speech tts.SpeechGenerator, logger *log.Logger) *Comprehension {
	return &Comprehension{
		kind:    session.PracticeListening,
		gateway: gateway,
		speech:  speech,
		log:     logger,
	}
}

func (c *Comprehension) Kind() session.PracticeType {
	return c.kind
}

// Prompt is a freshly started comprehension exercise. Audio carries the
// synthesized passage for listening mode and is nil for reading.
type Prompt struct {
	Exercise *llm.ReadingExercise
	Audio    []byte
}

// Report is the outcome of a graded submission.
type Report struct {
	Evaluation *llm.ReadingEvaluation
	Total      int
}

// Start generates a fresh exercise and moves the mode to waiting for
// answers. On any failure the session is left exactly as it was, so the
// user can simply retry.
func (c *Comprehension) Start(ctx context.Context, sess *session.Session) (*Prompt, error) {
	level := sess.LevelOrDefault()

	ex, err := c.gateway.GenerateReading(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("generate %s exercise: %w", c.kind, err)
	}

	var audio []byte
	if c.speech != nil {
		audio, err = c.speech.Synthesize(ctx, ex.Text)
		if err != nil {
			return nil, fmt.Errorf("synthesize %s exercise: %w", c.kind, err)
		}
	}

	state := sess.Comprehension(c.kind)
	state.Exercise = ex
	state.Phase = session.WaitingForAnswers

	c.log.Info("exercise started", "mode", c.kind, "user", sess.UserID, "level", level)
	return &Prompt{Exercise: ex, Audio: audio}, nil
}

// Submit grades the user's answers against the active exercise. On success
// the score is applied and the mode returns to idle, keeping the exercise
// for reference. On failure the mode stays waiting so the user can resubmit.
func (c *Comprehension) Submit(ctx context.Context, sess *session.Session, answers string) (*Report, error) {
	state := sess.Comprehension(c.kind)
	if state.Exercise == nil {
		return nil, ErrNoActiveExercise
	}

	ev, err := c.gateway.EvaluateReading(ctx, sess.LevelOrDefault(), state.Exercise, answers)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s answers: %w", c.kind, err)
	}

	sess.ApplyScore(float64(ev.Score))
	state.Phase = session.ComprehensionIdle

	c.log.Info("answers graded",
		"mode", c.kind, "user", sess.UserID,
		"score", ev.Score, "total", sess.Stats.TotalScore)
	return &Report{Evaluation: ev, Total: sess.Stats.TotalScore}, nil
}
