package practice

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"lingo.chat/llm"
	"lingo.chat/session"
)

// Speaking drives the voice evaluation mode: idle → waiting for a voice
// note → idle.
type Speaking struct {
	gateway llm.Gateway
	log     *log.Logger
}

func NewSpeaking(gateway llm.Gateway, logger *log.Logger) *Speaking {
	return &Speaking{gateway: gateway, log: logger}
}

type SpeakingReport struct {
	Evaluation *llm.SpeakingEvaluation
	Total      int
}

// Start generates a fresh speaking exercise. The previous transcript is
// cleared only once the new exercise is in hand; a failed generation
// leaves the session untouched.
func (s *Speaking) Start(ctx context.Context, sess *session.Session) (*llm.SpeakingExercise, error) {
	level := sess.LevelOrDefault()

	ex, err := s.gateway.GenerateSpeaking(ctx, level)
	if err != nil {
		return nil, fmt.Errorf("generate speaking exercise: %w", err)
	}

	sess.Speaking.Exercise = ex
	sess.Speaking.Phase = session.WaitingForVoice
	sess.Speaking.LastTranscript = ""

	s.log.Info("speaking exercise started", "user", sess.UserID, "level", level)
	return ex, nil
}

// SubmitVoice grades a transcript of the user's voice note. The transcript
// is stored before the evaluation call so a later failure never loses it;
// on failure the mode stays waiting and the user can resend a voice note.
func (s *Speaking) SubmitVoice(ctx context.Context, sess *session.Session, transcript string) (*SpeakingReport, error) {
	if sess.Speaking.Exercise == nil {
		return nil, ErrNoActiveExercise
	}

	sess.Speaking.LastTranscript = transcript

	ev, err := s.gateway.EvaluateSpeaking(ctx, sess.LevelOrDefault(), sess.Speaking.Exercise, transcript)
	if err != nil {
		return nil, fmt.Errorf("evaluate speaking answer: %w", err)
	}

	sess.ApplyScore(float64(ev.Score))
	sess.Speaking.Phase = session.SpeakingIdle

	s.log.Info("voice answer graded",
		"user", sess.UserID, "score", ev.Score, "total", sess.Stats.TotalScore)
	return &SpeakingReport{Evaluation: ev, Total: sess.Stats.TotalScore}, nil
}
