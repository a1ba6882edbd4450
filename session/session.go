// Package session holds the per-user state of the tutor: the selected
// level, the active practice mode, each mode's sub-state, and the running
// score. Sessions are owned by the Store and mutated only under its
// per-user lock.
package session

import (
	"lingo.chat/llm"
	"lingo.chat/score"
)

type PracticeType int

const (
	PracticeNone PracticeType = iota
	PracticeReading
	PracticeListening
	PracticeSpeaking
	PracticeFree
)

func (p PracticeType) String() string {
	switch p {
	case PracticeReading:
		return "reading"
	case PracticeListening:
		return "listening"
	case PracticeSpeaking:
		return "speaking"
	case PracticeFree:
		return "free"
	default:
		return "none"
	}
}

// ComprehensionPhase is the sub-state of a reading or listening mode.
type ComprehensionPhase int

const (
	ComprehensionIdle ComprehensionPhase = iota
	WaitingForAnswers
)

// SpeakingPhase is the sub-state of the speaking mode.
type SpeakingPhase int

const (
	SpeakingIdle SpeakingPhase = iota
	WaitingForVoice
)

type Comprehension struct {
	Phase    ComprehensionPhase
	Exercise *llm.ReadingExercise
}

type Speaking struct {
	Phase          SpeakingPhase
	Exercise       *llm.SpeakingExercise
	LastTranscript string
}

type Stats struct {
	TotalScore int
}

const (
	MinLevel     = 1
	MaxLevel     = 6
	defaultLevel = 1
)

type Session struct {
	UserID    int64
	Level     int // MinLevel..MaxLevel, 0 while unset
	Active    PracticeType
	Stats     Stats
	Reading   Comprehension
	Listening Comprehension
	Speaking  Speaking
}

func New(userID int64) *Session {
	return &Session{UserID: userID}
}

// LevelOrDefault returns the selected level, falling back to the easiest
// one while the user has not picked any.
func (s *Session) LevelOrDefault() int {
	if s.Level < MinLevel || s.Level > MaxLevel {
		return defaultLevel
	}
	return s.Level
}

// Comprehension returns the sub-state for a comprehension practice type,
// or nil for any other type.
func (s *Session) Comprehension(p PracticeType) *Comprehension {
	switch p {
	case PracticeReading:
		return &s.Reading
	case PracticeListening:
		return &s.Listening
	default:
		return nil
	}
}

// SwitchTo activates a practice type. Every other mode's sub-state drops
// back to idle; their last exercises stay around for reference, so
// re-entering a mode is a no-op until a new exercise is started.
func (s *Session) SwitchTo(p PracticeType) {
	s.Active = p
	if p != PracticeReading {
		s.Reading.Phase = ComprehensionIdle
	}
	if p != PracticeListening {
		s.Listening.Phase = ComprehensionIdle
	}
	if p != PracticeSpeaking {
		s.Speaking.Phase = SpeakingIdle
	}
}

// ApplyScore folds an evaluation score into the running total.
func (s *Session) ApplyScore(delta float64) {
	s.Stats.TotalScore = score.ApplyDelta(s.Stats.TotalScore, delta)
}
