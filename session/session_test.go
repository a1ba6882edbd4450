package session

import (
	"math"
	"testing"

	"lingo.chat/llm"
)

func TestSwitchToResetsOtherPhasesKeepsExercises(t *testing.T) {
	s := New(1)
	s.Reading.Exercise = &llm.ReadingExercise{Text: "t"}
	s.Reading.Phase = WaitingForAnswers
	s.Speaking.Exercise = &llm.SpeakingExercise{Topic: "travel"}
	s.Speaking.Phase = WaitingForVoice

	s.SwitchTo(PracticeListening)

	if s.Active != PracticeListening {
		t.Errorf("active = %v", s.Active)
	}
	if s.Reading.Phase != ComprehensionIdle {
		t.Errorf("reading phase not reset: %v", s.Reading.Phase)
	}
	if s.Speaking.Phase != SpeakingIdle {
		t.Errorf("speaking phase not reset: %v", s.Speaking.Phase)
	}
	if s.Reading.Exercise == nil || s.Speaking.Exercise == nil {
		t.Error("switching modes must not clear last exercises")
	}
}

func TestSwitchToIsIdempotentForActiveMode(t *testing.T) {
	s := New(1)
	s.SwitchTo(PracticeReading)
	s.Reading.Exercise = &llm.ReadingExercise{Text: "t"}
	s.Reading.Phase = WaitingForAnswers

	s.SwitchTo(PracticeReading)

	if s.Reading.Phase != WaitingForAnswers {
		t.Error("re-entering the active mode must not disturb its phase")
	}
}

func TestApplyScoreFloorsAtZero(t *testing.T) {
	s := New(1)
	s.ApplyScore(7)
	s.ApplyScore(-100)
	if s.Stats.TotalScore != 0 {
		t.Errorf("total = %d, want 0", s.Stats.TotalScore)
	}
	s.ApplyScore(math.NaN())
	if s.Stats.TotalScore != 0 {
		t.Errorf("NaN delta must be a no-op, total = %d", s.Stats.TotalScore)
	}
}

func TestLevelOrDefault(t *testing.T) {
	s := New(1)
	if got := s.LevelOrDefault(); got != 1 {
		t.Errorf("unset level defaults to 1, got %d", got)
	}
	s.Level = 4
	if got := s.LevelOrDefault(); got != 4 {
		t.Errorf("got %d, want 4", got)
	}
}

func TestComprehensionSelector(t *testing.T) {
	s := New(1)
	if s.Comprehension(PracticeReading) != &s.Reading {
		t.Error("reading selector mismatch")
	}
	if s.Comprehension(PracticeListening) != &s.Listening {
		t.Error("listening selector mismatch")
	}
	if s.Comprehension(PracticeSpeaking) != nil {
		t.Error("speaking has no comprehension state")
	}
}
