package dispatch

import (
	"lingo.chat/llm"
	"lingo.chat/session"
)

// Reply is the closed set of outcomes the dispatcher hands back to the
// transport layer for rendering.
type Reply interface {
	reply()
}

// NotConsumed means no mode claimed the event; the caller may route it
// elsewhere.
type NotConsumed struct{}

// ReadingPrompt presents a fresh reading exercise.
type ReadingPrompt struct {
	Exercise *llm.ReadingExercise
}

// ListeningPrompt presents a fresh listening exercise: the questions as
// text, the passage as synthesized audio.
type ListeningPrompt struct {
	Exercise *llm.ReadingExercise
	Audio    []byte
}

// SpeakingPrompt presents a fresh speaking exercise.
type SpeakingPrompt struct {
	Exercise *llm.SpeakingExercise
}

// ComprehensionReport carries a graded reading or listening submission.
type ComprehensionReport struct {
	Mode       session.PracticeType
	Evaluation *llm.ReadingEvaluation
	Total      int
}

// SpeakingReport carries a graded voice submission.
type SpeakingReport struct {
	Evaluation *llm.SpeakingEvaluation
	Transcript string
	Total      int
}

// ChatReply is one free conversation turn. Transcript is set when the turn
// came in as a voice note.
type ChatReply struct {
	Turn       *llm.ChatTurn
	Transcript string
}

// VoiceReminder tells the user a voice note, not text, is expected.
type VoiceReminder struct{}

func (NotConsumed) reply()         {}
func (ReadingPrompt) reply()       {}
func (ListeningPrompt) reply()     {}
func (SpeakingPrompt) reply()      {}
func (ComprehensionReport) reply() {}
func (SpeakingReport) reply()      {}
func (ChatReply) reply()           {}
func (VoiceReminder) reply()       {}
