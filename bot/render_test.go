package bot

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"lingo.chat/audio"
	"lingo.chat/dispatch"
	"lingo.chat/llm"
	"lingo.chat/session"
)

func TestRenderReadingPromptNumbersQuestions(t *testing.T) {
	out := renderReadingPrompt(dispatch.ReadingPrompt{
		Exercise: &llm.ReadingExercise{
			Text:      "A text.",
			Questions: []string{"one", "two", "three", "four", "five"},
		},
	})
	for i := 1; i <= 5; i++ {
		if !strings.Contains(out, fmt.Sprintf("%d. ", i)) {
			t.Errorf("missing question number %d in %q", i, out)
		}
	}
}

func TestRenderComprehensionReportMarks(t *testing.T) {
	out := renderComprehensionReport(dispatch.ComprehensionReport{
		Mode: session.PracticeReading,
		Evaluation: &llm.ReadingEvaluation{
			Score: 7,
			PerQuestion: []llm.QuestionResult{
				{Number: 1, Correct: true, Comment: "right"},
				{Number: 2, Correct: false, Comment: "wrong"},
			},
			OverallFeedback: "keep going",
		},
		Total: 7,
	})
	if !strings.Contains(out, "✅ 1.") || !strings.Contains(out, "❌ 2.") {
		t.Errorf("per-question marks missing: %q", out)
	}
	if !strings.Contains(out, "Score: 7/10") {
		t.Errorf("score line missing: %q", out)
	}
}

func TestRenderScoreCardClampsDisplay(t *testing.T) {
	out := renderScoreCard(3, 9999)
	if !strings.Contains(out, "500/500") {
		t.Errorf("display not clamped: %q", out)
	}
	if !strings.Contains(out, "Wordsmith") {
		t.Errorf("tier missing: %q", out)
	}
}

func TestRenderChatTurnWithCorrections(t *testing.T) {
	out := renderChatTurn(dispatch.ChatReply{
		Turn: &llm.ChatTurn{
			Reply:       "Sounds fun!",
			Translation: "Ça a l'air amusant !",
			Corrections: []llm.Correction{
				{Original: "I goed", Corrected: "I went", Explanation: "irregular past"},
			},
		},
		Transcript: "I goed to the park",
	})
	if !strings.Contains(out, "I heard:") {
		t.Errorf("transcript echo missing: %q", out)
	}
	if !strings.Contains(out, "I goed → I went") {
		t.Errorf("correction missing: %q", out)
	}
}

func TestErrorTextByKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("wrap: %w", audio.ErrDownload), "download"},
		{fmt.Errorf("wrap: %w", audio.ErrTranscription), "recording"},
		{fmt.Errorf("wrap: %w", llm.ErrUnavailable), "repeat"},
		{errors.New("anything else"), "try again"},
	}
	for _, c := range cases {
		got := errorText(c.err)
		if !strings.Contains(strings.ToLower(got), c.want) {
			t.Errorf("errorText(%v) = %q, want mention of %q", c.err, got, c.want)
		}
	}
}
