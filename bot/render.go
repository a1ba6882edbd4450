package bot

import (
	"errors"
	"fmt"
	"strings"

	"lingo.chat/audio"
	"lingo.chat/dispatch"
	"lingo.chat/llm"
	"lingo.chat/score"
	"lingo.chat/session"
)

const welcomeText = `Hi! I'm your English practice buddy. 🇬🇧

Pick a mode on the keyboard below, set your difficulty with /level 1..6,
and check your progress any time with /score.`

func renderReadingPrompt(r dispatch.ReadingPrompt) string {
	var b strings.Builder
	b.WriteString("📖 Read this:\n\n")
	b.WriteString(r.Exercise.Text)
	b.WriteString("\n\nNow answer these questions:\n")
	writeQuestions(&b, r.Exercise.Questions)
	b.WriteString("\nSend all your answers in one message.")
	return b.String()
}

func renderListeningPrompt(r dispatch.ListeningPrompt) string {
	var b strings.Builder
	b.WriteString("🎧 Listen to the recording above, then answer:\n")
	writeQuestions(&b, r.Exercise.Questions)
	b.WriteString("\nSend all your answers in one message.")
	return b.String()
}

func writeQuestions(b *strings.Builder, questions []string) {
	for i, q := range questions {
		fmt.Fprintf(b, "%d. %s\n", i+1, q)
	}
}

func renderSpeakingPrompt(r dispatch.SpeakingPrompt) string {
	return fmt.Sprintf(
		"🗣 Topic: %s\n\n%s\n\n%s\n\nRecord a voice note with your answer!",
		r.Exercise.Topic, r.Exercise.PromptTarget, r.Exercise.PromptExplain,
	)
}

func renderComprehensionReport(r dispatch.ComprehensionReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Score: %d/10\n\n", r.Evaluation.Score)
	for _, q := range r.Evaluation.PerQuestion {
		mark := "❌"
		if q.Correct {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", mark, q.Number, q.Comment)
	}
	if r.Evaluation.OverallFeedback != "" {
		b.WriteString("\n")
		b.WriteString(r.Evaluation.OverallFeedback)
	}
	b.WriteString("\n\n")
	b.WriteString(renderProgress(r.Total))
	mode := buttonReading
	if r.Mode == session.PracticeListening {
		mode = buttonListening
	}
	fmt.Fprintf(&b, "\nTap %q for another round!", mode)
	return b.String()
}

func renderSpeakingReport(r dispatch.SpeakingReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I heard: “%s”\n\n", r.Transcript)
	fmt.Fprintf(&b, "Score: %d/10\n\n%s\n", r.Evaluation.Score, r.Evaluation.Feedback)
	if r.Evaluation.SampleAnswer != "" {
		fmt.Fprintf(&b, "\nA sample answer:\n%s\n", r.Evaluation.SampleAnswer)
	}
	b.WriteString("\n")
	b.WriteString(renderProgress(r.Total))
	return b.String()
}

func renderChatTurn(r dispatch.ChatReply) string {
	var b strings.Builder
	if r.Transcript != "" {
		fmt.Fprintf(&b, "I heard: “%s”\n\n", r.Transcript)
	}
	b.WriteString(r.Turn.Reply)
	if r.Turn.Translation != "" {
		fmt.Fprintf(&b, "\n\n(%s)", r.Turn.Translation)
	}
	if len(r.Turn.Corrections) > 0 {
		b.WriteString("\n\n✏️ A few notes:\n")
		for _, c := range r.Turn.Corrections {
			fmt.Fprintf(&b, "• %s → %s (%s)\n", c.Original, c.Corrected, c.Explanation)
		}
	}
	return b.String()
}

func renderProgress(total int) string {
	clamped := score.DisplayClamp(total)
	return fmt.Sprintf("Progress: %s  %d/%d", score.RenderBar(clamped, 10), clamped, score.DisplayMax)
}

func renderScoreCard(level, total int) string {
	clamped := score.DisplayClamp(total)
	tier := score.TierOf(clamped)

	var b strings.Builder
	fmt.Fprintf(&b, "🏆 %s\n%s\n\n", tier.Name, tier.Description)
	fmt.Fprintf(&b, "%s  %d/%d\n", score.RenderBar(clamped, 10), clamped, score.DisplayMax)
	if level >= session.MinLevel {
		fmt.Fprintf(&b, "Level: %d\n", level)
	} else {
		b.WriteString("Level: not set — use /level 1..6\n")
	}
	return b.String()
}

func errorText(err error) string {
	switch {
	case errors.Is(err, audio.ErrDownload):
		return "I couldn't download that voice note. Please send it again."
	case errors.Is(err, audio.ErrTranscode), errors.Is(err, audio.ErrTranscription):
		return "I couldn't make out that recording. Please try once more."
	case errors.Is(err, llm.ErrUnavailable), errors.Is(err, llm.ErrMalformed):
		return "My tutor brain hiccuped. 🙈 Please repeat your last action."
	default:
		return "Something went wrong. Please try again."
	}
}
