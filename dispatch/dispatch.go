// Package dispatch routes inbound chat events (text, voice notes, mode
// selections) to the right mode controller based on the user's session
// state. All handling for one user is serialized through the session
// store's per-user lock, so rapid events cannot interleave.
package dispatch

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"lingo.chat/etc"
	"lingo.chat/practice"
	"lingo.chat/session"
)

// Transcriber is the audio ingestion boundary: a remote voice note URL in,
// a transcript out. Satisfied by *audio.Pipeline.
type Transcriber interface {
	Transcribe(ctx context.Context, remoteURL string) (string, error)
}

type Dispatcher struct {
	sessions  *session.Store
	reading   *practice.Comprehension
	listening *practice.Comprehension
	speaking  *practice.Speaking
	free      *practice.FreeChat
	pipeline  Transcriber
	log       *log.Logger
}

func New(
	sessions *session.Store,
	reading, listening *practice.Comprehension,
	speaking *practice.Speaking,
	free *practice.FreeChat,
	pipeline Transcriber,
	logger *log.Logger,
) *Dispatcher {
	return &Dispatcher{
		sessions:  sessions,
		reading:   reading,
		listening: listening,
		speaking:  speaking,
		free:      free,
		pipeline:  pipeline,
		log:       logger,
	}
}

// OnModeSelected activates a practice mode and starts it. A failed start
// leaves the mode selected but idle; selecting it again retries safely.
func (d *Dispatcher) OnModeSelected(ctx context.Context, userID int64, mode session.PracticeType) (Reply, error) {
	event := etc.NewFreshID()
	d.log.Info("mode selected", "event", event, "user", userID, "mode", mode)

	var reply Reply
	err := d.sessions.With(ctx, userID, func(sess *session.Session) error {
		sess.SwitchTo(mode)

		switch mode {
		case session.PracticeReading:
			prompt, err := d.reading.Start(ctx, sess)
			if err != nil {
				return err
			}
			reply = ReadingPrompt{Exercise: prompt.Exercise}
		case session.PracticeListening:
			prompt, err := d.listening.Start(ctx, sess)
			if err != nil {
				return err
			}
			reply = ListeningPrompt{Exercise: prompt.Exercise, Audio: prompt.Audio}
		case session.PracticeSpeaking:
			ex, err := d.speaking.Start(ctx, sess)
			if err != nil {
				return err
			}
			reply = SpeakingPrompt{Exercise: ex}
		case session.PracticeFree:
			turn, err := d.free.Start(ctx, sess)
			if err != nil {
				return err
			}
			reply = ChatReply{Turn: turn}
		default:
			return fmt.Errorf("cannot select mode %q", mode)
		}
		return nil
	})
	if err != nil {
		d.log.Error("mode start failed", "event", event, "user", userID, "mode", mode, "error", err)
		return nil, err
	}
	return reply, nil
}

// OnText routes a text message. Returns NotConsumed when no mode claims
// the message, leaving it to the caller (menu commands and the like).
func (d *Dispatcher) OnText(ctx context.Context, userID int64, text string) (Reply, error) {
	event := etc.NewFreshID()

	var reply Reply
	err := d.sessions.With(ctx, userID, func(sess *session.Session) error {
		switch sess.Active {
		case session.PracticeFree:
			turn, err := d.free.HandleMessage(ctx, sess, text)
			if err != nil {
				return err
			}
			reply = ChatReply{Turn: turn}
			return nil

		case session.PracticeReading, session.PracticeListening:
			state := sess.Comprehension(sess.Active)
			if state.Phase != session.WaitingForAnswers {
				reply = NotConsumed{}
				return nil
			}
			controller := d.reading
			if sess.Active == session.PracticeListening {
				controller = d.listening
			}
			report, err := controller.Submit(ctx, sess, text)
			if err != nil {
				return err
			}
			reply = ComprehensionReport{Mode: sess.Active, Evaluation: report.Evaluation, Total: report.Total}
			return nil

		case session.PracticeSpeaking:
			if sess.Speaking.Phase == session.WaitingForVoice {
				// Text cannot satisfy a voice requirement; no state change.
				reply = VoiceReminder{}
				return nil
			}
			reply = NotConsumed{}
			return nil

		default:
			reply = NotConsumed{}
			return nil
		}
	})
	if err != nil {
		d.log.Error("text handling failed", "event", event, "user", userID, "error", err)
		return nil, err
	}
	return reply, nil
}

// OnVoice routes a voice note. The note is downloaded and transcribed only
// when the session state will actually consume it.
func (d *Dispatcher) OnVoice(ctx context.Context, userID int64, audioURL string) (Reply, error) {
	event := etc.NewFreshID()
	d.log.Info("voice note received", "event", event, "user", userID)

	var reply Reply
	err := d.sessions.With(ctx, userID, func(sess *session.Session) error {
		switch {
		case sess.Active == session.PracticeFree:
			transcript, err := d.pipeline.Transcribe(ctx, audioURL)
			if err != nil {
				return err
			}
			turn, err := d.free.HandleMessage(ctx, sess, transcript)
			if err != nil {
				return err
			}
			reply = ChatReply{Turn: turn, Transcript: transcript}
			return nil

		case sess.Active == session.PracticeSpeaking &&
			sess.Speaking.Phase == session.WaitingForVoice:
			transcript, err := d.pipeline.Transcribe(ctx, audioURL)
			if err != nil {
				return err
			}
			report, err := d.speaking.SubmitVoice(ctx, sess, transcript)
			if err != nil {
				return err
			}
			reply = SpeakingReport{Evaluation: report.Evaluation, Transcript: transcript, Total: report.Total}
			return nil

		default:
			reply = NotConsumed{}
			return nil
		}
	})
	if err != nil {
		d.log.Error("voice handling failed", "event", event, "user", userID, "error", err)
		return nil, err
	}
	return reply, nil
}

// Reset discards the user's session and persisted progress.
func (d *Dispatcher) Reset(ctx context.Context, userID int64) {
	d.log.Info("session reset", "user", userID)
	d.sessions.Reset(ctx, userID)
}

// SetLevel records the user's difficulty level.
func (d *Dispatcher) SetLevel(ctx context.Context, userID int64, level int) error {
	if level < session.MinLevel || level > session.MaxLevel {
		return fmt.Errorf("level must be %d..%d", session.MinLevel, session.MaxLevel)
	}
	return d.sessions.With(ctx, userID, func(sess *session.Session) error {
		sess.Level = level
		return nil
	})
}

// Progress reports the user's level and raw running total.
func (d *Dispatcher) Progress(ctx context.Context, userID int64) (level, total int) {
	_ = d.sessions.With(ctx, userID, func(sess *session.Session) error {
		level = sess.Level
		total = sess.Stats.TotalScore
		return nil
	})
	return level, total
}
