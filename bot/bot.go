// Package bot binds the tutor core to Telegram: it receives updates,
// translates them into dispatcher events, and renders the dispatcher's
// replies back into messages, voice notes, and keyboards. All state lives
// in the core; this package only translates.
package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"lingo.chat/dispatch"
	"lingo.chat/session"
)

const (
	buttonReading   = "📖 Reading"
	buttonListening = "🎧 Listening"
	buttonSpeaking  = "🗣 Speaking"
	buttonFreeChat  = "💬 Free chat"
)

var modeButtons = map[string]session.PracticeType{
	buttonReading:   session.PracticeReading,
	buttonListening: session.PracticeListening,
	buttonSpeaking:  session.PracticeSpeaking,
	buttonFreeChat:  session.PracticeFree,
}

type Bot struct {
	api        *tgbotapi.BotAPI
	dispatcher *dispatch.Dispatcher
	log        *log.Logger
}

func New(token string, dispatcher *dispatch.Dispatcher, logger *log.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	logger.Info("bot connected", "username", api.Self.UserName)
	return &Bot{api: api, dispatcher: dispatcher, log: logger}, nil
}

// Run consumes Telegram updates until ctx is cancelled. Each update is
// handled in its own goroutine; per-user ordering is the dispatcher's job.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.Chat.ID

	switch {
	case msg.IsCommand():
		b.handleCommand(ctx, userID, msg)

	case msg.Voice != nil:
		url, err := b.api.GetFileDirectURL(msg.Voice.FileID)
		if err != nil {
			b.log.Error("resolve voice file", "user", userID, "error", err)
			b.sendText(userID, "I couldn't fetch that voice note. Please send it again.")
			return
		}
		reply, err := b.dispatcher.OnVoice(ctx, userID, url)
		b.respond(userID, reply, err)

	case msg.Text != "":
		if mode, ok := modeButtons[msg.Text]; ok {
			b.sendText(userID, "One moment…")
			reply, err := b.dispatcher.OnModeSelected(ctx, userID, mode)
			b.respond(userID, reply, err)
			return
		}
		reply, err := b.dispatcher.OnText(ctx, userID, msg.Text)
		b.respond(userID, reply, err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, userID int64, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		out := tgbotapi.NewMessage(userID, welcomeText)
		out.ReplyMarkup = modeKeyboard()
		b.send(out)

	case "reset":
		b.dispatcher.Reset(ctx, userID)
		b.sendText(userID, "Fresh start! Your progress and score have been cleared.")

	case "score":
		level, total := b.dispatcher.Progress(ctx, userID)
		b.sendText(userID, renderScoreCard(level, total))

	case "level":
		arg := strings.TrimSpace(msg.CommandArguments())
		level, err := strconv.Atoi(arg)
		if err != nil {
			b.sendText(userID, "Usage: /level 1..6 (1 = beginner, 6 = proficient)")
			return
		}
		if err := b.dispatcher.SetLevel(ctx, userID, level); err != nil {
			b.sendText(userID, "Levels go from 1 (beginner) to 6 (proficient).")
			return
		}
		b.sendText(userID, "Level set. Pick a practice mode whenever you're ready!")

	default:
		b.sendText(userID, "I don't know that command. Try /start.")
	}
}

func (b *Bot) respond(userID int64, reply dispatch.Reply, err error) {
	if err != nil {
		b.sendText(userID, errorText(err))
		return
	}

	switch r := reply.(type) {
	case dispatch.ReadingPrompt:
		b.sendText(userID, renderReadingPrompt(r))
	case dispatch.ListeningPrompt:
		b.sendVoice(userID, r.Audio)
		b.sendText(userID, renderListeningPrompt(r))
	case dispatch.SpeakingPrompt:
		b.sendText(userID, renderSpeakingPrompt(r))
	case dispatch.ComprehensionReport:
		b.sendText(userID, renderComprehensionReport(r))
	case dispatch.SpeakingReport:
		b.sendText(userID, renderSpeakingReport(r))
	case dispatch.ChatReply:
		b.sendText(userID, renderChatTurn(r))
	case dispatch.VoiceReminder:
		b.sendText(userID, "This one needs your voice — record a voice note and send it over. 🎙")
	case dispatch.NotConsumed:
		b.sendText(userID, "Pick a practice mode first — the keyboard below has the options.")
	default:
		b.log.Error("unhandled reply type", "type", reply)
	}
}

func (b *Bot) sendText(userID int64, text string) {
	b.send(tgbotapi.NewMessage(userID, text))
}

func (b *Bot) sendVoice(userID int64, audio []byte) {
	voice := tgbotapi.NewVoice(userID, tgbotapi.FileBytes{
		Name:  "exercise.mp3",
		Bytes: audio,
	})
	if _, err := b.api.Send(voice); err != nil {
		b.log.Error("send voice", "user", userID, "error", err)
	}
}

func (b *Bot) send(msg tgbotapi.MessageConfig) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "user", msg.ChatID, "error", err)
	}
}

func modeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonReading),
			tgbotapi.NewKeyboardButton(buttonListening),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonSpeaking),
			tgbotapi.NewKeyboardButton(buttonFreeChat),
		),
	)
}
