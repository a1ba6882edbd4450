package practice

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"lingo.chat/llm"
	"lingo.chat/session"
)

// FreeChat is the open-ended conversation mode. It has no sub-state: every
// turn is evaluated independently, and any conversational memory is the
// capability's business, not ours.
type FreeChat struct {
	gateway llm.Gateway
	log     *log.Logger
}

func NewFreeChat(gateway llm.Gateway, logger *log.Logger) *FreeChat {
	return &FreeChat{gateway: gateway, log: logger}
}

// Start opens the conversation with an empty user message.
func (f *FreeChat) Start(ctx context.Context, sess *session.Session) (*llm.ChatTurn, error) {
	return f.turn(ctx, sess, "")
}

// HandleMessage answers one user message (typed or transcribed).
func (f *FreeChat) HandleMessage(ctx context.Context, sess *session.Session, text string) (*llm.ChatTurn, error) {
	return f.turn(ctx, sess, text)
}

func (f *FreeChat) turn(ctx context.Context, sess *session.Session, text string) (*llm.ChatTurn, error) {
	turn, err := f.gateway.Chat(ctx, sess.LevelOrDefault(), text)
	if err != nil {
		return nil, fmt.Errorf("chat turn: %w", err)
	}

	f.log.Debug("chat turn",
		"user", sess.UserID, "corrections", len(turn.Corrections))
	return turn, nil
}
