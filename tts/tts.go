// Package tts defines the speech synthesis capability used by the
// listening practice mode.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/haguro/elevenlabs-go"
)

// SpeechGenerator turns text into audio bytes suitable for sending as a
// voice message.
type SpeechGenerator interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type ElevenLabsSpeechGenerator struct {
	apiKey  string
	voiceID string
}

func NewElevenLabsSpeechGenerator(apiKey, voiceID string) *ElevenLabsSpeechGenerator {
	return &ElevenLabsSpeechGenerator{apiKey: apiKey, voiceID: voiceID}
}

func (e *ElevenLabsSpeechGenerator) Synthesize(ctx context.Context, text string) ([]byte, error) {
	client := elevenlabs.NewClient(ctx, e.apiKey, 30*time.Second)
	req := elevenlabs.TextToSpeechRequest{
		Text:    text,
		ModelID: "eleven_turbo_v2_5",
	}

	var buf bytes.Buffer
	if err := client.TextToSpeechStream(&buf, e.voiceID, req); err != nil {
		return nil, fmt.Errorf("failed to generate speech: %w", err)
	}
	return buf.Bytes(), nil
}
