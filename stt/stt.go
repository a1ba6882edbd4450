// Package stt defines the transcription capability and its default
// implementation on the OpenAI Whisper API.
package stt

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// Transcriber turns a normalized audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

type WhisperClient struct {
	client *openai.Client
}

func NewWhisperClient(apiKey string) *WhisperClient {
	return &WhisperClient{client: openai.NewClient(apiKey)}
}

func (w *WhisperClient) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := w.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}
