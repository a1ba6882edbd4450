// Package gemini implements the transcription capability on Google's
// Gemini API, as an alternative to Whisper. The audio file is uploaded,
// transcribed in a single generate call, and removed again.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemPrompt = `Transcribe this voice message as accurately as possible, ` +
	`with good grammar and punctuation. Reply with the transcript only.`

type Transcriber struct {
	client *genai.Client
}

func NewTranscriber(ctx context.Context, apiKey string) (*Transcriber, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Transcriber{client: client}, nil
}

func (t *Transcriber) Close() error {
	return t.client.Close()
}

func (t *Transcriber) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	file, err := t.client.UploadFile(ctx, "", f, &genai.UploadFileOptions{
		MIMEType: "audio/mp3",
	})
	if err != nil {
		return "", fmt.Errorf("upload audio: %w", err)
	}
	defer func() {
		// Uploaded files expire on their own; deletion is a courtesy.
		_ = t.client.DeleteFile(ctx, file.Name)
	}()

	model := t.client.GenerativeModel("gemini-1.5-flash")
	model.GenerationConfig.SetTemperature(0.1)

	resp, err := model.GenerateContent(ctx,
		genai.Text(systemPrompt),
		genai.FileData{URI: file.URI, MIMEType: "audio/mp3"},
	)
	if err != nil {
		return "", fmt.Errorf("gemini transcription: %w", err)
	}

	return strings.TrimSpace(responseText(resp)), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				text.WriteString(string(t))
			}
		}
	}
	return text.String()
}
