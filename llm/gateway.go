// Package llm is the façade over the text generation and evaluation
// capability. Callers send typed requests and get typed, validated results;
// the model behind it is an implementation detail.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrUnavailable marks a transport-level failure talking to the
	// capability (network, timeout, API error).
	ErrUnavailable = errors.New("language capability unavailable")

	// ErrMalformed marks a response that arrived but does not parse or
	// validate into the expected shape.
	ErrMalformed = errors.New("malformed capability response")
)

// MaxCorrections bounds how many corrections of a chat turn are kept.
const MaxCorrections = 3

type ReadingExercise struct {
	Text      string   `json:"text"`
	Questions []string `json:"questions"`
}

type QuestionResult struct {
	Number  int    `json:"number"`
	Correct bool   `json:"correct"`
	Comment string `json:"comment"`
}

type ReadingEvaluation struct {
	Score           int              `json:"score"`
	PerQuestion     []QuestionResult `json:"per_question"`
	OverallFeedback string           `json:"overall_feedback"`
}

type SpeakingExercise struct {
	Topic         string `json:"topic"`
	PromptTarget  string `json:"prompt_target"`
	PromptExplain string `json:"prompt_explain"`
}

type SpeakingEvaluation struct {
	Score        int    `json:"score"`
	Feedback     string `json:"feedback"`
	SampleAnswer string `json:"sample_answer"`
}

type Correction struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

type ChatTurn struct {
	Reply       string       `json:"reply"`
	Translation string       `json:"translation"`
	Corrections []Correction `json:"corrections"`
}

// Gateway is the request/response contract of the generative capability.
// Every method either returns a fully validated result or an error wrapping
// ErrUnavailable or ErrMalformed.
type Gateway interface {
	GenerateReading(ctx context.Context, level int) (*ReadingExercise, error)
	EvaluateReading(ctx context.Context, level int, ex *ReadingExercise, answers string) (*ReadingEvaluation, error)
	GenerateSpeaking(ctx context.Context, level int) (*SpeakingExercise, error)
	EvaluateSpeaking(ctx context.Context, level int, ex *SpeakingExercise, transcript string) (*SpeakingEvaluation, error)
	Chat(ctx context.Context, level int, userMessage string) (*ChatTurn, error)
}

type OpenAIGateway struct {
	client *openai.Client
	model  string
}

func NewOpenAIGateway(apiKey string) *OpenAIGateway {
	return &OpenAIGateway{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

// complete sends one system+user exchange and returns the raw JSON text of
// the model's reply.
func (g *OpenAIGateway) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: 1500,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrMalformed)
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGateway) GenerateReading(ctx context.Context, level int) (*ReadingExercise, error) {
	raw, err := g.complete(ctx, readingExercisePrompt(level), "Generate a new exercise.")
	if err != nil {
		return nil, err
	}
	return ParseReadingExercise(raw)
}

func (g *OpenAIGateway) EvaluateReading(ctx context.Context, level int, ex *ReadingExercise, answers string) (*ReadingEvaluation, error) {
	raw, err := g.complete(ctx, readingEvaluationPrompt(level), readingEvaluationInput(ex, answers))
	if err != nil {
		return nil, err
	}
	return ParseReadingEvaluation(raw)
}

func (g *OpenAIGateway) GenerateSpeaking(ctx context.Context, level int) (*SpeakingExercise, error) {
	raw, err := g.complete(ctx, speakingExercisePrompt(level), "Generate a new speaking topic.")
	if err != nil {
		return nil, err
	}
	return ParseSpeakingExercise(raw)
}

func (g *OpenAIGateway) EvaluateSpeaking(ctx context.Context, level int, ex *SpeakingExercise, transcript string) (*SpeakingEvaluation, error) {
	raw, err := g.complete(ctx, speakingEvaluationPrompt(level), speakingEvaluationInput(ex, transcript))
	if err != nil {
		return nil, err
	}
	return ParseSpeakingEvaluation(raw)
}

func (g *OpenAIGateway) Chat(ctx context.Context, level int, userMessage string) (*ChatTurn, error) {
	if userMessage == "" {
		userMessage = "(open the conversation)"
	}
	raw, err := g.complete(ctx, chatPrompt(level), userMessage)
	if err != nil {
		return nil, err
	}
	return ParseChatTurn(raw)
}
