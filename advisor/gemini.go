package advisor

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"
)

// Gemini is a Generator on the Gemini API.
type Gemini struct {
	Client *genai.Client
	Model  string
	Config *genai.GenerateContentConfig
}

// NewGemini creates a Gemini generator. The API key is read from the
// environment (GEMINI_API_KEY or GOOGLE_API_KEY).
func NewGemini(ctx context.Context, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, err
	}
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{Client: client, Model: model}, nil
}

// Generate sends prompt in a new chat and returns the text of the answer.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	chat, err := g.Client.Chats.Create(ctx, g.Model, g.Config, nil)
	if err != nil {
		return "", err
	}
	resp, err := chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no response from the model")
	}
	var answer strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		answer.WriteString(part.Text)
	}
	return answer.String(), nil
}
