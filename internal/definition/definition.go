// internal/definition/definition.go
//
// Word definitions for the in-game dictionary.
// The dictionary is advisory: a failed lookup is reported to the player and
// never touches game state.
//
// Backends (google.golang.org/genai):
//   - Vertex AI when a GCP project is configured (Application Default Credentials).
//   - Gemini API when an API key is configured.
//   - Neither: every lookup fails with ErrUnavailable.

package definition

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"google.golang.org/genai"
)

const (
	defaultRegion = "europe-west1"
	defaultModel  = "gemini-2.5-flash"
	maxWordLength = 32
)

var (
	ErrEmptyWord   = errors.New("word is required")
	ErrInvalidWord = errors.New("word must be letters only")
	ErrUnavailable = errors.New("definition service not configured")
)

// Definer looks up a short definition for a word.
type Definer interface {
	Define(ctx context.Context, word string) (string, error)
}

// Config selects and tunes the backend.
type Config struct {
	ProjectID string // Vertex AI project; takes precedence over APIKey
	Region    string
	APIKey    string // Gemini API key
	Model     string
}

// contentGenerator is the part of *genai.Models the dictionary uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini defines words with a Gemini model.
type Gemini struct {
	models    contentGenerator
	modelName string
}

// New returns a Gemini definer for cfg, or Unavailable when no backend is configured.
func New(ctx context.Context, cfg Config) (Definer, error) {
	var cc *genai.ClientConfig
	switch {
	case cfg.ProjectID != "":
		region := cfg.Region
		if region == "" {
			region = defaultRegion
		}
		cc = &genai.ClientConfig{Project: cfg.ProjectID, Location: region, Backend: genai.BackendVertexAI}
	case cfg.APIKey != "":
		cc = &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	default:
		return Unavailable{}, nil
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Gemini{models: client.Models, modelName: model}, nil
}

const definePrompt = `Define the word "%s" in the context of AI, blockchain and decentralized technology.
Keep it brief (2-3 sentences) and beginner-friendly. Reply with the definition only.`

// Define asks the model for a definition of word.
func (g *Gemini) Define(ctx context.Context, word string) (string, error) {
	w, err := Normalize(word)
	if err != nil {
		return "", err
	}
	resp, err := g.models.GenerateContent(ctx, g.modelName,
		genai.Text(fmt.Sprintf(definePrompt, w)),
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(0.7)),
			MaxOutputTokens: 200,
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty gemini response")
	}
	return text, nil
}

// Unavailable is the Definer used when no backend is configured.
type Unavailable struct{}

func (Unavailable) Define(ctx context.Context, word string) (string, error) {
	if _, err := Normalize(word); err != nil {
		return "", err
	}
	return "", ErrUnavailable
}

// Normalize trims and uppercases word, rejecting empty or non-letter input.
func Normalize(word string) (string, error) {
	w := strings.ToUpper(strings.TrimSpace(word))
	if w == "" {
		return "", ErrEmptyWord
	}
	if len(w) > maxWordLength || strings.IndexFunc(w, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		return "", ErrInvalidWord
	}
	return w, nil
}
