package recognition

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiTranscribePrompt asks for a faithful transcription, not an
// interpretation; the field extractor does the structuring afterwards.
const geminiTranscribePrompt = `Extract all text from this receipt or invoice image.

Instructions:
- Return the text exactly as it appears on the image
- Preserve the original formatting and line breaks
- Include all numbers, dates, amounts, and text
- Do not add any commentary or explanations
- If you cannot read certain text, indicate it as [UNCLEAR]

Extract the text:`

// Gemini transcribes images with a Google Gemini vision model. It is only
// ever invoked through an explicit preference.
type Gemini struct {
	model string
	// generate is swappable for tests; the default dials the real API.
	generate func(ctx context.Context, apiKey, model string, png []byte) (string, error)
}

// NewGemini creates a Gemini backend. An empty model defaults to
// gemini-2.5-flash.
func NewGemini(model string) *Gemini {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &Gemini{model: model, generate: generateTranscript}
}

func generateTranscript(ctx context.Context, apiKey, model string, png []byte) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	resp, err := client.GenerativeModel(model).GenerateContent(ctx,
		genai.ImageData("png", png),
		genai.Text(geminiTranscribePrompt),
	)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

func (g *Gemini) Engine() Engine {
	return EngineGemini
}

// Recognize transcribes the image with the configured model.
func (g *Gemini) Recognize(ctx context.Context, req Request, creds Credentials) (string, error) {
	apiKey := creds.GeminiAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("%w: no gemini api key", ErrBackendUnavailable)
	}

	pngData, err := prepareImage(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	text, err := g.generate(ctx, apiKey, g.model, pngData)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoTextRecognized
	}
	return text, nil
}
