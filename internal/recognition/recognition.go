package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Engine identifies a text-recognition backend.
type Engine string

const (
	EngineTesseract    Engine = "tesseract"
	EngineGoogleVision Engine = "google_vision"
	EngineAWSTextract  Engine = "aws_textract"
	EngineGemini       Engine = "gemini"
)

// ParseEngine maps a user-supplied engine name to an Engine. Unknown or
// empty names report ok=false; callers decide what to do with that.
func ParseEngine(name string) (Engine, bool) {
	switch Engine(name) {
	case EngineTesseract, EngineGoogleVision, EngineAWSTextract, EngineGemini:
		return Engine(name), true
	}
	return "", false
}

// Request is a single-use image payload to recognize text from.
type Request struct {
	Data        []byte
	ContentType string
}

// Credentials carries optional per-backend credential material. Values are
// opaque pass-through from the caller; they are never stored or logged.
type Credentials struct {
	GoogleVisionAPIKey string
	GeminiAPIKey       string
	// TextractBlob is a JSON document of the shape
	// {"accessKeyId": "...", "secretAccessKey": "...", "region": "..."}.
	TextractBlob string
}

// TextractCredentials is the parsed form of Credentials.TextractBlob.
type TextractCredentials struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Region          string `json:"region"`
}

// ParseTextractCredentials parses the textract credential blob. An empty
// blob yields ok=false with no error so env-based config can take over.
func ParseTextractCredentials(blob string) (TextractCredentials, bool, error) {
	if blob == "" {
		return TextractCredentials{}, false, nil
	}
	var creds TextractCredentials
	if err := json.Unmarshal([]byte(blob), &creds); err != nil {
		return TextractCredentials{}, false, fmt.Errorf("%w: %v", ErrMalformedCredential, err)
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return TextractCredentials{}, false, fmt.Errorf("%w: missing access key material", ErrMalformedCredential)
	}
	if creds.Region == "" {
		creds.Region = "us-east-1"
	}
	return creds, true, nil
}

// Config selects a backend for one recognition request.
type Config struct {
	// Preferred names the engine the caller wants. Empty means no
	// preference; the orchestrator uses its default chain.
	Preferred   Engine
	Credentials Credentials
}

// Result is the outcome of one orchestrated recognition. Text may be empty,
// meaning nothing could be recognized by any attempted backend.
type Result struct {
	Text   string
	Engine Engine
}

// Backend converts an image payload to raw text. Implementations report
// failures as errors; the orchestrator decides what happens next.
type Backend interface {
	// Engine returns the identity of this backend.
	Engine() Engine
	// Recognize returns the raw text found in the image.
	Recognize(ctx context.Context, req Request, creds Credentials) (string, error)
}

// Failure reasons. Backends wrap these so the orchestrator can log a
// meaningful reason while treating every failure the same way.
var (
	// ErrBackendUnavailable means a dependency or credential the backend
	// needs is missing (no binary on PATH, no API key supplied).
	ErrBackendUnavailable = errors.New("recognition backend unavailable")
	// ErrBackendCallFailed means the backend ran but the call failed
	// (network, auth rejection, unparseable response).
	ErrBackendCallFailed = errors.New("recognition backend call failed")
	// ErrNoTextRecognized means the backend ran successfully and found
	// no text.
	ErrNoTextRecognized = errors.New("no text recognized")
	// ErrMalformedCredential means supplied credential material could not
	// be parsed into the shape the backend expects.
	ErrMalformedCredential = errors.New("malformed backend credential")
)
