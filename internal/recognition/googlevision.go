package recognition

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"
)

const visionEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// GoogleVision calls the Google Cloud Vision text-detection REST endpoint.
type GoogleVision struct {
	endpoint string
	client   *http.Client
}

// NewGoogleVision creates a GoogleVision backend.
func NewGoogleVision() *GoogleVision {
	return &GoogleVision{
		endpoint: visionEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GoogleVision) Engine() Engine {
	return EngineGoogleVision
}

type visionRequest struct {
	Requests []visionAnnotateRequest `json:"requests"`
}

type visionAnnotateRequest struct {
	Image    visionImage     `json:"image"`
	Features []visionFeature `json:"features"`
}

type visionImage struct {
	Content string `json:"content"`
}

type visionFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type visionResponse struct {
	Responses []struct {
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
	} `json:"responses"`
}

// Recognize sends the image for TEXT_DETECTION and returns the full-page
// annotation (the first annotation contains all detected text).
func (g *GoogleVision) Recognize(ctx context.Context, req Request, creds Credentials) (string, error) {
	apiKey := creds.GoogleVisionAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_VISION_API_KEY")
	}
	if apiKey == "" {
		return "", fmt.Errorf("%w: no google vision api key", ErrBackendUnavailable)
	}

	pngData, err := prepareImage(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	body := visionRequest{
		Requests: []visionAnnotateRequest{{
			Image:    visionImage{Content: base64.StdEncoding.EncodeToString(pngData)},
			Features: []visionFeature{{Type: "TEXT_DETECTION", MaxResults: 1}},
		}},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	endpoint := g.endpoint + "?key=" + url.QueryEscape(apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: vision API status %d: %s", ErrBackendCallFailed, resp.StatusCode, respBody)
	}

	var parsed visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding vision response: %v", ErrBackendCallFailed, err)
	}

	if len(parsed.Responses) == 0 || len(parsed.Responses[0].TextAnnotations) == 0 {
		return "", ErrNoTextRecognized
	}
	return parsed.Responses[0].TextAnnotations[0].Description, nil
}
