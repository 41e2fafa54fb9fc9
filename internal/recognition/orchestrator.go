package recognition

import (
	"context"
	"log/slog"
	"strings"
)

// Orchestrator selects and invokes exactly one successful backend per
// request. It never returns an error: every backend failure is logged and
// converted into "try the next backend", and exhaustion yields an empty
// Result.
type Orchestrator struct {
	backends map[Engine]Backend
}

// NewOrchestrator creates an Orchestrator over the given backends. Later
// entries with the same engine name override earlier ones.
func NewOrchestrator(backends ...Backend) *Orchestrator {
	m := make(map[Engine]Backend, len(backends))
	for _, b := range backends {
		m[b.Engine()] = b
	}
	return &Orchestrator{backends: m}
}

// defaultChain is the attempt order when no preference is set: best-accuracy
// hosted engine first, then the dependency-free local engine, then the
// remaining hosted engine. Gemini is opt-in only and never appears here.
var defaultChain = []Engine{EngineGoogleVision, EngineTesseract, EngineAWSTextract}

// plan returns the ordered engines to attempt for the given config.
//
//	no preference     -> google_vision, tesseract, aws_textract
//	tesseract         -> tesseract
//	any other engine  -> that engine, then tesseract
//	unknown value     -> tesseract
func plan(preferred Engine) []Engine {
	switch preferred {
	case "":
		return defaultChain
	case EngineTesseract:
		return []Engine{EngineTesseract}
	case EngineGoogleVision, EngineAWSTextract, EngineGemini:
		return []Engine{preferred, EngineTesseract}
	default:
		// Unknown preference values degrade to the local engine.
		return []Engine{EngineTesseract}
	}
}

// Recognize runs the selection policy and returns the first non-empty text
// produced, together with the engine that produced it. When every attempted
// backend yields nothing, the Result carries empty text.
func (o *Orchestrator) Recognize(ctx context.Context, req Request, cfg Config) Result {
	for _, engine := range plan(cfg.Preferred) {
		backend, ok := o.backends[engine]
		if !ok {
			slog.Warn("recognition engine not registered", "engine", engine)
			continue
		}

		text, err := backend.Recognize(ctx, req, cfg.Credentials)
		if err != nil {
			slog.Warn("recognition backend failed", "engine", engine, "error", err)
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			slog.Info("recognition backend returned no text", "engine", engine)
			continue
		}

		return Result{Text: text, Engine: engine}
	}

	return Result{}
}
