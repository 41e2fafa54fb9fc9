package recognition

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Tesseract runs the locally installed tesseract binary. It is the only
// engine with no credential requirement, which is why the orchestrator can
// always fall back to it.
type Tesseract struct {
	language string
	lookPath func(string) (string, error)
	runner   func(ctx context.Context, path string, args ...string) ([]byte, error)
}

// NewTesseract creates a Tesseract backend. An empty language defaults to
// English.
func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{
		language: language,
		lookPath: exec.LookPath,
		runner:   runCommand,
	}
}

func runCommand(ctx context.Context, path string, args ...string) ([]byte, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (t *Tesseract) Engine() Engine {
	return EngineTesseract
}

// Recognize writes the prepared image to a temp file and runs
// `tesseract <file> stdout -l <lang>`.
func (t *Tesseract) Recognize(ctx context.Context, req Request, _ Credentials) (string, error) {
	binary, err := t.lookPath("tesseract")
	if err != nil {
		return "", fmt.Errorf("%w: tesseract binary not on PATH", ErrBackendUnavailable)
	}

	pngData, err := prepareImage(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}
	if processed, perr := preprocessForOCR(pngData); perr == nil {
		pngData = processed
	}

	tmp, err := os.CreateTemp("", "receipt-*.png")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(pngData); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	out, err := t.runner(ctx, binary, tmp.Name(), "stdout", "-l", t.language)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBackendCallFailed, err)
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return "", ErrNoTextRecognized
	}
	return text, nil
}
