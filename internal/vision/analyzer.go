package vision

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedImage is returned for uploads whose extension is not a
// supported image format.
var ErrUnsupportedImage = errors.New("vision: unsupported image format")

// DefaultPrompt is used when the caller does not supply one.
const DefaultPrompt = "What do you see in this medical image?"

const systemPrompt = "You are a medical assistant who can analyze medical images. " +
	"Provide accurate, professional analysis of medical imagery. " +
	"Always note when findings are uncertain and recommend professional " +
	"medical consultation for definitive diagnosis."

// ImageModel analyzes an image given a prompt. The Gemini client in the
// assistant package implements it.
type ImageModel interface {
	AnalyzeImage(ctx context.Context, system, prompt, imageFormat string, image []byte) (string, error)
}

// Analyzer runs prompts against uploaded medical images.
type Analyzer struct {
	model ImageModel
}

// NewAnalyzer creates an image analyzer backed by the given model.
func NewAnalyzer(model ImageModel) *Analyzer {
	return &Analyzer{model: model}
}

// Analyze validates the image format and asks the vision model about the
// image. An empty prompt falls back to DefaultPrompt.
func (a *Analyzer) Analyze(ctx context.Context, filename, prompt string, image []byte) (string, error) {
	format, err := imageFormat(filename)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}

	analysis, err := a.model.AnalyzeImage(ctx, systemPrompt, prompt, format, image)
	if err != nil {
		return "", fmt.Errorf("vision: analysis failed: %w", err)
	}
	return analysis, nil
}

func imageFormat(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "jpeg", nil
	case ".png":
		return "png", nil
	case ".webp":
		return "webp", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, filepath.Ext(filename))
	}
}
