package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingModel struct {
	system   string
	prompt   string
	format   string
	image    []byte
	analysis string
	err      error
}

func (m *recordingModel) AnalyzeImage(_ context.Context, system, prompt, imageFormat string, image []byte) (string, error) {
	m.system = system
	m.prompt = prompt
	m.format = imageFormat
	m.image = image
	if m.err != nil {
		return "", m.err
	}
	return m.analysis, nil
}

func TestAnalyzeUsesDefaultPrompt(t *testing.T) {
	model := &recordingModel{analysis: "Healed fracture visible."}
	a := NewAnalyzer(model)

	out, err := a.Analyze(context.Background(), "xray.png", "", []byte{0x89, 0x50})
	require.NoError(t, err)
	assert.Equal(t, "Healed fracture visible.", out)
	assert.Equal(t, DefaultPrompt, model.prompt)
	assert.Equal(t, "png", model.format)
	assert.Contains(t, model.system, "analyze medical images")
}

func TestAnalyzeCustomPrompt(t *testing.T) {
	model := &recordingModel{analysis: "Looks fine."}
	a := NewAnalyzer(model)

	_, err := a.Analyze(context.Background(), "scan.jpeg", "Is this rash infected?", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "Is this rash infected?", model.prompt)
	assert.Equal(t, "jpeg", model.format)
}

func TestAnalyzeFormatMapping(t *testing.T) {
	tests := []struct {
		filename string
		format   string
	}{
		{"a.jpg", "jpeg"},
		{"a.JPG", "jpeg"},
		{"a.jpeg", "jpeg"},
		{"a.png", "png"},
		{"a.webp", "webp"},
	}
	for _, tc := range tests {
		format, err := imageFormat(tc.filename)
		require.NoError(t, err, tc.filename)
		assert.Equal(t, tc.format, format, tc.filename)
	}
}

func TestAnalyzeUnsupportedFormat(t *testing.T) {
	a := NewAnalyzer(&recordingModel{})

	_, err := a.Analyze(context.Background(), "scan.tiff", "", []byte{0x01})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestAnalyzeModelFailure(t *testing.T) {
	a := NewAnalyzer(&recordingModel{err: errors.New("upstream down")})

	_, err := a.Analyze(context.Background(), "scan.png", "", []byte{0x01})
	assert.Error(t, err)
}
