package voice

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
)

// ErrUnsupportedFormat is returned for audio files whose extension does not
// map to a recognizer encoding.
var ErrUnsupportedFormat = errors.New("voice: unsupported audio format")

// ErrNoSpeech is returned when the recognizer finds no transcribable speech
// in the audio.
var ErrNoSpeech = errors.New("voice: no speech recognized")

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// GoogleSpeechTranscriber transcribes audio with the Google Cloud
// Speech-to-Text API. It authenticates via Application Default Credentials.
type GoogleSpeechTranscriber struct {
	client       *speech.Client
	languageCode string
}

// NewGoogleSpeechTranscriber creates a transcriber. An empty languageCode
// defaults to en-US.
func NewGoogleSpeechTranscriber(ctx context.Context, languageCode string) (*GoogleSpeechTranscriber, error) {
	if strings.TrimSpace(languageCode) == "" {
		languageCode = "en-US"
	}

	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("voice: failed to create speech client: %w", err)
	}
	return &GoogleSpeechTranscriber{client: client, languageCode: languageCode}, nil
}

// Transcribe runs a batch recognition over the uploaded audio and joins the
// alternatives with the highest confidence into a single transcript.
func (t *GoogleSpeechTranscriber) Transcribe(ctx context.Context, filename string, audio []byte) (string, error) {
	cfg, err := recognitionConfig(filename, t.languageCode)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: cfg,
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		return "", fmt.Errorf("voice: recognition failed: %w", err)
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoSpeech
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Close releases the underlying gRPC connection.
func (t *GoogleSpeechTranscriber) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}

// recognitionConfig maps the upload's file extension to a recognizer
// encoding. Container formats with self-describing headers leave the sample
// rate to the recognizer; opus streams are fixed at 48kHz.
func recognitionConfig(filename, languageCode string) (*speechpb.RecognitionConfig, error) {
	cfg := &speechpb.RecognitionConfig{LanguageCode: languageCode}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		cfg.Encoding = speechpb.RecognitionConfig_LINEAR16
	case ".flac":
		cfg.Encoding = speechpb.RecognitionConfig_FLAC
	case ".ogg", ".opus":
		cfg.Encoding = speechpb.RecognitionConfig_OGG_OPUS
		cfg.SampleRateHertz = 48000
	case ".mp3":
		cfg.Encoding = speechpb.RecognitionConfig_MP3
		cfg.SampleRateHertz = 16000
	case ".webm":
		cfg.Encoding = speechpb.RecognitionConfig_WEBM_OPUS
		cfg.SampleRateHertz = 48000
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
	return cfg, nil
}

var _ Transcriber = (*GoogleSpeechTranscriber)(nil)
