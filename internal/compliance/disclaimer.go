package compliance

import (
	"fmt"
	"strings"
)

// DisclaimerLevel represents the verbosity of the disclaimer.
type DisclaimerLevel string

const (
	// DisclaimerShort is the shortest disclaimer.
	DisclaimerShort DisclaimerLevel = "short"
	// DisclaimerMedium is a moderate disclaimer.
	DisclaimerMedium DisclaimerLevel = "medium"
	// DisclaimerFull is the most comprehensive disclaimer.
	DisclaimerFull DisclaimerLevel = "full"
)

// Disclaimer templates
const (
	disclaimerShortText = "Automated assistant. Not medical advice."

	disclaimerMediumText = "This is an automated assistant. For medical advice, please consult a licensed healthcare provider."

	disclaimerFullText = "This analysis is generated by an automated assistant and is general in nature. It is not a substitute for professional medical advice, diagnosis or treatment. Please seek professional medical consultation for a definitive assessment."
)

// DisclaimerConfig configures the disclaimer service.
type DisclaimerConfig struct {
	// Level determines which disclaimer template to use.
	Level DisclaimerLevel
	// Enabled controls whether disclaimers are added.
	Enabled bool
	// CustomText overrides the default template.
	CustomText string
}

// DefaultDisclaimerConfig returns sensible defaults.
func DefaultDisclaimerConfig() DisclaimerConfig {
	return DisclaimerConfig{
		Level:   DisclaimerFull,
		Enabled: true,
	}
}

// DisclaimerService appends medical disclaimers to assistant output.
type DisclaimerService struct {
	config DisclaimerConfig
}

// NewDisclaimerService creates a new disclaimer service.
func NewDisclaimerService(config DisclaimerConfig) *DisclaimerService {
	return &DisclaimerService{config: config}
}

// GetDisclaimerText returns the appropriate disclaimer text.
func (s *DisclaimerService) GetDisclaimerText() string {
	if s.config.CustomText != "" {
		return s.config.CustomText
	}

	switch s.config.Level {
	case DisclaimerShort:
		return disclaimerShortText
	case DisclaimerFull:
		return disclaimerFullText
	default:
		return disclaimerMediumText
	}
}

// AddDisclaimer appends the disclaimer to the message if configured. Adding
// is idempotent: a message already carrying the disclaimer is returned
// unchanged.
func (s *DisclaimerService) AddDisclaimer(message string) string {
	if !s.config.Enabled {
		return message
	}

	disclaimer := s.GetDisclaimerText()
	if strings.Contains(message, disclaimer) {
		return message
	}

	return fmt.Sprintf("%s\n\n%s", strings.TrimSpace(message), disclaimer)
}
