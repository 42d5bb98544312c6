package dates

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrInvalidDateFormat is returned when a date string cannot be interpreted.
var ErrInvalidDateFormat = errors.New("could not parse date")

// isoLayouts are tried in order before falling back to natural language.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parser interprets user-supplied date strings. A strict ISO-8601 parse is
// preferred; natural-language expressions ("next Tuesday at 3pm") are
// resolved relative to an explicit reference time so results are
// reproducible.
type Parser struct {
	w *when.Parser
}

// NewParser creates a parser with English and common natural-language rules.
func NewParser() *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{w: w}
}

// Parse converts raw into a UTC timestamp. Natural-language expressions
// resolve relative to ref. Returns ErrInvalidDateFormat when no
// interpretation succeeds.
func (p *Parser) Parse(raw string, ref time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDateFormat
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}

	r, err := p.w.Parse(raw, ref)
	if err != nil || r == nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return r.Time.UTC(), nil
}
