package service

import (
	"regexp"
	"strings"
)

// MaxTextLen bounds stored event text, long chat dumps add nothing to ranking
const MaxTextLen = 2000

var secretPatterns = []*regexp.Regexp{
	// github tokens
	regexp.MustCompile(`\b(ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{20,}\b`),
	// slack tokens
	regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),
	// aws access key id
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	// generic "secret=..."
	regexp.MustCompile(`(?i)\b(secret|token|password|api[_-]?key)\s*[:=]\s*[^\s]{8,}`),
}

// redactSecrets masks credential shaped substrings before text is persisted
func redactSecrets(s string) string {
	for _, re := range secretPatterns {
		s = re.ReplaceAllString(s, "[REDACTED]")
	}
	return s
}

// clampText trims and bounds text, rune safe
func clampText(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// sanitizeText applies the full ingest side text policy
func sanitizeText(s *string) *string {
	if s == nil {
		return nil
	}
	out := clampText(redactSecrets(*s), MaxTextLen)
	return &out
}
