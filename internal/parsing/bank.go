package parsing

import (
	"regexp"
	"strings"
)

// DetectionPattern is one strategy for recognising a bank from a statement.
type DetectionPattern struct {
	// ContentContains matches when any keyword occurs in the file content
	// (case-insensitive).
	ContentContains []string

	// ContentRegex matches the file content against a regular expression.
	ContentRegex string

	// FilenameRegex matches the file name against a regular expression.
	FilenameRegex string
}

// MatchesContent reports whether the statement content triggers this pattern.
func (p DetectionPattern) MatchesContent(content string) bool {
	if len(p.ContentContains) > 0 {
		lower := strings.ToLower(content)
		for _, kw := range p.ContentContains {
			if strings.Contains(lower, strings.ToLower(kw)) {
				return true
			}
		}
	}
	if p.ContentRegex != "" {
		if re, err := regexp.Compile(p.ContentRegex); err == nil && re.MatchString(content) {
			return true
		}
	}
	return false
}

// MatchesFilename reports whether the file name triggers this pattern.
func (p DetectionPattern) MatchesFilename(filename string) bool {
	if p.FilenameRegex == "" {
		return false
	}
	re, err := regexp.Compile(p.FilenameRegex)
	return err == nil && re.MatchString(filename)
}

// Info is the static identity of a bank.
type Info struct {
	Name              string
	Code              string
	Aliases           []string
	DetectionPatterns []DetectionPattern
}

// MatchesContent reports whether any detection pattern matches the content.
func (i Info) MatchesContent(content string) bool {
	for _, p := range i.DetectionPatterns {
		if p.MatchesContent(content) {
			return true
		}
	}
	return false
}

// MatchesFilename reports whether the file name matches an alias or pattern.
func (i Info) MatchesFilename(filename string) bool {
	lower := strings.ToLower(filename)
	for _, alias := range i.Aliases {
		if strings.Contains(lower, strings.ToLower(alias)) {
			return true
		}
	}
	for _, p := range i.DetectionPatterns {
		if p.MatchesFilename(filename) {
			return true
		}
	}
	return false
}

// Bank groups the identity and format parsers of one supported bank.
type Bank interface {
	// Info returns the bank's static identity and detection patterns.
	Info() Info

	// Parser returns the parser for the given format, if any.
	Parser(format Format) (FormatParser, bool)

	// Parsers returns all parsers this bank provides.
	Parsers() []FormatParser
}

// DetectConfidence scores how strongly a file looks like this bank's export.
// Filename matches contribute 0.4, content matches 0.6, capped at 1.0.
func DetectConfidence(info Info, filename, content string) float64 {
	confidence := 0.0
	if info.MatchesFilename(filename) {
		confidence += 0.4
	}
	if info.MatchesContent(content) {
		confidence += 0.6
	}
	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}

// DetectionResult describes the outcome of a successful bank detection.
type DetectionResult struct {
	BankCode        string  `json:"bank"`
	Confidence      float64 `json:"confidence"`
	Format          Format  `json:"format"`
	SuggestedParser string  `json:"suggestedParser"`
	Reason          string  `json:"detectionReason"`
}
