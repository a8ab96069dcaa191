package parsing_test

import (
	"testing"

	"github.com/finlens/finlens_backend/internal/parsing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubParser is a no-op Excel parser for detector tests.
type stubParser struct {
	bankCode string
}

func (p stubParser) Format() parsing.Format { return parsing.FormatExcel }
func (p stubParser) BankCode() string       { return p.bankCode }
func (p stubParser) Name() string           { return parsing.ParserName(p.bankCode, parsing.FormatExcel) }
func (p stubParser) CanParse(string) bool   { return true }
func (p stubParser) Parse([]byte, parsing.Options) (parsing.ParseResult, error) {
	return parsing.ParseResult{}, nil
}

// stubBank implements parsing.Bank for detector tests.
type stubBank struct {
	info   parsing.Info
	parser stubParser
}

func newStubBank() *stubBank {
	return &stubBank{
		info: parsing.Info{
			Name:    "Test Bank",
			Code:    "test",
			Aliases: []string{"TEST", "Test Bank"},
			DetectionPatterns: []parsing.DetectionPattern{
				{ContentContains: []string{"Test Bank", "TEST STATEMENT"}},
				{FilenameRegex: `(?i)test.*statement`},
			},
		},
		parser: stubParser{bankCode: "test"},
	}
}

func (b *stubBank) Info() parsing.Info { return b.info }
func (b *stubBank) Parser(format parsing.Format) (parsing.FormatParser, bool) {
	if format == parsing.FormatExcel {
		return b.parser, true
	}
	return nil, false
}
func (b *stubBank) Parsers() []parsing.FormatParser { return []parsing.FormatParser{b.parser} }

func TestDetector_DetectFormat(t *testing.T) {
	d := parsing.NewDetector()

	for _, name := range []string{"statement.xlsx", "statement.xls", "STATEMENT.XLSX"} {
		format, err := d.DetectFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, parsing.FormatExcel, format)
	}

	_, err := d.DetectFormat("statement.txt")
	assert.ErrorIs(t, err, parsing.ErrUnsupportedFormat)
	_, err = d.DetectFormat("statement")
	assert.ErrorIs(t, err, parsing.ErrUnsupportedFormat)
}

func TestDetector_RegisterAndList(t *testing.T) {
	d := parsing.NewDetector()
	assert.Empty(t, d.RegisteredBanks())

	d.RegisterBank(newStubBank())
	assert.Equal(t, []string{"test"}, d.RegisteredBanks())
}

func TestDetector_DetectFromFilename(t *testing.T) {
	d := parsing.NewDetector()
	d.RegisterBank(newStubBank())

	result, ok := d.DetectFromFilename("TEST_Statement.xlsx")
	require.True(t, ok)
	assert.Equal(t, "test", result.BankCode)
	assert.Equal(t, 0.7, result.Confidence)

	_, ok = d.DetectFromFilename("other_bank.xlsx")
	assert.False(t, ok)
}

func TestDetector_DetectFromContent(t *testing.T) {
	d := parsing.NewDetector()
	d.RegisterBank(newStubBank())

	result, ok := d.DetectFromContent("This is a Test Bank statement", "statement.xlsx", parsing.FormatExcel)
	require.True(t, ok)
	assert.Equal(t, "test", result.BankCode)
}

func TestDetector_ConfidenceThreshold(t *testing.T) {
	d := parsing.NewDetector()
	d.RegisterBank(newStubBank())

	// No bank identifiers anywhere: below threshold.
	_, ok := d.DetectFromContent("Generic statement with no identifiers", "generic.xlsx", parsing.FormatExcel)
	assert.False(t, ok)
}

func TestDetectConfidence(t *testing.T) {
	info := newStubBank().info

	assert.InDelta(t, 1.0, parsing.DetectConfidence(info, "test_statement.xlsx", "Test Bank export"), 1e-9)
	assert.InDelta(t, 0.4, parsing.DetectConfidence(info, "test_statement.xlsx", "nothing here"), 1e-9)
	assert.InDelta(t, 0.6, parsing.DetectConfidence(info, "file.xlsx", "TEST STATEMENT"), 1e-9)
	assert.InDelta(t, 0.0, parsing.DetectConfidence(info, "file.xlsx", "nothing here"), 1e-9)
}
