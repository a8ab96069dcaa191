package parsing

import (
	"fmt"
	"path/filepath"
)

// detection below this confidence is treated as no match
const detectionThreshold = 0.3

// Detector identifies which bank produced a statement file, combining
// filename patterns, content keywords and format detection.
type Detector struct {
	banks []Bank
}

// NewDetector creates an empty detector.
func NewDetector() *Detector {
	return &Detector{}
}

// RegisterBank adds a bank to the detection set.
func (d *Detector) RegisterBank(b Bank) {
	d.banks = append(d.banks, b)
}

// Detect identifies the bank and format for a statement file. The content is
// scanned as text, which is lossy for binary spreadsheet formats but still
// catches embedded bank names.
func (d *Detector) Detect(filename string, content []byte) (DetectionResult, error) {
	format, err := d.DetectFormat(filename)
	if err != nil {
		return DetectionResult{}, err
	}

	result, ok := d.DetectFromContent(string(content), filename, format)
	if !ok {
		return DetectionResult{}, fmt.Errorf("%w: could not detect bank for %s", ErrParse, filename)
	}
	return result, nil
}

// DetectFromContent scores every registered bank against the text content and
// filename and returns the best match above the confidence threshold.
func (d *Detector) DetectFromContent(content, filename string, format Format) (DetectionResult, bool) {
	var best DetectionResult
	bestConfidence := 0.0

	for _, bank := range d.banks {
		confidence := DetectConfidence(bank.Info(), filename, content)
		if confidence <= bestConfidence {
			continue
		}
		parser, ok := bank.Parser(format)
		if !ok {
			continue
		}

		bestConfidence = confidence
		reason := "Weak match, low confidence"
		if confidence > 0.8 {
			reason = "Strong match from filename and content"
		} else if confidence > 0.5 {
			reason = "Moderate match from filename or content"
		}
		best = DetectionResult{
			BankCode:        bank.Info().Code,
			Confidence:      confidence,
			Format:          format,
			SuggestedParser: parser.Name(),
			Reason:          reason,
		}
	}

	if bestConfidence < detectionThreshold {
		return DetectionResult{}, false
	}
	return best, true
}

// DetectFromFilename identifies a bank from the file name alone. A
// filename-only match gets moderate confidence.
func (d *Detector) DetectFromFilename(filename string) (DetectionResult, bool) {
	format, err := d.DetectFormat(filename)
	if err != nil {
		return DetectionResult{}, false
	}

	base := filepath.Base(filename)
	for _, bank := range d.banks {
		if !bank.Info().MatchesFilename(base) {
			continue
		}
		parser, ok := bank.Parser(format)
		if !ok {
			continue
		}
		return DetectionResult{
			BankCode:        bank.Info().Code,
			Confidence:      0.7,
			Format:          format,
			SuggestedParser: parser.Name(),
			Reason:          "Matched from filename pattern",
		}, true
	}
	return DetectionResult{}, false
}

// DetectFormat determines the statement format from the file extension.
func (d *Detector) DetectFormat(filename string) (Format, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		return "", fmt.Errorf("%w: no file extension on %s", ErrUnsupportedFormat, filename)
	}
	format, ok := FormatFromExtension(ext)
	if !ok {
		return "", fmt.Errorf("%w: extension %s", ErrUnsupportedFormat, ext)
	}
	return format, nil
}

// RegisteredBanks lists the codes of all banks in the detection set.
func (d *Detector) RegisteredBanks() []string {
	codes := make([]string, 0, len(d.banks))
	for _, b := range d.banks {
		codes = append(codes, b.Info().Code)
	}
	return codes
}
