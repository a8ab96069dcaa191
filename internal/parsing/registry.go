package parsing

import (
	"fmt"
	"sort"
)

// Registry holds the supported banks and routes statement files to the right
// parser, with automatic bank detection and an extension-based fallback.
type Registry struct {
	banks    map[string]Bank
	detector *Detector
}

// NewRegistry creates a registry pre-populated with the given banks.
func NewRegistry(banks ...Bank) *Registry {
	r := &Registry{
		banks:    make(map[string]Bank),
		detector: NewDetector(),
	}
	for _, b := range banks {
		r.RegisterBank(b)
	}
	return r
}

// RegisterBank adds a bank to the registry and its detector.
func (r *Registry) RegisterBank(b Bank) {
	r.banks[b.Info().Code] = b
	r.detector.RegisterBank(b)
}

// Bank returns the registered bank with the given code.
func (r *Registry) Bank(code string) (Bank, bool) {
	b, ok := r.banks[code]
	return b, ok
}

// AutoParse detects the bank from filename and content, parses with the
// bank-specific parser, and falls back to trying every parser for the file's
// format when detection fails.
func (r *Registry) AutoParse(filename string, data []byte, opts Options) (ParseResult, error) {
	if detection, err := r.detector.Detect(filename, data); err == nil {
		if bank, ok := r.Bank(detection.BankCode); ok {
			if parser, ok := bank.Parser(detection.Format); ok {
				result, err := parser.Parse(data, opts)
				if err == nil {
					result.BankName = bank.Info().Name
					return result, nil
				}
			}
		}
	}

	return r.parseByExtension(filename, data, opts)
}

// ParseWithBank parses with an explicitly chosen bank and format, bypassing
// detection.
func (r *Registry) ParseWithBank(bankCode string, format Format, data []byte, opts Options) (ParseResult, error) {
	bank, ok := r.Bank(bankCode)
	if !ok {
		return ParseResult{}, fmt.Errorf("%w: %s", ErrBankNotFound, bankCode)
	}
	parser, ok := bank.Parser(format)
	if !ok {
		return ParseResult{}, fmt.Errorf("%w: format %s for bank %s", ErrNoParser, format, bankCode)
	}

	result, err := parser.Parse(data, opts)
	if err != nil {
		return ParseResult{}, err
	}
	result.BankName = bank.Info().Name
	return result, nil
}

// parseByExtension tries every registered bank's parser for the format
// implied by the file extension and returns the first success.
func (r *Registry) parseByExtension(filename string, data []byte, opts Options) (ParseResult, error) {
	format, err := r.detector.DetectFormat(filename)
	if err != nil {
		return ParseResult{}, err
	}

	for _, code := range r.ListBanks() {
		bank := r.banks[code]
		parser, ok := bank.Parser(format)
		if !ok || !parser.CanParse(filename) {
			continue
		}
		result, err := parser.Parse(data, opts)
		if err != nil {
			continue
		}
		result.BankName = bank.Info().Name
		return result, nil
	}

	return ParseResult{}, fmt.Errorf("%w: no parser succeeded for %s", ErrUnsupportedFormat, filename)
}

// ListBanks returns the registered bank codes in stable order.
func (r *Registry) ListBanks() []string {
	codes := make([]string, 0, len(r.banks))
	for code := range r.banks {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ListParsers returns the names of every registered parser.
func (r *Registry) ListParsers() []string {
	var names []string
	for _, code := range r.ListBanks() {
		for _, p := range r.banks[code].Parsers() {
			names = append(names, p.Name())
		}
	}
	return names
}

// SupportedExtensions returns every file extension the registry can handle.
func (r *Registry) SupportedExtensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, code := range r.ListBanks() {
		for _, p := range r.banks[code].Parsers() {
			for _, ext := range p.Format().Extensions() {
				if !seen[ext] {
					seen[ext] = true
					exts = append(exts, ext)
				}
			}
		}
	}
	sort.Strings(exts)
	return exts
}

// BankParsers returns the parser names for one bank.
func (r *Registry) BankParsers(bankCode string) ([]string, bool) {
	bank, ok := r.Bank(bankCode)
	if !ok {
		return nil, false
	}
	var names []string
	for _, p := range bank.Parsers() {
		names = append(names, p.Name())
	}
	return names, true
}

// Detector exposes the registry's bank detector.
func (r *Registry) Detector() *Detector {
	return r.detector
}
