// Package parsing provides the bank-statement parsing framework: shared
// transaction types, a bank detector, a parser registry and Excel utilities
// reused by the bank-specific parsers.
package parsing

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel errors returned by parsers and the registry.
var (
	ErrUnsupportedFormat = errors.New("unsupported statement format")
	ErrParse             = errors.New("statement parse error")
	ErrBankNotFound      = errors.New("bank not registered")
	ErrNoParser          = errors.New("no parser for format")
)

// TransactionType indicates whether a statement line is money in or money out.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// ParsedTransaction is a single line item extracted from a bank statement.
type ParsedTransaction struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Type        TransactionType  `json:"transactionType"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	Reference   string           `json:"reference,omitempty"`
	Mode        string           `json:"mode,omitempty"`
}

// ParseResult is the outcome of parsing one statement file.
type ParseResult struct {
	Transactions  []ParsedTransaction `json:"transactions"`
	StartDate     *time.Time          `json:"startDate,omitempty"`
	EndDate       *time.Time          `json:"endDate,omitempty"`
	AccountNumber string              `json:"accountNumber,omitempty"`
	BankName      string              `json:"bankName,omitempty"`
}

// NewParseResult builds a ParseResult and derives the covered date range from
// the transactions.
func NewParseResult(transactions []ParsedTransaction) ParseResult {
	result := ParseResult{Transactions: transactions}
	for i := range transactions {
		d := transactions[i].Date
		if result.StartDate == nil || d.Before(*result.StartDate) {
			start := d
			result.StartDate = &start
		}
		if result.EndDate == nil || d.After(*result.EndDate) {
			end := d
			result.EndDate = &end
		}
	}
	return result
}

// Options adjusts parser behaviour for non-standard exports.
type Options struct {
	DateFormat string
	SkipRows   int
}

// Format identifies a statement file format.
type Format string

const (
	FormatExcel Format = "excel"
)

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatFromExtension maps a file extension (with or without dot) to a Format.
func FormatFromExtension(ext string) (Format, bool) {
	switch normalizeExt(ext) {
	case "xlsx", "xls":
		return FormatExcel, true
	default:
		return "", false
	}
}

// Extensions lists the file extensions covered by this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatExcel:
		return []string{"xlsx", "xls"}
	default:
		return nil
	}
}

// FormatParser parses statements of a single format for a single bank.
type FormatParser interface {
	// Format returns the file format this parser handles.
	Format() Format

	// BankCode returns the code of the bank this parser belongs to.
	BankCode() string

	// Name identifies the parser, e.g. "icici-excel".
	Name() string

	// CanParse reports whether the parser is a candidate for the file.
	CanParse(filename string) bool

	// Parse extracts transactions from the raw file bytes.
	Parse(data []byte, opts Options) (ParseResult, error)
}

// ParserName builds the conventional parser identifier.
func ParserName(bankCode string, format Format) string {
	return bankCode + "-" + string(format)
}
