// Package banks contains the bank-specific statement parsers and the default
// bank set wired into the parser registry.
package banks

import (
	"fmt"
	"strings"

	"github.com/finlens/finlens_backend/internal/parsing"
	"github.com/shopspring/decimal"
)

// ICICI XLS exports: metadata rows 0-10, header at row 10 (0-indexed) with
// columns S No., Value Date, Transaction Date, Cheque Number, Transaction
// Remarks, Withdrawal Amount(INR), Deposit Amount(INR), Balance(INR). Data
// from row 11, dates as DD/MM/YYYY, legend rows trail the data.
type iciciColumns struct {
	valueDate    int
	chequeNumber int
	remarks      int
	withdrawal   int
	deposit      int
	balance      int
}

// ICICIExcelParser parses ICICI Bank Excel statements.
type ICICIExcelParser struct {
	columns      iciciColumns
	headerRow    int
	dataStartRow int
}

// NewICICIExcelParser creates the parser with the standard ICICI layout.
func NewICICIExcelParser() *ICICIExcelParser {
	return &ICICIExcelParser{
		columns: iciciColumns{
			valueDate:    1,
			chequeNumber: 3,
			remarks:      4,
			withdrawal:   5,
			deposit:      6,
			balance:      7,
		},
		headerRow:    10,
		dataStartRow: 11,
	}
}

func (p *ICICIExcelParser) Format() parsing.Format { return parsing.FormatExcel }
func (p *ICICIExcelParser) BankCode() string       { return "icici" }
func (p *ICICIExcelParser) Name() string           { return parsing.ParserName(p.BankCode(), p.Format()) }

func (p *ICICIExcelParser) CanParse(filename string) bool {
	format, ok := parsing.FormatFromExtension(extOf(filename))
	return ok && format == p.Format()
}

// Parse extracts transactions, locating the header row dynamically when the
// export deviates from the standard layout.
func (p *ICICIExcelParser) Parse(data []byte, opts parsing.Options) (parsing.ParseResult, error) {
	rows, err := parsing.ExcelRows(data)
	if err != nil {
		return parsing.ParseResult{}, err
	}

	start := p.dataStartRow
	if opts.SkipRows > 0 {
		start = opts.SkipRows
	}

	if len(rows) <= start || !p.headerLooksRight(rows) {
		found := false
		for i, row := range rows {
			text := strings.ToLower(strings.Join(row, " "))
			if strings.Contains(text, "value date") || strings.Contains(text, "transaction date") {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return parsing.ParseResult{}, fmt.Errorf("%w: ICICI header row not found", parsing.ErrParse)
		}
	}

	return p.parseRows(rows, start, opts)
}

func (p *ICICIExcelParser) headerLooksRight(rows [][]string) bool {
	if len(rows) <= p.headerRow {
		return false
	}
	text := strings.ToLower(strings.Join(rows[p.headerRow], " "))
	return strings.Contains(text, "value date") || strings.Contains(text, "transaction")
}

func (p *ICICIExcelParser) parseRows(rows [][]string, start int, opts parsing.Options) (parsing.ParseResult, error) {
	var transactions []parsing.ParsedTransaction

	for _, row := range rows[min(start, len(rows)):] {
		if parsing.IsRowEmpty(row) {
			continue
		}

		// Legend/footnote section marks the end of data.
		first := strings.ToLower(strings.TrimSpace(parsing.Cell(row, 0)))
		if strings.Contains(first, "legend") || strings.Contains(first, "note:") ||
			(strings.Contains(first, "*") && len(first) < 10) {
			break
		}

		date, ok := parsing.ParseDate(parsing.Cell(row, p.columns.valueDate), opts.DateFormat)
		if !ok {
			continue
		}

		description := strings.TrimSpace(parsing.Cell(row, p.columns.remarks))
		if description == "" {
			continue
		}

		withdrawal, hasWithdrawal := parsing.ParseAmount(parsing.Cell(row, p.columns.withdrawal))
		deposit, hasDeposit := parsing.ParseAmount(parsing.Cell(row, p.columns.deposit))

		var amount decimal.Decimal
		var txType parsing.TransactionType
		switch {
		case hasWithdrawal && !withdrawal.IsZero():
			amount, txType = withdrawal.Abs(), parsing.Debit
		case hasDeposit && !deposit.IsZero():
			amount, txType = deposit.Abs(), parsing.Credit
		default:
			continue
		}

		var balance *decimal.Decimal
		if b, ok := parsing.ParseAmount(parsing.Cell(row, p.columns.balance)); ok {
			balance = &b
		}

		reference := strings.TrimSpace(parsing.Cell(row, p.columns.chequeNumber))
		if reference == "0" {
			reference = ""
		}

		transactions = append(transactions, parsing.ParsedTransaction{
			Date:        date,
			Description: description,
			Amount:      amount,
			Type:        txType,
			Balance:     balance,
			Reference:   reference,
		})
	}

	result := parsing.NewParseResult(transactions)
	result.BankName = "ICICI Bank"
	return result, nil
}

// ICICI is the ICICI Bank registry entry.
type ICICI struct {
	info   parsing.Info
	parser *ICICIExcelParser
}

// NewICICI creates the ICICI Bank entry with its detection patterns.
func NewICICI() *ICICI {
	return &ICICI{
		info: parsing.Info{
			Name: "ICICI Bank",
			Code: "icici",
			Aliases: []string{
				"ICICI",
				"ICICI Bank",
				"Industrial Credit and Investment Corporation of India",
			},
			DetectionPatterns: []parsing.DetectionPattern{
				{ContentContains: []string{"ICICI Bank", "Industrial Credit and Investment Corporation", "ICICI Ltd"}},
				{FilenameRegex: `(?i)icici.*statement`},
			},
		},
		parser: NewICICIExcelParser(),
	}
}

func (b *ICICI) Info() parsing.Info { return b.info }

func (b *ICICI) Parser(format parsing.Format) (parsing.FormatParser, bool) {
	if format == parsing.FormatExcel {
		return b.parser, true
	}
	return nil, false
}

func (b *ICICI) Parsers() []parsing.FormatParser {
	return []parsing.FormatParser{b.parser}
}

func extOf(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i+1:]
	}
	return ""
}
