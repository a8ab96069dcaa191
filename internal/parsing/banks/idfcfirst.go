package banks

import (
	"fmt"
	"strings"

	"github.com/finlens/finlens_backend/internal/parsing"
	"github.com/shopspring/decimal"
)

// IDFC First XLSX exports: metadata rows 0-18, header at row 19 (0-indexed)
// with columns Transaction Date, Value Date, Particulars, Cheque No., Debit,
// Credit, Balance. Data from row 20, dates as DD-Mon-YYYY, summary rows at
// the end.
type idfcFirstColumns struct {
	transactionDate int
	particulars     int
	chequeNo        int
	debit           int
	credit          int
	balance         int
}

// IDFCFirstExcelParser parses IDFC First Bank Excel statements.
type IDFCFirstExcelParser struct {
	columns      idfcFirstColumns
	headerRow    int
	dataStartRow int
}

// NewIDFCFirstExcelParser creates the parser with the standard IDFC layout.
func NewIDFCFirstExcelParser() *IDFCFirstExcelParser {
	return &IDFCFirstExcelParser{
		columns: idfcFirstColumns{
			transactionDate: 0,
			particulars:     2,
			chequeNo:        3,
			debit:           4,
			credit:          5,
			balance:         6,
		},
		headerRow:    19,
		dataStartRow: 20,
	}
}

func (p *IDFCFirstExcelParser) Format() parsing.Format { return parsing.FormatExcel }
func (p *IDFCFirstExcelParser) BankCode() string       { return "idfc_first" }
func (p *IDFCFirstExcelParser) Name() string {
	return parsing.ParserName(p.BankCode(), p.Format())
}

func (p *IDFCFirstExcelParser) CanParse(filename string) bool {
	format, ok := parsing.FormatFromExtension(extOf(filename))
	return ok && format == p.Format()
}

func (p *IDFCFirstExcelParser) Parse(data []byte, opts parsing.Options) (parsing.ParseResult, error) {
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
			if strings.Contains(text, "transaction date") ||
				(strings.Contains(text, "particulars") && strings.Contains(text, "debit") && strings.Contains(text, "credit")) {
				start = i + 1
				found = true
				break
			}
		}
		if !found {
			return parsing.ParseResult{}, fmt.Errorf("%w: IDFC First header row not found", parsing.ErrParse)
		}
	}

	return p.parseRows(rows, start, opts)
}

func (p *IDFCFirstExcelParser) headerLooksRight(rows [][]string) bool {
	if len(rows) <= p.headerRow {
		return false
	}
	text := strings.ToLower(strings.Join(rows[p.headerRow], " "))
	return strings.Contains(text, "transaction date") || strings.Contains(text, "particulars")
}

func (p *IDFCFirstExcelParser) parseRows(rows [][]string, start int, opts parsing.Options) (parsing.ParseResult, error) {
	var transactions []parsing.ParsedTransaction
	consecutiveEmpty := 0

	for _, row := range rows[min(start, len(rows)):] {
		if parsing.IsRowEmpty(row) {
			consecutiveEmpty++
			if consecutiveEmpty >= 3 {
				break
			}
			continue
		}
		consecutiveEmpty = 0

		// Summary section marks the end of data.
		first := strings.ToLower(strings.TrimSpace(parsing.Cell(row, 0)))
		if strings.Contains(first, "total") || strings.Contains(first, "opening balance") ||
			strings.Contains(first, "closing balance") || strings.Contains(first, "summary") {
			break
		}

		date, ok := parsing.ParseDate(parsing.Cell(row, p.columns.transactionDate), opts.DateFormat)
		if !ok {
			continue
		}

		description := strings.TrimSpace(parsing.Cell(row, p.columns.particulars))
		if description == "" {
			continue
		}

		debit, hasDebit := parsing.ParseAmount(parsing.Cell(row, p.columns.debit))
		credit, hasCredit := parsing.ParseAmount(parsing.Cell(row, p.columns.credit))

		var amount decimal.Decimal
		var txType parsing.TransactionType
		switch {
		case hasDebit && !debit.IsZero():
			amount, txType = debit.Abs(), parsing.Debit
		case hasCredit && !credit.IsZero():
			amount, txType = credit.Abs(), parsing.Credit
		default:
			continue
		}

		var balance *decimal.Decimal
		if b, ok := parsing.ParseAmount(parsing.Cell(row, p.columns.balance)); ok {
			balance = &b
		}

		reference := strings.TrimSpace(parsing.Cell(row, p.columns.chequeNo))
		if reference == "0" || reference == "-" {
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
	result.BankName = "IDFC First Bank"
	return result, nil
}

// IDFCFirst is the IDFC First Bank registry entry.
type IDFCFirst struct {
	info   parsing.Info
	parser *IDFCFirstExcelParser
}

// NewIDFCFirst creates the IDFC First entry with its detection patterns.
func NewIDFCFirst() *IDFCFirst {
	return &IDFCFirst{
		info: parsing.Info{
			Name: "IDFC First Bank",
			Code: "idfc_first",
			Aliases: []string{
				"IDFC FIRST",
				"IDFC First",
				"IDFC First Bank",
				"IDFCFirstBank",
				"IDFCFIRST",
			},
			DetectionPatterns: []parsing.DetectionPattern{
				{ContentContains: []string{"IDFC FIRST", "IDFC First Bank", "IDFCFirstBank"}},
				{FilenameRegex: `(?i)idfc.*first.*statement`},
				{FilenameRegex: `(?i)idfcfirst.*bank.*statement`},
				{FilenameRegex: `(?i)IDFCFIRSTBank`},
			},
		},
		parser: NewIDFCFirstExcelParser(),
	}
}

func (b *IDFCFirst) Info() parsing.Info { return b.info }

func (b *IDFCFirst) Parser(format parsing.Format) (parsing.FormatParser, bool) {
	if format == parsing.FormatExcel {
		return b.parser, true
	}
	return nil, false
}

func (b *IDFCFirst) Parsers() []parsing.FormatParser {
	return []parsing.FormatParser{b.parser}
}

// Defaults returns the banks registered out of the box.
func Defaults() []parsing.Bank {
	return []parsing.Bank{NewICICI(), NewIDFCFirst()}
}
