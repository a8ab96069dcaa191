package parsing

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finlens/finlens_backend/pkg/moneyparse"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExcelRows reads all rows from the first sheet of a spreadsheet.
func ExcelRows(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets in workbook", ErrParse)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrParse, sheets[0], err)
	}
	return rows, nil
}

// IsRowEmpty reports whether every cell in the row is blank.
func IsRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Cell returns the cell at idx, tolerating short rows.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// statement date layouts seen across bank exports
var dateLayouts = []string{
	"02-01-2006", // 31-12-2024
	"02/01/2006", // 31/12/2024
	"02-01-06",   // 31-12-24
	"02/01/06",   // 31/12/24
	"2 Jan 2006", // 31 Dec 2024
	"02-Jan-2006",
	"2-Jan-2006", // 16-Jan-2025
	"02-Jan-06",
	"2 January 2006",
	"2006-01-02",
	"2006/01/02",
	"Jan 2 2006",
	"January 2 2006",
}

// ParseDate parses a statement date cell. It tries the explicit layout first,
// then the known bank formats, then Excel serial numbers.
func ParseDate(text, layout string) (time.Time, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return time.Time{}, false
	}

	if layout != "" {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, true
		}
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, trimmed); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return dateFromSerial(serial)
	}
	return time.Time{}, false
}

// dateFromSerial converts an Excel serial date number, using the 1900 date
// system. Serial 60 is the nonexistent 1900-02-29, so later serials shift by
// one day.
func dateFromSerial(serial float64) (time.Time, bool) {
	if serial < 1 {
		return time.Time{}, false
	}
	adjusted := serial
	if serial >= 60 {
		adjusted -= 1
	}
	base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, int(adjusted)), true
}

// currency markers seen in statement amount cells
var currencyTokens = strings.NewReplacer(
	"$", "", "₹", "", "Rs.", "", "Rs", "", "INR", "", "USD", "", "EUR", "", "GBP", "",
)

// CleanAmount normalizes an amount cell to a bare signed decimal numeral.
// It strips currency symbols and codes, grouping commas and whitespace, and
// resolves parenthesised negatives and the CR/DR suffixes used by Indian
// banks. Empty, "-" and "0" cells are treated as absent.
func CleanAmount(text string) (string, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" || cleaned == "-" || cleaned == "0" {
		return "", false
	}

	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	upper := strings.ToUpper(strings.TrimSpace(cleaned))
	if strings.HasSuffix(upper, "DR") {
		negative = true
		cleaned = cleaned[:len(cleaned)-2]
	} else if strings.HasSuffix(upper, "CR") {
		cleaned = cleaned[:len(cleaned)-2]
	}

	// "Rs." carries a dot that must go with the marker, not the numeral.
	cleaned = currencyTokens.Replace(cleaned)

	numeral := moneyparse.NormalizeNumeral(cleaned)
	if numeral == "" {
		return "", false
	}
	if negative && !strings.HasPrefix(numeral, "-") {
		numeral = "-" + numeral
	}
	return numeral, true
}

// ParseAmount parses an amount cell to a decimal.
func ParseAmount(text string) (decimal.Decimal, bool) {
	numeral, ok := CleanAmount(text)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(numeral)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ColumnMapping holds detected column indices for a statement sheet. -1 means
// the column was not found.
type ColumnMapping struct {
	Date        int
	PostedDate  int
	Description int
	Amount      int
	Debit       int
	Credit      int
	Balance     int
	Reference   int
	Type        int
}

// Valid reports whether the mapping covers the minimum columns needed to
// extract transactions.
func (m ColumnMapping) Valid() bool {
	return m.Date >= 0 && (m.Amount >= 0 || m.Debit >= 0 || m.Credit >= 0)
}

// DetectColumns maps header-row cell names to column roles.
func DetectColumns(headers []string) ColumnMapping {
	m := ColumnMapping{Date: -1, PostedDate: -1, Description: -1, Amount: -1, Debit: -1, Credit: -1, Balance: -1, Reference: -1, Type: -1}

	for i, header := range headers {
		lower := strings.ToLower(strings.TrimSpace(header))
		switch {
		case strings.Contains(lower, "date") && m.Date < 0:
			if strings.Contains(lower, "post") || strings.Contains(lower, "value") || strings.Contains(lower, "txn") {
				if m.PostedDate < 0 {
					m.PostedDate = i
				}
			} else {
				m.Date = i
			}
		case (strings.Contains(lower, "description") || strings.Contains(lower, "particulars") ||
			strings.Contains(lower, "narration") || strings.Contains(lower, "details") ||
			strings.Contains(lower, "remark")) && m.Description < 0:
			m.Description = i
		case strings.Contains(lower, "amount") && m.Amount < 0:
			m.Amount = i
		case (strings.Contains(lower, "debit") || strings.Contains(lower, "withdraw") || lower == "dr") && m.Debit < 0:
			m.Debit = i
		case (strings.Contains(lower, "credit") || strings.Contains(lower, "deposit") || lower == "cr") && m.Credit < 0:
			m.Credit = i
		case strings.Contains(lower, "balance") && m.Balance < 0:
			m.Balance = i
		case (strings.Contains(lower, "ref") || strings.Contains(lower, "cheque") || strings.Contains(lower, "check") ||
			strings.Contains(lower, "transaction id") || strings.Contains(lower, "txn id")) && m.Reference < 0:
			m.Reference = i
		case (strings.Contains(lower, "type") || strings.Contains(lower, "mode") || strings.Contains(lower, "category")) && m.Type < 0:
			m.Type = i
		}
	}

	// Fall back to a posted/value date when no plain date column exists.
	if m.Date < 0 && m.PostedDate >= 0 {
		m.Date = m.PostedDate
		m.PostedDate = -1
	}
	return m
}
