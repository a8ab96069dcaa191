package banks_test

import (
	"testing"

	"github.com/finlens/finlens_backend/internal/parsing"
	"github.com/finlens/finlens_backend/internal/parsing/banks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into a fresh xlsx and returns its bytes.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// iciciWorkbook mimics the ICICI XLS layout: ten metadata rows, a header at
// row 11 and data rows after it.
func iciciWorkbook(t *testing.T) []byte {
	rows := [][]any{
		{"ICICI Bank Limited"},
		{"Account Statement"},
	}
	for len(rows) < 10 {
		rows = append(rows, []any{""})
	}
	rows = append(rows, []any{"S No.", "Value Date", "Transaction Date", "Cheque Number", "Transaction Remarks", "Withdrawal Amount(INR)", "Deposit Amount(INR)", "Balance(INR)"})
	rows = append(rows,
		[]any{"1", "02/01/2025", "02/01/2025", "0", "UPI/groceries", "1,250.50", "", "48,749.50"},
		[]any{"2", "03/01/2025", "03/01/2025", "123456", "NEFT/salary", "", "75,000.00", "1,23,749.50"},
		[]any{"3", "04/01/2025", "04/01/2025", "0", "ATM withdrawal", "5,000.00", "", "1,18,749.50"},
		[]any{"Legend"},
		[]any{"UPI - Unified Payments Interface"},
	)
	return buildWorkbook(t, rows)
}

// idfcWorkbook mimics the IDFC First XLSX layout with a dynamic header
// position to exercise the header search.
func idfcWorkbook(t *testing.T) []byte {
	rows := [][]any{
		{"IDFC FIRST Bank"},
		{"Statement of Account"},
		{""},
		{"Transaction Date", "Value Date", "Particulars", "Cheque No.", "Debit", "Credit", "Balance"},
		{"16-Jan-2025", "16-Jan-2025", "POS/amazon order", "-", "2,349.00", "", "97,651.00"},
		{"17-Jan-2025", "17-Jan-2025", "IMPS/refund", "-", "", "349.00", "98,000.00"},
		{"Total", "", "", "", "2,349.00", "349.00", ""},
	}
	return buildWorkbook(t, rows)
}

func TestICICI_Info(t *testing.T) {
	bank := banks.NewICICI()
	assert.Equal(t, "ICICI Bank", bank.Info().Name)
	assert.Equal(t, "icici", bank.Info().Code)
	assert.NotEmpty(t, bank.Info().Aliases)

	_, ok := bank.Parser(parsing.FormatExcel)
	assert.True(t, ok)
	_, ok = bank.Parser(parsing.Format("ofx"))
	assert.False(t, ok)
}

func TestICICI_MatchesFilename(t *testing.T) {
	info := banks.NewICICI().Info()
	assert.True(t, info.MatchesFilename("ICICI_Statement_Dec2024.xls"))
	assert.True(t, info.MatchesFilename("icici_bank_statement.xlsx"))
	assert.False(t, info.MatchesFilename("HDFC_Statement.xls"))
}

func TestICICIExcelParser_Parse(t *testing.T) {
	parser := banks.NewICICIExcelParser()
	result, err := parser.Parse(iciciWorkbook(t), parsing.Options{})
	require.NoError(t, err)

	require.Len(t, result.Transactions, 3)

	first := result.Transactions[0]
	assert.Equal(t, "UPI/groceries", first.Description)
	assert.Equal(t, parsing.Debit, first.Type)
	assert.Equal(t, "1250.5", first.Amount.String())
	assert.Empty(t, first.Reference)
	require.NotNil(t, first.Balance)
	assert.Equal(t, "48749.5", first.Balance.String())

	second := result.Transactions[1]
	assert.Equal(t, parsing.Credit, second.Type)
	assert.Equal(t, "75000", second.Amount.String())
	assert.Equal(t, "123456", second.Reference)

	assert.Equal(t, "ICICI Bank", result.BankName)
	require.NotNil(t, result.StartDate)
	require.NotNil(t, result.EndDate)
	assert.Equal(t, 2, result.StartDate.Day())
	assert.Equal(t, 4, result.EndDate.Day())
}

func TestICICIExcelParser_NoHeader(t *testing.T) {
	data := buildWorkbook(t, [][]any{{"just"}, {"noise"}})
	_, err := banks.NewICICIExcelParser().Parse(data, parsing.Options{})
	assert.ErrorIs(t, err, parsing.ErrParse)
}

func TestIDFCFirst_Info(t *testing.T) {
	bank := banks.NewIDFCFirst()
	assert.Equal(t, "IDFC First Bank", bank.Info().Name)
	assert.Equal(t, "idfc_first", bank.Info().Code)
	assert.True(t, bank.Info().MatchesFilename("IDFC_First_Statement.xlsx"))
}

func TestIDFCFirstExcelParser_Parse(t *testing.T) {
	parser := banks.NewIDFCFirstExcelParser()
	result, err := parser.Parse(idfcWorkbook(t), parsing.Options{})
	require.NoError(t, err)

	// The Total row must not become a transaction.
	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, "POS/amazon order", first.Description)
	assert.Equal(t, parsing.Debit, first.Type)
	assert.Equal(t, "2349", first.Amount.String())
	assert.Empty(t, first.Reference)

	second := result.Transactions[1]
	assert.Equal(t, parsing.Credit, second.Type)
	assert.Equal(t, "349", second.Amount.String())

	assert.Equal(t, "IDFC First Bank", result.BankName)
}

func TestRegistry_Defaults(t *testing.T) {
	registry := parsing.NewRegistry(banks.Defaults()...)

	assert.Equal(t, []string{"icici", "idfc_first"}, registry.ListBanks())
	assert.ElementsMatch(t, []string{"icici-excel", "idfc_first-excel"}, registry.ListParsers())
	assert.ElementsMatch(t, []string{"xls", "xlsx"}, registry.SupportedExtensions())

	_, ok := registry.Bank("icici")
	assert.True(t, ok)
	_, ok = registry.Bank("sbi")
	assert.False(t, ok)

	parsers, ok := registry.BankParsers("icici")
	require.True(t, ok)
	assert.Contains(t, parsers, "icici-excel")
}

func TestRegistry_AutoParse_ByFilename(t *testing.T) {
	registry := parsing.NewRegistry(banks.Defaults()...)

	result, err := registry.AutoParse("ICICI_Statement_Jan2025.xlsx", iciciWorkbook(t), parsing.Options{})
	require.NoError(t, err)
	assert.Equal(t, "ICICI Bank", result.BankName)
	assert.Len(t, result.Transactions, 3)
}

func TestRegistry_AutoParse_FallbackByExtension(t *testing.T) {
	registry := parsing.NewRegistry(banks.Defaults()...)

	// Nothing in the filename identifies the bank; the registry must still
	// find a parser that accepts the layout.
	result, err := registry.AutoParse("statement_jan.xlsx", idfcWorkbook(t), parsing.Options{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Transactions)
}

func TestRegistry_ParseWithBank(t *testing.T) {
	registry := parsing.NewRegistry(banks.Defaults()...)

	result, err := registry.ParseWithBank("idfc_first", parsing.FormatExcel, idfcWorkbook(t), parsing.Options{})
	require.NoError(t, err)
	assert.Equal(t, "IDFC First Bank", result.BankName)

	_, err = registry.ParseWithBank("sbi", parsing.FormatExcel, nil, parsing.Options{})
	assert.ErrorIs(t, err, parsing.ErrBankNotFound)

	_, err = registry.ParseWithBank("icici", parsing.Format("ofx"), nil, parsing.Options{})
	assert.ErrorIs(t, err, parsing.ErrNoParser)
}

func TestRegistry_AutoParse_UnsupportedExtension(t *testing.T) {
	registry := parsing.NewRegistry(banks.Defaults()...)
	_, err := registry.AutoParse("statement.csv", []byte("a,b,c"), parsing.Options{})
	assert.ErrorIs(t, err, parsing.ErrUnsupportedFormat)
}
