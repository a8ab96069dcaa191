package dto

import (
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// StatementResponse defines the data returned for an uploaded statement.
type StatementResponse struct {
	StatementID         string                 `json:"statementID"`
	AccountID           string                 `json:"accountID,omitempty"`
	Filename            string                 `json:"filename"`
	FileSize            int64                  `json:"fileSize"`
	FileType            string                 `json:"fileType"`
	Status              domain.StatementStatus `json:"status"`
	StartDate           *time.Time             `json:"startDate,omitempty"`
	EndDate             *time.Time             `json:"endDate,omitempty"`
	TransactionCount    int                    `json:"transactionCount"`
	ErrorMessage        string                 `json:"errorMessage,omitempty"`
	ProcessedAt         *time.Time             `json:"processedAt,omitempty"`
	BankName            string                 `json:"bankName,omitempty"`
	DetectionConfidence int                    `json:"detectionConfidence,omitempty"`
	ParserUsed          string                 `json:"parserUsed,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
}

// ToStatementResponse converts a domain.Statement to StatementResponse DTO
func ToStatementResponse(st *domain.Statement) StatementResponse {
	return StatementResponse{
		StatementID:         st.StatementID,
		AccountID:           st.AccountID,
		Filename:            st.Filename,
		FileSize:            st.FileSize,
		FileType:            st.FileType,
		Status:              st.Status,
		StartDate:           st.StartDate,
		EndDate:             st.EndDate,
		TransactionCount:    st.TransactionCount,
		ErrorMessage:        st.ErrorMessage,
		ProcessedAt:         st.ProcessedAt,
		BankName:            st.BankName,
		DetectionConfidence: st.DetectionConfidence,
		ParserUsed:          st.ParserUsed,
		CreatedAt:           st.CreatedAt,
	}
}

// ToListStatementResponse converts a slice of domain.Statement to StatementResponse DTOs
func ToListStatementResponse(statements []domain.Statement) []StatementResponse {
	res := make([]StatementResponse, len(statements))
	for i := range statements {
		res[i] = ToStatementResponse(&statements[i])
	}
	return res
}

// ParsedTransactionPreview is one parsed statement row shown to the user
// before import.
type ParsedTransactionPreview struct {
	TransactionDate time.Time              `json:"transactionDate"`
	Description     string                 `json:"description"`
	Amount          decimal.Decimal        `json:"amount"`
	Type            domain.TransactionType `json:"transactionType"`
	Balance         *decimal.Decimal       `json:"balance,omitempty"`
	ReferenceNumber string                 `json:"referenceNumber,omitempty"`
	IsDuplicate     bool                   `json:"isDuplicate"`
}

// StatementPreviewResponse is returned after a statement upload: the parsed
// rows plus detection metadata, before anything is imported.
type StatementPreviewResponse struct {
	Statement      StatementResponse          `json:"statement"`
	Transactions   []ParsedTransactionPreview `json:"transactions"`
	DuplicateCount int                        `json:"duplicateCount"`
	DetectedBank   string                     `json:"detectedBank,omitempty"`
	ParserUsed     string                     `json:"parserUsed"`
}

// ImportResultResponse summarizes a confirmed statement import.
type ImportResultResponse struct {
	StatementID      string `json:"statementID"`
	ImportedCount    int    `json:"importedCount"`
	SkippedCount     int    `json:"skippedCount"`
	TransactionCount int    `json:"transactionCount"`
}

// BankInfoResponse describes a bank whose statements can be parsed.
type BankInfoResponse struct {
	Name             string   `json:"name"`
	Code             string   `json:"code"`
	SupportedFormats []string `json:"supportedFormats"`
}
