package domain

import "time"

// StatementStatus tracks a statement upload through its processing pipeline.
type StatementStatus string

const (
	StatementPending    StatementStatus = "pending"
	StatementProcessing StatementStatus = "processing"
	StatementCompleted  StatementStatus = "completed"
	StatementFailed     StatementStatus = "failed"
)

// ParseStatementStatus maps free-form status text to a StatementStatus,
// defaulting to pending.
func ParseStatementStatus(s string) StatementStatus {
	switch StatementStatus(s) {
	case StatementProcessing, StatementCompleted, StatementFailed:
		return StatementStatus(s)
	default:
		return StatementPending
	}
}

// Statement records one uploaded bank statement file and the outcome of
// parsing it.
type Statement struct {
	StatementID         string          `json:"statementID"` // Primary Key (UUID)
	UserID              string          `json:"userID"`      // FK -> User
	AccountID           string          `json:"accountID,omitempty"`
	Filename            string          `json:"filename"`
	FilePath            string          `json:"filePath"`
	FileSize            int64           `json:"fileSize"`
	FileType            string          `json:"fileType"`
	Status              StatementStatus `json:"status"`
	StatementDate       *time.Time      `json:"statementDate,omitempty"`
	StartDate           *time.Time      `json:"startDate,omitempty"`
	EndDate             *time.Time      `json:"endDate,omitempty"`
	TransactionCount    int             `json:"transactionCount"`
	ErrorMessage        string          `json:"errorMessage,omitempty"`
	ProcessedAt         *time.Time      `json:"processedAt,omitempty"`
	BankName            string          `json:"bankName,omitempty"`
	DetectionConfidence int             `json:"detectionConfidence,omitempty"` // percent
	ParserUsed          string          `json:"parserUsed,omitempty"`
	AuditFields
}
