package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates money in (credit) or money out (debit).
type TransactionType string

const (
	Debit  TransactionType = "debit"
	Credit TransactionType = "credit"
)

// Transaction is a single money movement on a bank account, usually imported
// from a statement but also creatable by hand.
type Transaction struct {
	TransactionID   string           `json:"transactionID"` // Primary Key (UUID)
	UserID          string           `json:"userID"`        // FK -> User
	AccountID       string           `json:"accountID"`     // FK -> BankAccount
	CategoryID      string           `json:"categoryID,omitempty"`
	StatementID     string           `json:"statementID,omitempty"` // set when imported
	TransactionDate time.Time        `json:"transactionDate"`
	PostedDate      *time.Time       `json:"postedDate,omitempty"`
	Description     string           `json:"description"`
	OriginalDesc    string           `json:"originalDescription,omitempty"` // as parsed from the statement
	Amount          decimal.Decimal  `json:"amount"`                        // positive; sign carried by Type
	Type            TransactionType  `json:"transactionType"`
	Balance         *decimal.Decimal `json:"balance,omitempty"` // running balance from the statement
	MerchantName    string           `json:"merchantName,omitempty"`
	ReferenceNumber string           `json:"referenceNumber,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	IsRecurring     bool             `json:"isRecurring"`
	IsExcluded      bool             `json:"isExcluded"` // excluded from insight aggregates
	DedupHash       string           `json:"-"`
	AuditFields
}

// DedupHash computes the deduplication fingerprint for an imported
// transaction. Description and reference are normalized (trimmed, lowercased)
// and the amount is hashed by absolute value since the sign already lives in
// the transaction type.
func DedupHash(userID, accountID string, date time.Time, amount decimal.Decimal, description string, txType TransactionType, reference string) string {
	h := sha256.New()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(accountID))
	h.Write([]byte{0})
	h.Write([]byte(date.Format("2006-01-02")))
	h.Write([]byte{0})
	h.Write([]byte(amount.Abs().String()))
	h.Write([]byte{0})
	h.Write([]byte(strings.ToLower(strings.TrimSpace(description))))
	h.Write([]byte{0})
	h.Write([]byte(txType))
	if ref := strings.ToLower(strings.TrimSpace(reference)); ref != "" {
		h.Write([]byte{0})
		h.Write([]byte(ref))
	}
	return hex.EncodeToString(h.Sum(nil))
}
