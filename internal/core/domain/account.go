package domain

import "github.com/shopspring/decimal"

// AccountType categorizes a bank account.
type AccountType string

const (
	AccountChecking   AccountType = "checking"
	AccountSavings    AccountType = "savings"
	AccountCreditCard AccountType = "credit_card"
	AccountInvestment AccountType = "investment"
)

// BankAccount represents a user's bank account that statements are imported
// into.
type BankAccount struct {
	AccountID          string          `json:"accountID"` // Primary Key (UUID)
	UserID             string          `json:"userID"`    // FK -> User
	Name               string          `json:"name"`
	AccountType        AccountType     `json:"accountType"`
	Institution        string          `json:"institution,omitempty"`
	AccountNumberLast4 string          `json:"accountNumberLast4,omitempty"`
	CurrencyCode       string          `json:"currencyCode"` // e.g. "INR"
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
	Color              string          `json:"color,omitempty"`
	IsActive           bool            `json:"isActive"`
	AuditFields
}
