package dto

import (
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record a transaction by hand.
type CreateTransactionRequest struct {
	AccountID       string                 `json:"accountID" binding:"required"`
	CategoryID      string                 `json:"categoryID"`
	TransactionDate time.Time              `json:"transactionDate" binding:"required"`
	Description     string                 `json:"description" binding:"required"`
	Amount          decimal.Decimal        `json:"amount" binding:"required"`
	Type            domain.TransactionType `json:"transactionType" binding:"required,oneof=debit credit"`
	MerchantName    string                 `json:"merchantName"`
	ReferenceNumber string                 `json:"referenceNumber"`
	Notes           string                 `json:"notes"`
}

// UpdateTransactionRequest defines the data allowed for updating a transaction.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransactionRequest struct {
	CategoryID   *string `json:"categoryID"`
	Description  *string `json:"description"`
	MerchantName *string `json:"merchantName"`
	Notes        *string `json:"notes"`
	IsRecurring  *bool   `json:"isRecurring"`
	IsExcluded   *bool   `json:"isExcluded"`
}

// ListTransactionsParams defines query parameters for filtering transactions.
type ListTransactionsParams struct {
	AccountID       string `form:"accountID"`
	CategoryID      string `form:"categoryID"`
	StatementID     string `form:"statementID"`
	TransactionType string `form:"transactionType" binding:"omitempty,oneof=debit credit"`
	StartDate       string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate         string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
	MinAmount       string `form:"minAmount"`
	MaxAmount       string `form:"maxAmount"`
	Search          string `form:"search"`
	Limit           int    `form:"limit,default=50"`
	Offset          int    `form:"offset,default=0"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	AccountID       string                 `json:"accountID"`
	CategoryID      string                 `json:"categoryID,omitempty"`
	StatementID     string                 `json:"statementID,omitempty"`
	TransactionDate time.Time              `json:"transactionDate"`
	Description     string                 `json:"description"`
	Amount          decimal.Decimal        `json:"amount"`
	Type            domain.TransactionType `json:"transactionType"`
	Balance         *decimal.Decimal       `json:"balance,omitempty"`
	MerchantName    string                 `json:"merchantName,omitempty"`
	ReferenceNumber string                 `json:"referenceNumber,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	IsRecurring     bool                   `json:"isRecurring"`
	IsExcluded      bool                   `json:"isExcluded"`
	CreatedAt       time.Time              `json:"createdAt"`
}

// ListTransactionsResponse wraps a page of transactions with the total count.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Limit        int                   `json:"limit"`
	Offset       int                   `json:"offset"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		CategoryID:      txn.CategoryID,
		StatementID:     txn.StatementID,
		TransactionDate: txn.TransactionDate,
		Description:     txn.Description,
		Amount:          txn.Amount,
		Type:            txn.Type,
		Balance:         txn.Balance,
		MerchantName:    txn.MerchantName,
		ReferenceNumber: txn.ReferenceNumber,
		Notes:           txn.Notes,
		IsRecurring:     txn.IsRecurring,
		IsExcluded:      txn.IsExcluded,
		CreatedAt:       txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a page of domain transactions to the list DTO.
func ToListTransactionResponse(txns []domain.Transaction, total int64, limit, offset int) ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{
		Transactions: res,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}
}
