package dto

import (
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new bank account.
type CreateAccountRequest struct {
	Name               string             `json:"name" binding:"required"`
	AccountType        domain.AccountType `json:"accountType" binding:"required,oneof=checking savings credit_card investment"`
	Institution        string             `json:"institution"`
	AccountNumberLast4 string             `json:"accountNumberLast4" binding:"omitempty,numeric,max=4"`
	CurrencyCode       string             `json:"currencyCode" binding:"omitempty,currencycode"`
	Color              string             `json:"color"`
	Balance            *decimal.Decimal   `json:"balance"` // Optional opening balance
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Institution *string `json:"institution"`
	Color       *string `json:"color"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse defines the data returned for a bank account.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	Name               string             `json:"name"`
	AccountType        domain.AccountType `json:"accountType"`
	Institution        string             `json:"institution"`
	AccountNumberLast4 string             `json:"accountNumberLast4"`
	CurrencyCode       string             `json:"currencyCode"`
	CurrentBalance     decimal.Decimal    `json:"currentBalance"`
	Color              string             `json:"color"`
	IsActive           bool               `json:"isActive"`
	CreatedAt          time.Time          `json:"createdAt"`
	LastUpdatedAt      time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.BankAccount to AccountResponse DTO
func ToAccountResponse(acc *domain.BankAccount) AccountResponse {
	return AccountResponse{
		AccountID:          acc.AccountID,
		Name:               acc.Name,
		AccountType:        acc.AccountType,
		Institution:        acc.Institution,
		AccountNumberLast4: acc.AccountNumberLast4,
		CurrencyCode:       acc.CurrencyCode,
		CurrentBalance:     acc.CurrentBalance,
		Color:              acc.Color,
		IsActive:           acc.IsActive,
		CreatedAt:          acc.CreatedAt,
		LastUpdatedAt:      acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.BankAccount to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.BankAccount) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}
