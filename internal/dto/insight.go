package dto

import (
	"github.com/shopspring/decimal"
)

// MonthlyFlowResponse summarizes money movement for the current month.
type MonthlyFlowResponse struct {
	Month            string          `json:"month"`
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Net              decimal.Decimal `json:"net"`
	TransactionCount int64           `json:"transactionCount"`
}

// RecentTransactionResponse is a transaction enriched with its account name
// for dashboard display.
type RecentTransactionResponse struct {
	TransactionResponse
	AccountName string `json:"accountName"`
}

// InsightSummaryResponse is the financial overview for a user's dashboard.
type InsightSummaryResponse struct {
	TotalBalance       decimal.Decimal             `json:"totalBalance"`
	AccountCount       int                         `json:"accountCount"`
	CurrentMonth       MonthlyFlowResponse         `json:"currentMonth"`
	RecentTransactions []RecentTransactionResponse `json:"recentTransactions"`
}
