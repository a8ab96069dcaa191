package services

import (
	"context"

	"github.com/finlens/finlens_backend/internal/dto"
)

// InsightSvcFacade defines the financial summary operations.
type InsightSvcFacade interface {
	// GetSummary computes the user's financial overview: total balance across
	// active accounts, current-month income and expenses, and recent activity.
	GetSummary(ctx context.Context, userID string) (*dto.InsightSummaryResponse, error)
}
