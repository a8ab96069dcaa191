package services

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/shopspring/decimal"
)

const recentTransactionCount = 5

// insightServiceImpl implements the InsightSvcFacade interface
type insightServiceImpl struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionAggregator
}

// NewInsightService creates a new insight service
func NewInsightService(accountRepo portsrepo.AccountReader, transactionRepo portsrepo.TransactionAggregator) portssvc.InsightSvcFacade {
	return &insightServiceImpl{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
	}
}

var _ portssvc.InsightSvcFacade = (*insightServiceImpl)(nil)

func (s *insightServiceImpl) GetSummary(ctx context.Context, userID string) (*dto.InsightSummaryResponse, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts for summary: %w", err)
	}

	totalBalance := decimal.Zero
	activeCount := 0
	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		totalBalance = totalBalance.Add(acc.CurrentBalance)
		activeCount++
	}

	from, to := currentMonthRange(time.Now())
	credits, debits, monthCount, err := s.transactionRepo.SumByTypeInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate monthly flow: %w", err)
	}

	recent, err := s.transactionRepo.FindRecentTransactions(ctx, userID, recentTransactionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}

	accountNames := make(map[string]string, len(accounts))
	for _, acc := range accounts {
		accountNames[acc.AccountID] = acc.Name
	}

	recentDTOs := make([]dto.RecentTransactionResponse, len(recent))
	for i := range recent {
		name, ok := accountNames[recent[i].AccountID]
		if !ok {
			name = "Unknown Account"
		}
		recentDTOs[i] = dto.RecentTransactionResponse{
			TransactionResponse: dto.ToTransactionResponse(&recent[i]),
			AccountName:         name,
		}
	}

	return &dto.InsightSummaryResponse{
		TotalBalance: totalBalance,
		AccountCount: activeCount,
		CurrentMonth: dto.MonthlyFlowResponse{
			Month:            from.Format("2006 January"),
			Income:           credits,
			Expenses:         debits,
			Net:              credits.Sub(debits),
			TransactionCount: monthCount,
		},
		RecentTransactions: recentDTOs,
	}, nil
}

// currentMonthRange returns the first instant of the month containing now and
// the first instant of the next month.
func currentMonthRange(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
