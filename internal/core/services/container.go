package services

import (
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/parsing"
	"github.com/finlens/finlens_backend/internal/parsing/banks"
	"github.com/finlens/finlens_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthHandlerService(cfg)

	container.Account = NewAccountService(repos.AccountRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Transaction = NewTransactionService(repos.TransactionRepo, repos.AccountRepo)

	// The statement pipeline needs the transaction manager to import batches
	// atomically, so it takes the WithTx facade rather than the plain one.
	txRepoWithTx, ok := repos.TransactionRepo.(portsrepo.TransactionRepositoryWithTx)
	if !ok {
		panic("transaction repository does not support transactions")
	}
	registry := parsing.NewRegistry(banks.Defaults()...)
	container.Statement = NewStatementService(repos.StatementRepo, txRepoWithTx, repos.AccountRepo, registry, cfg.UploadDir)

	container.Insight = NewInsightService(repos.AccountRepo, repos.TransactionRepo)
	container.Feature = NewFeatureService(repos.FeatureRepo)

	return container
}
