package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/finlens/finlens_backend/internal/parsing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// statementServiceImpl implements the StatementSvcFacade interface
type statementServiceImpl struct {
	BaseService
	statementRepo   portsrepo.StatementRepositoryFacade
	transactionRepo portsrepo.TransactionRepositoryWithTx
	accountRepo     portsrepo.AccountRepositoryFacade
	registry        *parsing.Registry
	uploadDir       string
}

// NewStatementService creates a new statement service
func NewStatementService(
	statementRepo portsrepo.StatementRepositoryFacade,
	transactionRepo portsrepo.TransactionRepositoryWithTx,
	accountRepo portsrepo.AccountRepositoryFacade,
	registry *parsing.Registry,
	uploadDir string,
) portssvc.StatementSvcFacade {
	return &statementServiceImpl{
		statementRepo:   statementRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		registry:        registry,
		uploadDir:       uploadDir,
	}
}

var _ portssvc.StatementSvcFacade = (*statementServiceImpl)(nil)

func (s *statementServiceImpl) UploadStatement(ctx context.Context, userID string, accountID string, filename string, data []byte) (*dto.StatementPreviewResponse, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account for statement: %w", err)
	}
	if account.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	format, err := s.registry.Detector().DetectFormat(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	now := time.Now()
	statement := domain.Statement{
		StatementID: uuid.NewString(),
		UserID:      userID,
		AccountID:   accountID,
		Filename:    filepath.Base(filename),
		FileSize:    int64(len(data)),
		FileType:    string(format),
		Status:      domain.StatementPending,
		AuditFields: domain.NewAuditFields(userID, now),
	}

	// The raw file is kept on disk so a later confirm can re-parse it instead
	// of holding parse previews in memory.
	storedPath, err := s.storeFile(userID, statement.StatementID, filename, data)
	if err != nil {
		s.LogError(ctx, err, "Failed to store statement file", slog.String("filename", filename))
		return nil, fmt.Errorf("failed to store statement file: %w", err)
	}
	statement.FilePath = storedPath

	result, detection, err := s.parse(filename, data)
	if err != nil {
		statement.Status = domain.StatementFailed
		statement.ErrorMessage = err.Error()
		if saveErr := s.statementRepo.SaveStatement(ctx, statement); saveErr != nil {
			s.LogError(ctx, saveErr, "Failed to record failed statement", slog.String("statement_id", statement.StatementID))
		}
		return nil, fmt.Errorf("failed to parse statement: %w", err)
	}

	statement.BankName = result.BankName
	statement.ParserUsed = detection.SuggestedParser
	statement.DetectionConfidence = int(detection.Confidence * 100)
	statement.StartDate = result.StartDate
	statement.EndDate = result.EndDate
	statement.TransactionCount = len(result.Transactions)

	if err := s.statementRepo.SaveStatement(ctx, statement); err != nil {
		s.LogError(ctx, err, "Failed to save statement", slog.String("statement_id", statement.StatementID))
		return nil, fmt.Errorf("failed to save statement: %w", err)
	}

	preview, duplicates, err := s.buildPreview(ctx, userID, accountID, result.Transactions)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Statement uploaded",
		slog.String("statement_id", statement.StatementID),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("duplicates", duplicates))

	resp := &dto.StatementPreviewResponse{
		Statement:      dto.ToStatementResponse(&statement),
		Transactions:   preview,
		DuplicateCount: duplicates,
		DetectedBank:   result.BankName,
		ParserUsed:     detection.SuggestedParser,
	}
	return resp, nil
}

func (s *statementServiceImpl) ConfirmImport(ctx context.Context, userID string, statementID string) (*dto.ImportResultResponse, error) {
	statement, err := s.GetStatementByID(ctx, userID, statementID)
	if err != nil {
		return nil, err
	}
	if statement.Status == domain.StatementCompleted {
		return nil, fmt.Errorf("statement already imported: %w", apperrors.ErrDuplicate)
	}
	if statement.Status == domain.StatementFailed {
		return nil, fmt.Errorf("statement failed to parse and cannot be imported: %w", apperrors.ErrValidation)
	}

	data, err := os.ReadFile(statement.FilePath)
	if err != nil {
		s.LogError(ctx, err, "Failed to read stored statement file", slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to read stored statement file: %w", err)
	}

	result, _, err := s.parse(statement.Filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to re-parse statement: %w", err)
	}

	now := time.Now()
	txns := make([]domain.Transaction, 0, len(result.Transactions))
	for _, parsed := range result.Transactions {
		txn := domain.Transaction{
			TransactionID:   uuid.NewString(),
			UserID:          userID,
			AccountID:       statement.AccountID,
			StatementID:     statement.StatementID,
			TransactionDate: parsed.Date,
			Description:     parsed.Description,
			OriginalDesc:    parsed.Description,
			Amount:          parsed.Amount,
			Type:            domain.TransactionType(parsed.Type),
			Balance:         parsed.Balance,
			ReferenceNumber: parsed.Reference,
			AuditFields:     domain.NewAuditFields(userID, now),
		}
		txn.DedupHash = domain.DedupHash(userID, statement.AccountID, parsed.Date, parsed.Amount, parsed.Description, domain.TransactionType(parsed.Type), parsed.Reference)
		txns = append(txns, txn)
	}

	tx, err := s.transactionRepo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin import transaction: %w", err)
	}

	inserted, err := s.transactionRepo.SaveTransactionsInTx(ctx, tx, txns)
	if err != nil {
		_ = s.transactionRepo.Rollback(ctx, tx)
		s.LogError(ctx, err, "Failed to import transactions", slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to import transactions: %w", err)
	}

	// The statement's closing balance becomes the account balance when the
	// parser captured one.
	if last := lastBalance(result.Transactions); last != nil {
		if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, statement.AccountID, *last, userID, now); err != nil {
			_ = s.transactionRepo.Rollback(ctx, tx)
			return nil, fmt.Errorf("failed to update account balance: %w", err)
		}
	}

	if err := s.transactionRepo.Commit(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to commit import transaction: %w", err)
	}

	statement.Status = domain.StatementCompleted
	statement.ProcessedAt = &now
	statement.TransactionCount = inserted
	statement.Touch(userID, now)
	if err := s.statementRepo.UpdateStatement(ctx, *statement); err != nil {
		s.LogError(ctx, err, "Failed to mark statement completed", slog.String("statement_id", statementID))
		return nil, fmt.Errorf("failed to update statement after import: %w", err)
	}

	s.LogInfo(ctx, "Statement imported",
		slog.String("statement_id", statementID),
		slog.Int("imported", inserted),
		slog.Int("skipped", len(txns)-inserted))

	return &dto.ImportResultResponse{
		StatementID:      statementID,
		ImportedCount:    inserted,
		SkippedCount:     len(txns) - inserted,
		TransactionCount: len(txns),
	}, nil
}

func (s *statementServiceImpl) GetStatementByID(ctx context.Context, userID string, statementID string) (*domain.Statement, error) {
	statement, err := s.statementRepo.FindStatementByID(ctx, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}
	if statement.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return statement, nil
}

func (s *statementServiceImpl) DeleteStatement(ctx context.Context, userID string, statementID string) error {
	statement, err := s.GetStatementByID(ctx, userID, statementID)
	if err != nil {
		return err
	}

	if err := s.statementRepo.DeleteStatement(ctx, statementID); err != nil {
		s.LogError(ctx, err, "Failed to delete statement", slog.String("statement_id", statementID))
		return fmt.Errorf("failed to delete statement: %w", err)
	}

	if statement.FilePath != "" {
		if err := os.Remove(statement.FilePath); err != nil && !os.IsNotExist(err) {
			s.LogError(ctx, err, "Failed to remove stored statement file", slog.String("statement_id", statementID))
		}
	}
	return nil
}

func (s *statementServiceImpl) ListStatements(ctx context.Context, userID string) ([]domain.Statement, error) {
	statements, err := s.statementRepo.ListStatementsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	return statements, nil
}

func (s *statementServiceImpl) ListSupportedBanks(ctx context.Context) []dto.BankInfoResponse {
	codes := s.registry.ListBanks()
	banks := make([]dto.BankInfoResponse, 0, len(codes))
	for _, code := range codes {
		bank, ok := s.registry.Bank(code)
		if !ok {
			continue
		}
		var formats []string
		for _, p := range bank.Parsers() {
			formats = append(formats, string(p.Format()))
		}
		banks = append(banks, dto.BankInfoResponse{
			Name:             bank.Info().Name,
			Code:             bank.Info().Code,
			SupportedFormats: formats,
		})
	}
	return banks
}

func (s *statementServiceImpl) ListParsers(ctx context.Context) []string {
	return s.registry.ListParsers()
}

// parse runs bank detection and parsing, falling back to extension-based
// parsing when no bank can be detected.
func (s *statementServiceImpl) parse(filename string, data []byte) (parsing.ParseResult, parsing.DetectionResult, error) {
	detection, err := s.registry.Detector().Detect(filename, data)
	if err == nil {
		result, parseErr := s.registry.ParseWithBank(detection.BankCode, detection.Format, data, parsing.Options{})
		if parseErr == nil {
			return result, detection, nil
		}
	}

	result, err := s.registry.AutoParse(filename, data, parsing.Options{})
	if err != nil {
		return parsing.ParseResult{}, parsing.DetectionResult{}, err
	}
	return result, detection, nil
}

func (s *statementServiceImpl) buildPreview(ctx context.Context, userID, accountID string, parsed []parsing.ParsedTransaction) ([]dto.ParsedTransactionPreview, int, error) {
	hashes := make([]string, len(parsed))
	for i, p := range parsed {
		hashes[i] = domain.DedupHash(userID, accountID, p.Date, p.Amount, p.Description, domain.TransactionType(p.Type), p.Reference)
	}

	existing, err := s.transactionRepo.FindExistingDedupHashes(ctx, accountID, hashes)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check for duplicate transactions: %w", err)
	}

	preview := make([]dto.ParsedTransactionPreview, len(parsed))
	duplicates := 0
	for i, p := range parsed {
		_, isDup := existing[hashes[i]]
		if isDup {
			duplicates++
		}
		preview[i] = dto.ParsedTransactionPreview{
			TransactionDate: p.Date,
			Description:     p.Description,
			Amount:          p.Amount,
			Type:            domain.TransactionType(p.Type),
			Balance:         p.Balance,
			ReferenceNumber: p.Reference,
			IsDuplicate:     isDup,
		}
	}
	return preview, duplicates, nil
}

func (s *statementServiceImpl) storeFile(userID, statementID, filename string, data []byte) (string, error) {
	dir := filepath.Join(s.uploadDir, userID)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	path := filepath.Join(dir, statementID+filepath.Ext(filename))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", err
	}
	return path, nil
}

// lastBalance returns the running balance of the last parsed transaction that
// carries one.
func lastBalance(parsed []parsing.ParsedTransaction) *decimal.Decimal {
	for i := len(parsed) - 1; i >= 0; i-- {
		if parsed[i].Balance != nil {
			return parsed[i].Balance
		}
	}
	return nil
}
