package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(db *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, account_id, COALESCE(category_id, ''),
	COALESCE(statement_id, ''), transaction_date, posted_date, description,
	COALESCE(original_description, ''), amount, transaction_type, balance,
	COALESCE(merchant_name, ''), COALESCE(reference_number, ''), COALESCE(notes, ''),
	is_recurring, is_excluded, dedup_hash,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var txn domain.Transaction
	err := row.Scan(
		&txn.TransactionID,
		&txn.UserID,
		&txn.AccountID,
		&txn.CategoryID,
		&txn.StatementID,
		&txn.TransactionDate,
		&txn.PostedDate,
		&txn.Description,
		&txn.OriginalDesc,
		&txn.Amount,
		&txn.Type,
		&txn.Balance,
		&txn.MerchantName,
		&txn.ReferenceNumber,
		&txn.Notes,
		&txn.IsRecurring,
		&txn.IsExcluded,
		&txn.DedupHash,
		&txn.CreatedAt,
		&txn.CreatedBy,
		&txn.LastUpdatedAt,
		&txn.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}
	return &txn, nil
}

const insertTransactionQuery = `
    INSERT INTO transactions (transaction_id, user_id, account_id, category_id, statement_id,
        transaction_date, posted_date, description, original_description, amount,
        transaction_type, balance, merchant_name, reference_number, notes,
        is_recurring, is_excluded, dedup_hash,
        created_at, created_by, last_updated_at, last_updated_by)
    VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''), $10,
        $11, $12, NULLIF($13, ''), NULLIF($14, ''), NULLIF($15, ''), $16, $17, $18,
        $19, $20, $21, $22)
    ON CONFLICT (account_id, dedup_hash) DO NOTHING;
`

func insertArgs(txn domain.Transaction) []any {
	return []any{
		txn.TransactionID,
		txn.UserID,
		txn.AccountID,
		txn.CategoryID,
		txn.StatementID,
		txn.TransactionDate,
		txn.PostedDate,
		txn.Description,
		txn.OriginalDesc,
		txn.Amount,
		txn.Type,
		txn.Balance,
		txn.MerchantName,
		txn.ReferenceNumber,
		txn.Notes,
		txn.IsRecurring,
		txn.IsExcluded,
		txn.DedupHash,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	}
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	cmdTag, err := r.Pool.Exec(ctx, insertTransactionQuery, insertArgs(txn)...)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDuplicate
	}
	return nil
}

func (r *PgxTransactionRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.Transaction) (int, error) {
	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery, insertArgs(txn)...)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	inserted := 0
	for range txns {
		cmdTag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert transaction batch: %w", err)
		}
		inserted += int(cmdTag.RowsAffected())
	}
	return inserted, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND deleted_at IS NULL;`
	return scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
}

// buildFilterClauses translates TransactionFilters into WHERE clauses and
// positional arguments, starting after the user_id placeholder.
func buildFilterClauses(filters portsrepo.TransactionFilters, args []any) ([]string, []any) {
	var clauses []string

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filters.AccountID != nil {
		add("account_id = $%d", *filters.AccountID)
	}
	if filters.CategoryID != nil {
		add("category_id = $%d", *filters.CategoryID)
	}
	if filters.StatementID != nil {
		add("statement_id = $%d", *filters.StatementID)
	}
	if filters.TransactionType != nil {
		add("transaction_type = $%d", *filters.TransactionType)
	}
	if filters.StartDate != nil {
		add("transaction_date >= $%d", *filters.StartDate)
	}
	if filters.EndDate != nil {
		add("transaction_date <= $%d", *filters.EndDate)
	}
	if filters.MinAmount != nil {
		add("amount >= $%d", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		add("amount <= $%d", *filters.MaxAmount)
	}
	if filters.Search != nil {
		pattern := "%" + strings.TrimSpace(*filters.Search) + "%"
		args = append(args, pattern)
		clauses = append(clauses, fmt.Sprintf("(description ILIKE $%d OR merchant_name ILIKE $%d)", len(args), len(args)))
	}

	return clauses, args
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filters portsrepo.TransactionFilters) ([]domain.Transaction, int64, error) {
	args := []any{userID}
	clauses, args := buildFilterClauses(filters, args)

	where := "user_id = $1 AND deleted_at IS NULL"
	if len(clauses) > 0 {
		where += " AND " + strings.Join(clauses, " AND ")
	}

	countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + where + `;`
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	args = append(args, filters.Limit, filters.Offset)
	listQuery := fmt.Sprintf(
		`SELECT %s FROM transactions WHERE %s ORDER BY transaction_date DESC, created_at DESC LIMIT $%d OFFSET $%d;`,
		transactionColumns, where, len(args)-1, len(args),
	)

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, err
		}
		txns = append(txns, *txn)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", rows.Err())
	}
	return txns, total, nil
}

func (r *PgxTransactionRepository) FindExistingDedupHashes(ctx context.Context, accountID string, hashes []string) (map[string]struct{}, error) {
	if len(hashes) == 0 {
		return map[string]struct{}{}, nil
	}
	query := `
        SELECT dedup_hash FROM transactions
        WHERE account_id = $1 AND dedup_hash = ANY($2) AND deleted_at IS NULL;
    `
	rows, err := r.Pool.Query(ctx, query, accountID, hashes)
	if err != nil {
		return nil, fmt.Errorf("failed to query dedup hashes: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, fmt.Errorf("failed to scan dedup hash: %w", err)
		}
		existing[hash] = struct{}{}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating dedup hash rows: %w", rows.Err())
	}
	return existing, nil
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
        UPDATE transactions
        SET category_id = NULLIF($1, ''), description = $2, merchant_name = NULLIF($3, ''),
            notes = NULLIF($4, ''), is_recurring = $5, is_excluded = $6,
            last_updated_at = $7, last_updated_by = $8
        WHERE transaction_id = $9 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query,
		txn.CategoryID,
		txn.Description,
		txn.MerchantName,
		txn.Notes,
		txn.IsRecurring,
		txn.IsExcluded,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
		txn.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) MarkTransactionDeleted(ctx context.Context, transactionID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE transactions
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE transaction_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, deletedAt, deletedBy, transactionID)
	if err != nil {
		return fmt.Errorf("failed to mark transaction deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) SumByTypeInRange(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, int64, error) {
	query := `
        SELECT
            COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'credit'), 0),
            COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'debit'), 0),
            COUNT(*)
        FROM transactions
        WHERE user_id = $1 AND deleted_at IS NULL AND NOT is_excluded
          AND transaction_date >= $2 AND transaction_date < $3;
    `
	var credits, debits decimal.Decimal
	var count int64
	if err := r.Pool.QueryRow(ctx, query, userID, from, to).Scan(&credits, &debits, &count); err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return credits, debits, count, nil
}

func (r *PgxTransactionRepository) FindRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `SELECT ` + transactionColumns + `
        FROM transactions
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY transaction_date DESC, created_at DESC
        LIMIT $2;
    `
	rows, err := r.Pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions: %w", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, *txn)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating recent transaction rows: %w", rows.Err())
	}
	return txns, nil
}
