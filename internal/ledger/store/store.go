package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ruicoelho/tally/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, title, amount, session_id, created_at
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	if err := s.Scan(&tx.ID, &tx.Title, &tx.Amount, &tx.SessionID, &tx.CreatedAt); err != nil {
		return nil, err
	}

	return &tx, nil
}

const selectTransactionColumns = `id, title, amount, session_id, created_at`

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (title, amount, session_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.Title,
		tx.Amount,
		tx.SessionID,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

// CreateTransactions inserts all rows in one database transaction so a failed
// batch leaves nothing behind.
func (s *Store) CreateTransactions(ctx context.Context, txs []*ledger.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO transactions (title, amount, session_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	for _, tx := range txs {
		err := dbTx.QueryRowContext(ctx, query,
			tx.Title,
			tx.Amount,
			tx.SessionID,
		).Scan(&tx.ID, &tx.CreatedAt)
		if err != nil {
			return fmt.Errorf("creating transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}

	return nil
}

// GetTransaction filters by id and session together, so a row owned by another
// session is indistinguishable from a missing one.
func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID, sessionID string) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE id = $1 AND session_id = $2`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, sessionID string) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE session_id = $1
		ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

// SumAmounts aggregates the signed amounts of a session. COALESCE keeps an
// empty session at zero instead of NULL.
func (s *Store) SumAmounts(ctx context.Context, sessionID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)::bigint
		FROM transactions
		WHERE session_id = $1
	`

	var sum int64
	if err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("summing transactions: %w", err)
	}

	return sum, nil
}
