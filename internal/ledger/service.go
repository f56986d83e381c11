package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID, sessionID string) (*Transaction, error)
	ListTransactions(ctx context.Context, sessionID string) ([]*Transaction, error)
	SumAmounts(ctx context.Context, sessionID string) (int64, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams carries caller input for one transaction. Amount is the
// unsigned magnitude in cents; Type decides the sign.
type CreateParams struct {
	Title  string
	Amount int64
	Type   Type
}

func (p CreateParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Message: "must not be empty"}
	}

	if p.Amount < 0 {
		return &ValidationError{Field: "amount", Message: "must not be negative"}
	}

	if !p.Type.Valid() {
		return &ValidationError{Field: "type", Message: `must be "credit" or "debit"`}
	}

	return nil
}

func (p CreateParams) signedAmount() int64 {
	if p.Type == TypeDebit {
		return -p.Amount
	}

	return p.Amount
}

func (s *Service) Create(ctx context.Context, sessionID string, params CreateParams) (*Transaction, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	tx := &Transaction{
		Title:     params.Title,
		Amount:    params.signedAmount(),
		SessionID: sessionID,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

// CreateBatch persists several transactions under one session in a single
// storage transaction. Any invalid row rejects the whole batch.
func (s *Service) CreateBatch(ctx context.Context, sessionID string, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	txs := make([]*Transaction, len(params))

	for i, p := range params {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs[i] = &Transaction{
			Title:     p.Title,
			Amount:    p.signedAmount(),
			SessionID: sessionID,
		}
	}

	if err := s.repo.CreateTransactions(ctx, txs); err != nil {
		return nil, err
	}

	return txs, nil
}

func (s *Service) List(ctx context.Context, sessionID string) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, sessionID)
}

// Get returns the transaction only when both the id and the session match;
// rows owned by other sessions report ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID, sessionID string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id, sessionID)
}

func (s *Service) Summarize(ctx context.Context, sessionID string) (int64, error) {
	return s.repo.SumAmounts(ctx, sessionID)
}
