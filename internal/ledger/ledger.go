package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Type tags the direction of a transaction at the API boundary.
// Storage never sees it: the direction is folded into the sign of Amount.
type Type string

const (
	TypeCredit Type = "credit"
	TypeDebit  Type = "debit"
)

func (t Type) Valid() bool {
	return t == TypeCredit || t == TypeDebit
}

// Transaction is one ledger entry. Amount is signed cents: positive for
// credits, negative for debits.
type Transaction struct {
	ID        uuid.UUID
	Title     string
	Amount    int64
	SessionID string
	CreatedAt time.Time
}
