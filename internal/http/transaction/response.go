package transaction

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ruicoelho/tally/internal/ledger"
)

type transactionResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type transactionEnvelope struct {
	Transaction transactionResponse `json:"transaction"`
}

type transactionsEnvelope struct {
	Transactions []transactionResponse `json:"transactions"`
}

type summaryResponse struct {
	Amount int64 `json:"amount"`
}

type summaryEnvelope struct {
	Summary summaryResponse `json:"summary"`
}

type importEnvelope struct {
	Imported int `json:"imported"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:        tx.ID,
		Title:     tx.Title,
		Amount:    tx.Amount,
		SessionID: tx.SessionID,
		CreatedAt: tx.CreatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Failures always carry a JSON body with an error field, never plain text.
func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, errorResponse{Error: msg})
}
