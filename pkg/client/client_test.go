package client_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruicoelho/tally/pkg/client"
)

// newStubAPI fakes the transaction endpoints: POST mints a session cookie for
// cookieless callers, GETs require one.
func newStubAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("POST /transactions", func(w http.ResponseWriter, r *http.Request) {
		token := "minted-session"
		if c, err := r.Cookie("sessionId"); err == nil {
			token = c.Value
		} else {
			http.SetCookie(w, &http.Cookie{Name: "sessionId", Value: token, Path: "/", MaxAge: 604800})
		}

		var req client.CreateTransactionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		amount := req.Amount
		if req.Type == "debit" {
			amount = -amount
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"transaction": client.Transaction{
				ID:        "11111111-1111-1111-1111-111111111111",
				Title:     req.Title,
				Amount:    amount,
				SessionID: token,
			},
		})
	})

	mux.HandleFunc("GET /transactions", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("sessionId")
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing session cookie"})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"transactions": []client.Transaction{{ID: "a", SessionID: c.Value}},
		})
	})

	mux.HandleFunc("GET /transactions/summary", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"summary": map[string]int64{"amount": -6840},
		})
	})

	mux.HandleFunc("GET /transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "transaction not found"})
	})

	mux.HandleFunc("POST /transactions/import", func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		count := 0
		for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
			if strings.TrimSpace(line) != "" {
				count++
			}
		}

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]int{"imported": count})
	})

	return httptest.NewServer(mux)
}

func TestClient_CapturesMintedSession(t *testing.T) {
	ts := newStubAPI(t)
	defer ts.Close()

	c := client.New(ts.URL)
	require.Empty(t, c.SessionID())

	tx, err := c.CreateTransaction(context.Background(), client.CreateTransactionRequest{
		Title:  "Coffee",
		Amount: 350,
		Type:   "debit",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-350), tx.Amount)
	assert.Equal(t, "minted-session", c.SessionID())

	// The captured cookie rides on the next call.
	txs, err := c.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "minted-session", txs[0].SessionID)
}

func TestClient_SessionFilePersistence(t *testing.T) {
	ts := newStubAPI(t)
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "session")

	c := client.New(ts.URL, client.WithSessionFile(path))
	_, err := c.CreateTransaction(context.Background(), client.CreateTransactionRequest{
		Title:  "Coffee",
		Amount: 350,
		Type:   "debit",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "minted-session", strings.TrimSpace(string(data)))

	// A fresh client seeded from the same file resumes the session.
	resumed := client.New(ts.URL, client.WithSessionFile(path))
	assert.Equal(t, "minted-session", resumed.SessionID())
}

func TestClient_ListWithoutSessionIsUnauthorized(t *testing.T) {
	ts := newStubAPI(t)
	defer ts.Close()

	_, err := client.New(ts.URL).ListTransactions(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
	assert.Contains(t, err.Error(), "missing session cookie")
}

func TestClient_GetNotFound(t *testing.T) {
	ts := newStubAPI(t)
	defer ts.Close()

	c := client.New(ts.URL, client.WithSessionID("session-a"))

	_, err := c.GetTransaction(context.Background(), "22222222-2222-2222-2222-222222222222")
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusNotFound))
}

func TestClient_Summary(t *testing.T) {
	ts := newStubAPI(t)
	defer ts.Close()

	c := client.New(ts.URL, client.WithSessionID("session-a"))

	sum, err := c.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(-6840), sum)
}

func TestClient_ImportCSV(t *testing.T) {
	ts := newStubAPI(t)
	defer ts.Close()

	c := client.New(ts.URL, client.WithSessionID("session-a"))

	n, err := c.ImportCSV(context.Background(), strings.NewReader("Coffee,3.50,debit\nRent,800,debit\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
