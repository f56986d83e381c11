package transaction

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ruicoelho/tally/internal/importer"
	"github.com/ruicoelho/tally/internal/ledger"
	"github.com/ruicoelho/tally/internal/session"
)

type Handler struct {
	svc       *ledger.Service
	importSvc *importer.Service
	validate  *validator.Validate
}

func NewHandler(svc *ledger.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		svc:       svc,
		importSvc: importSvc,
		validate:  validator.New(),
	}
}

// Routes wires the ledger surface. Only create and import may mint a session;
// every read requires one already present.
func (h *Handler) Routes(r chi.Router, sessions *session.Manager) {
	r.With(sessions.Issue, middleware.AllowContentType("application/json")).Post("/", h.create)
	r.With(sessions.Require).Get("/", h.list)
	r.With(sessions.Require).Get("/summary", h.summary)
	r.With(sessions.Require).Get("/{id}", h.get)
	r.With(sessions.Require, middleware.AllowContentType("text/csv")).Post("/import", h.importCSV)
}

type createTransactionRequest struct {
	Title  string      `json:"title" validate:"required"`
	Amount int64       `json:"amount" validate:"gte=0"`
	Type   ledger.Type `json:"type" validate:"required,oneof=credit debit"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session cookie")
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	tx, err := h.svc.Create(r.Context(), sessionID, ledger.CreateParams{
		Title:  req.Title,
		Amount: req.Amount,
		Type:   req.Type,
	})
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, transactionEnvelope{Transaction: toResponse(tx)})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session cookie")
		return
	}

	txs, err := h.svc.List(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, transactionsEnvelope{Transactions: toResponseList(txs)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session cookie")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return
	}

	tx, err := h.svc.Get(r.Context(), id, sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, transactionEnvelope{Transaction: toResponse(tx)})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session cookie")
		return
	}

	sum, err := h.svc.Summarize(r.Context(), sessionID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summaryEnvelope{Summary: summaryResponse{Amount: sum}})
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := session.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing session cookie")
		return
	}

	params, err := h.importSvc.Parse(r.Body)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	txs, err := h.svc.CreateBatch(r.Context(), sessionID, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, importEnvelope{Imported: len(txs)})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var verr *ledger.ValidationError

	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrNotFound):
		respondError(w, http.StatusNotFound, "transaction not found")
	default:
		slog.Error("transaction request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// validationMessage flattens the first violation into the field: message
// shape the rest of the API uses.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return field + ": must not be empty"
	case "gte":
		return field + ": must not be negative"
	case "oneof":
		return field + `: must be "credit" or "debit"`
	}

	return field + ": is invalid"
}
