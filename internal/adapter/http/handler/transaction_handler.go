package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okri/splitbook/internal/adapter/http/dto"
	"github.com/okri/splitbook/internal/adapter/http/middleware"
	"github.com/okri/splitbook/internal/infrastructure/metrics"
	"github.com/okri/splitbook/internal/usecase"
)

// TransactionHandler handles transaction-related HTTP requests.
type TransactionHandler struct {
	ledgerUC *usecase.LedgerUseCase
	metrics  *metrics.Metrics
}

// NewTransactionHandler creates a new TransactionHandler. Metrics may be
// nil in tests.
func NewTransactionHandler(ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC, metrics: m}
}

// Add records a new income or expense on the account.
func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.AddTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.AddTransaction(r.Context(), accountID, principalID, req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordError("add_transaction", err)
		}
		writeDomainError(w, err, "failed to add transaction")
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsRecorded.WithLabelValues(string(txn.Type)).Inc()
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// List lists the account's transactions, newest first.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	txns, err := h.ledgerUC.ListTransactions(r.Context(), accountID, principalID)
	if err != nil {
		writeDomainError(w, err, "failed to list transactions")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txns))
}

// Get retrieves a single transaction.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	id := chi.URLParam(r, "id")
	if accountID == "" || id == "" {
		writeError(w, http.StatusBadRequest, "missing account or transaction ID", "")
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), id, accountID, principalID)
	if err != nil {
		writeDomainError(w, err, "failed to get transaction")
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Update patches a transaction and rebalances the account.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	id := chi.URLParam(r, "id")
	if accountID == "" || id == "" {
		writeError(w, http.StatusBadRequest, "missing account or transaction ID", "")
		return
	}

	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.UpdateTransaction(r.Context(), id, accountID, principalID, req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordError("update_transaction", err)
		}
		writeDomainError(w, err, "failed to update transaction")
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsUpdated.Inc()
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// Delete removes a transaction and reverses its balance effect.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accountID := chi.URLParam(r, "accountID")
	id := chi.URLParam(r, "id")
	if accountID == "" || id == "" {
		writeError(w, http.StatusBadRequest, "missing account or transaction ID", "")
		return
	}

	if err := h.ledgerUC.DeleteTransaction(r.Context(), id, accountID, principalID); err != nil {
		if h.metrics != nil {
			h.metrics.RecordError("delete_transaction", err)
		}
		writeDomainError(w, err, "failed to delete transaction")
		return
	}

	if h.metrics != nil {
		h.metrics.TransactionsDeleted.Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}
