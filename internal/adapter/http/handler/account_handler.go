package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okri/splitbook/internal/adapter/http/dto"
	"github.com/okri/splitbook/internal/adapter/http/middleware"
	"github.com/okri/splitbook/internal/domain"
	"github.com/okri/splitbook/internal/infrastructure/metrics"
	"github.com/okri/splitbook/internal/usecase"
)

// AccountHandler handles account-related HTTP requests.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler. Metrics may be nil in
// tests.
func NewAccountHandler(accountUC *usecase.AccountUseCase, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, metrics: m}
}

// Create creates a new account owned by the caller.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), principalID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to create account")
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsCreated.Inc()
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// List lists the caller's owned and shared accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	accounts, err := h.accountUC.ListAccounts(r.Context(), principalID)
	if err != nil {
		writeDomainError(w, err, "failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "accountID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	account, err := h.accountUC.GetAccount(r.Context(), id, principalID)
	if err != nil {
		writeDomainError(w, err, "failed to get account")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Update patches account metadata.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "accountID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), id, principalID, req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, err, "failed to update account")
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Delete removes an empty account.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "accountID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	if err := h.accountUC.DeleteAccount(r.Context(), id, principalID); err != nil {
		writeDomainError(w, err, "failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Share grants another user access to the account.
func (h *AccountHandler) Share(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "accountID")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.ShareAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	level, err := domain.ParseShareLevel(req.Level)
	if err != nil {
		writeDomainError(w, err, "invalid share level")
		return
	}

	if err := h.accountUC.ShareAccount(r.Context(), id, principalID, req.UserID, level); err != nil {
		writeDomainError(w, err, "failed to share account")
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsShared.WithLabelValues("grant").Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateShare changes an existing grant's level.
func (h *AccountHandler) UpdateShare(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "accountID")
	userID := chi.URLParam(r, "userID")
	if id == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing account or user ID", "")
		return
	}

	var req dto.UpdateShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	level, err := domain.ParseShareLevel(req.Level)
	if err != nil {
		writeDomainError(w, err, "invalid share level")
		return
	}

	if err := h.accountUC.UpdateShare(r.Context(), id, principalID, userID, level); err != nil {
		writeDomainError(w, err, "failed to update share")
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsShared.WithLabelValues("update").Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unshare revokes a grant.
func (h *AccountHandler) Unshare(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	id := chi.URLParam(r, "accountID")
	userID := chi.URLParam(r, "userID")
	if id == "" || userID == "" {
		writeError(w, http.StatusBadRequest, "missing account or user ID", "")
		return
	}

	if err := h.accountUC.UnshareAccount(r.Context(), id, principalID, userID); err != nil {
		writeDomainError(w, err, "failed to unshare account")
		return
	}

	if h.metrics != nil {
		h.metrics.AccountsShared.WithLabelValues("revoke").Inc()
	}

	w.WriteHeader(http.StatusNoContent)
}
