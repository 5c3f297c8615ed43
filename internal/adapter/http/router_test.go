package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/okri/splitbook/internal/adapter/http/dto"
	"github.com/okri/splitbook/internal/adapter/http/handler"
	"github.com/okri/splitbook/internal/infrastructure/auth"
	"github.com/okri/splitbook/internal/usecase"
	"github.com/okri/splitbook/internal/usecase/mocks"
)

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()

	store := mocks.NewStore()
	accountRepo := mocks.NewMockAccountRepository(store)
	transactionRepo := mocks.NewMockTransactionRepository(store)
	txManager := mocks.NewStoreTxManager(store)
	guard := usecase.NewAccessGuard(accountRepo)
	idGen := mocks.NewSequenceIDGenerator("id")

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, transactionRepo, guard, idGen)
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, transactionRepo, guard, idGen)
	transferUC := usecase.NewTransferCoordinator(txManager, accountRepo, transactionRepo, guard, idGen)

	jwtManager := auth.NewJWTManager("router-test-secret", time.Minute)
	token, err := jwtManager.Generate("user-1")
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, nil),
		TransactionHandler: handler.NewTransactionHandler(ledgerUC, nil),
		TransferHandler:    handler.NewTransferHandler(transferUC, nil),
		HealthHandler:      handler.NewHealthHandler(nil, nil),
		TokenVerifier:      jwtManager,
		Logger:             zerolog.Nop(),
	})

	return router, token
}

func TestRouterHealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterAccountLifecycle(t *testing.T) {
	router, token := newTestRouter(t)

	do := func(method, target string, body any) *httptest.ResponseRecorder {
		var req *http.Request
		if body != nil {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			req = httptest.NewRequest(method, target, bytes.NewReader(encoded))
		} else {
			req = httptest.NewRequest(method, target, nil)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	created := do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Name:     "Checking",
		Currency: "USD",
	})
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var account dto.AccountResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &account))

	got := do(http.MethodGet, "/api/v1/accounts/"+account.ID, nil)
	require.Equal(t, http.StatusOK, got.Code)

	added := do(http.MethodPost, "/api/v1/accounts/"+account.ID+"/transactions", dto.AddTransactionRequest{
		Type:     "income",
		Amount:   decimal.RequireFromString("12.50"),
		Currency: "USD",
	})
	require.Equal(t, http.StatusCreated, added.Code, added.Body.String())

	listed := do(http.MethodGet, "/api/v1/accounts/"+account.ID+"/transactions", nil)
	require.Equal(t, http.StatusOK, listed.Code)

	var txns []dto.TransactionResponse
	require.NoError(t, json.Unmarshal(listed.Body.Bytes(), &txns))
	require.Len(t, txns, 1)

	missing := do(http.MethodGet, "/api/v1/accounts/nope", nil)
	require.Equal(t, http.StatusNotFound, missing.Code)
}
