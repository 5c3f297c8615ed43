package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/okri/splitbook/internal/adapter/http/dto"
	"github.com/okri/splitbook/internal/adapter/http/middleware"
	"github.com/okri/splitbook/internal/infrastructure/metrics"
	"github.com/okri/splitbook/internal/usecase"
)

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC *usecase.TransferCoordinator
	metrics    *metrics.Metrics
}

// NewTransferHandler creates a new TransferHandler. Metrics may be nil in
// tests.
func NewTransferHandler(transferUC *usecase.TransferCoordinator, m *metrics.Metrics) *TransferHandler {
	return &TransferHandler{transferUC: transferUC, metrics: m}
}

// Create moves value between two accounts.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	principalID, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()

	result, err := h.transferUC.PerformTransfer(r.Context(), principalID, req.ToUseCaseInput())
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordError("transfer", err)
		}
		writeDomainError(w, err, "failed to perform transfer")
		return
	}

	if h.metrics != nil {
		h.metrics.TransfersCompleted.Inc()
		h.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		h.metrics.TransferAmount.Observe(req.Amount.InexactFloat64())
	}

	writeJSON(w, http.StatusCreated, dto.TransferResponse{
		SenderTransactionID:   result.SenderTransactionID,
		ReceiverTransactionID: result.ReceiverTransactionID,
	})
}
