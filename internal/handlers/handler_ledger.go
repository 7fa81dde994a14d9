package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/apperrors"
	portssvc "github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/ports/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/core/services"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/dto"
	"github.com/pedritastark/phill-chatbot-gcp-sub000/internal/middleware"
)

// ledgerHandler handles HTTP requests for recording and listing transactions.
type ledgerHandler struct {
	ledgerService  portssvc.LedgerSvcFacade
	accountService portssvc.AccountSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, as portssvc.AccountSvcFacade) *ledgerHandler {
	return &ledgerHandler{
		ledgerService:  ls,
		accountService: as,
	}
}

// registerLedgerRoutes registers routes for transactions and upstream commands.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, as portssvc.AccountSvcFacade) {
	h := newLedgerHandler(ls, as)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.recordTransaction)
		transactions.GET("", h.listTransactions)
	}

	// Tool-calling layers post raw command blobs here; the closed command
	// enum is the only thing that gets past this endpoint.
	rg.POST("/commands", h.executeCommand)
}

func (h *ledgerHandler) recordTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.ledgerService.RecordTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondLedgerError(c, logger, err)
		return
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", result.TransactionID),
		slog.String("status", string(result.Status)),
		slog.Bool("was_pending_resolved", result.WasPendingResolved))
	c.JSON(http.StatusCreated, result)
}

func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters", "code": "VALIDATION_ERROR"})
		return
	}

	txns, err := h.ledgerService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions", "code": "PERSISTENCE_ERROR"})
		return
	}

	c.JSON(http.StatusOK, txns)
}

func (h *ledgerHandler) executeCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.Warn("Failed to read command body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body", "code": "VALIDATION_ERROR"})
		return
	}

	cmd, err := dto.DecodeCommand(body)
	if err != nil {
		logger.Warn("Rejected command payload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	logger.Info("Executing command", slog.String("command_kind", string(cmd.Kind)))

	switch cmd.Kind {
	case dto.CommandRecordExpense, dto.CommandRecordIncome:
		result, err := h.ledgerService.RecordTransaction(c.Request.Context(), userID, *cmd.Record)
		if err != nil {
			respondLedgerError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, result)
	case dto.CommandCreateAccount:
		account, err := h.accountService.CreateAccount(c.Request.Context(), userID, *cmd.CreateAccount)
		if err != nil {
			respondAccountError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
	default:
		// DecodeCommand guarantees the enum, but handle it anyway.
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown command", "code": "VALIDATION_ERROR"})
	}
}

// respondLedgerError maps ledger service failures to HTTP status and a stable
// machine-readable code the messaging layer can act on.
func respondLedgerError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrCreditLimitExceeded):
		logger.Warn("Transaction refused by credit limit", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "code": "CREDIT_LIMIT_EXCEEDED"})
	case errors.Is(err, services.ErrAccountNotFound):
		logger.Warn("Account not found for transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "ACCOUNT_NOT_FOUND"})
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidTransactionType),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Invalid transaction request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
	case errors.Is(err, services.ErrCategoryResolution):
		logger.Error("Category resolution failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "code": "CATEGORY_RESOLUTION_FAILED"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Referenced entity not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error(), "code": "NOT_FOUND"})
	default:
		logger.Error("Failed to record transaction", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction", "code": "PERSISTENCE_ERROR"})
	}
}
