package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles HTTP requests related to transactions.
type TransactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts portssvc.TransactionSvcFacade) *TransactionHandler {
	return &TransactionHandler{transactionService: ts}
}

// registerTransactionRoutes sets up the routes for transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade) {
	h := NewTransactionHandler(transactionService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.CreateTransaction)
		transactions.GET("", h.ListTransactions)
		transactions.GET("/recent", h.ListRecentTransactions)
		transactions.GET("/:transactionID", h.GetTransaction)
		transactions.PUT("/:transactionID", h.UpdateTransaction)
		transactions.DELETE("/:transactionID", h.DeleteTransaction)
	}
}

// CreateTransaction godoc
// @Summary Create transaction
// @Description Records a manually entered transaction on one of the user's accounts.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// ListTransactions godoc
// @Summary List transactions
// @Description Returns a filtered, paginated list of the user's transactions, newest first.
// @Tags transactions
// @Produce json
// @Param accountID query string false "Filter by account"
// @Param categoryID query string false "Filter by category"
// @Param statementID query string false "Filter by source statement"
// @Param transactionType query string false "debit or credit"
// @Param startDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param endDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param minAmount query string false "Minimum amount"
// @Param maxAmount query string false "Maximum amount"
// @Param search query string false "Match against description and merchant"
// @Param limit query int false "Page size (default 50, max 500)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	filters, err := toTransactionFilters(params)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	txns, total, err := h.transactionService.ListTransactions(c.Request.Context(), userID, filters)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns, total, filters.Limit, filters.Offset))
}

// ListRecentTransactions godoc
// @Summary List recent transactions
// @Description Returns the user's most recent transactions across all accounts.
// @Tags transactions
// @Produce json
// @Param limit query int false "Number of transactions (default 5, max 50)"
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/recent [get]
func (h *TransactionHandler) ListRecentTransactions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	txns, err := h.transactionService.ListRecentTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err, "Failed to list recent transactions")
		return
	}

	responses := make([]dto.TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = dto.ToTransactionResponse(&txns[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetTransaction godoc
// @Summary Get transaction
// @Description Returns a single transaction owned by the authenticated user.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransactionByID(c.Request.Context(), userID, c.Param("transactionID"))
	if err != nil {
		respondError(c, err, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// UpdateTransaction godoc
// @Summary Update transaction
// @Description Updates the editable fields of a transaction (category, description, notes, flags).
// @Tags transactions
// @Accept json
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Param transaction body dto.UpdateTransactionRequest true "Fields to update"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [put]
func (h *TransactionHandler) UpdateTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), userID, c.Param("transactionID"), req)
	if err != nil {
		respondError(c, err, "Failed to update transaction")
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// DeleteTransaction godoc
// @Summary Delete transaction
// @Description Marks a transaction as deleted.
// @Tags transactions
// @Produce json
// @Param transactionID path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [delete]
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.transactionService.DeleteTransaction(c.Request.Context(), userID, c.Param("transactionID")); err != nil {
		respondError(c, err, "Failed to delete transaction")
		return
	}

	c.Status(http.StatusNoContent)
}

// toTransactionFilters converts validated query params to repository filters.
func toTransactionFilters(params dto.ListTransactionsParams) (portsrepo.TransactionFilters, error) {
	filters := portsrepo.TransactionFilters{
		Limit:  params.Limit,
		Offset: params.Offset,
	}

	if params.AccountID != "" {
		filters.AccountID = &params.AccountID
	}
	if params.CategoryID != "" {
		filters.CategoryID = &params.CategoryID
	}
	if params.StatementID != "" {
		filters.StatementID = &params.StatementID
	}
	if params.TransactionType != "" {
		txnType := domain.TransactionType(params.TransactionType)
		filters.TransactionType = &txnType
	}
	if params.Search != "" {
		filters.Search = &params.Search
	}

	if params.StartDate != "" {
		startDate, err := time.Parse("2006-01-02", params.StartDate)
		if err != nil {
			return filters, err
		}
		filters.StartDate = &startDate
	}
	if params.EndDate != "" {
		endDate, err := time.Parse("2006-01-02", params.EndDate)
		if err != nil {
			return filters, err
		}
		filters.EndDate = &endDate
	}

	if params.MinAmount != "" {
		minAmount, err := decimal.NewFromString(params.MinAmount)
		if err != nil {
			return filters, err
		}
		filters.MinAmount = &minAmount
	}
	if params.MaxAmount != "" {
		maxAmount, err := decimal.NewFromString(params.MaxAmount)
		if err != nil {
			return filters, err
		}
		filters.MaxAmount = &maxAmount
	}

	return filters, nil
}
