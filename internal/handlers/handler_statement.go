package handlers

import (
	"io"
	"net/http"

	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/finlens/finlens_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// StatementHandler handles HTTP requests related to bank statement uploads.
type StatementHandler struct {
	statementService portssvc.StatementSvcFacade
	maxUploadSize    int64
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(ss portssvc.StatementSvcFacade, maxUploadSize int64) *StatementHandler {
	return &StatementHandler{
		statementService: ss,
		maxUploadSize:    maxUploadSize,
	}
}

// registerStatementRoutes sets up the routes for statements.
func registerStatementRoutes(rg *gin.RouterGroup, cfg *config.Config, statementService portssvc.StatementSvcFacade) {
	h := NewStatementHandler(statementService, cfg.MaxUploadSizeBytes)

	statements := rg.Group("/statements")
	{
		statements.POST("", h.UploadStatement)
		statements.GET("", h.ListStatements)
		statements.GET("/banks", h.ListSupportedBanks)
		statements.GET("/parsers", h.ListParsers)
		statements.GET("/:statementID", h.GetStatement)
		statements.POST("/:statementID/confirm", h.ConfirmImport)
		statements.DELETE("/:statementID", h.DeleteStatement)
	}
}

// UploadStatement godoc
// @Summary Upload bank statement
// @Description Uploads a statement file for an account, parses it and returns a preview of the transactions. Nothing is imported until the upload is confirmed.
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param accountID formData string true "Account the statement belongs to"
// @Param file formData file true "Statement file (XLS or XLSX)"
// @Success 200 {object} dto.StatementPreviewResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 413 {object} ErrorResponse "File too large"
// @Security BearerAuth
// @Router /statements [post]
func (h *StatementHandler) UploadStatement(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	accountID := c.PostForm("accountID")
	if accountID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "accountID is required"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Statement file is required"})
		return
	}
	if fileHeader.Size > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Statement file exceeds the upload size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Failed to read uploaded file"})
		return
	}
	if int64(len(data)) > h.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: "Statement file exceeds the upload size limit"})
		return
	}

	preview, err := h.statementService.UploadStatement(c.Request.Context(), userID, accountID, fileHeader.Filename, data)
	if err != nil {
		respondError(c, err, "Failed to process statement")
		return
	}

	c.JSON(http.StatusOK, preview)
}

// ConfirmImport godoc
// @Summary Confirm statement import
// @Description Imports the parsed transactions of a previously uploaded statement, skipping duplicates.
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.ImportResultResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID}/confirm [post]
func (h *StatementHandler) ConfirmImport(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	result, err := h.statementService.ConfirmImport(c.Request.Context(), userID, c.Param("statementID"))
	if err != nil {
		respondError(c, err, "Failed to import statement")
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListStatements godoc
// @Summary List statements
// @Description Returns the user's uploaded statements, newest first.
// @Tags statements
// @Produce json
// @Success 200 {array} dto.StatementResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements [get]
func (h *StatementHandler) ListStatements(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	statements, err := h.statementService.ListStatements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list statements")
		return
	}

	c.JSON(http.StatusOK, dto.ToListStatementResponse(statements))
}

// GetStatement godoc
// @Summary Get statement
// @Description Returns a single uploaded statement owned by the authenticated user.
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 200 {object} dto.StatementResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID} [get]
func (h *StatementHandler) GetStatement(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	statement, err := h.statementService.GetStatementByID(c.Request.Context(), userID, c.Param("statementID"))
	if err != nil {
		respondError(c, err, "Statement not found")
		return
	}

	c.JSON(http.StatusOK, dto.ToStatementResponse(statement))
}

// DeleteStatement godoc
// @Summary Delete statement
// @Description Deletes an uploaded statement and its stored file. Transactions already imported from it are kept.
// @Tags statements
// @Produce json
// @Param statementID path string true "Statement ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /statements/{statementID} [delete]
func (h *StatementHandler) DeleteStatement(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.statementService.DeleteStatement(c.Request.Context(), userID, c.Param("statementID")); err != nil {
		respondError(c, err, "Failed to delete statement")
		return
	}

	c.Status(http.StatusNoContent)
}

// ListSupportedBanks godoc
// @Summary List supported banks
// @Description Returns the banks whose statement layouts can be parsed.
// @Tags statements
// @Produce json
// @Success 200 {array} dto.BankInfoResponse
// @Security BearerAuth
// @Router /statements/banks [get]
func (h *StatementHandler) ListSupportedBanks(c *gin.Context) {
	c.JSON(http.StatusOK, h.statementService.ListSupportedBanks(c.Request.Context()))
}

// ListParsers godoc
// @Summary List statement parsers
// @Description Returns the names of the registered statement parsers.
// @Tags statements
// @Produce json
// @Success 200 {array} string
// @Security BearerAuth
// @Router /statements/parsers [get]
func (h *StatementHandler) ListParsers(c *gin.Context) {
	c.JSON(http.StatusOK, h.statementService.ListParsers(c.Request.Context()))
}
