package handlers

import (
	"net/http"

	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/gin-gonic/gin"
)

// InsightHandler handles HTTP requests for financial summaries.
type InsightHandler struct {
	insightService portssvc.InsightSvcFacade
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(is portssvc.InsightSvcFacade) *InsightHandler {
	return &InsightHandler{insightService: is}
}

// registerInsightRoutes sets up the routes for insights.
func registerInsightRoutes(rg *gin.RouterGroup, insightService portssvc.InsightSvcFacade) {
	h := NewInsightHandler(insightService)

	insights := rg.Group("/insights")
	{
		insights.GET("/summary", h.GetSummary)
	}
}

// GetSummary godoc
// @Summary Get financial summary
// @Description Returns the user's dashboard overview: total balance across active accounts, current-month income and expenses, and recent transactions.
// @Tags insights
// @Produce json
// @Success 200 {object} dto.InsightSummaryResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /insights/summary [get]
func (h *InsightHandler) GetSummary(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	summary, err := h.insightService.GetSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to compute summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}
