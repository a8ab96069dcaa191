package handlers

import (
	"net/http"

	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/gin-gonic/gin"
)

// FeatureHandler handles HTTP requests for feature flags.
type FeatureHandler struct {
	featureService portssvc.FeatureSvcFacade
}

// NewFeatureHandler creates a new FeatureHandler.
func NewFeatureHandler(fs portssvc.FeatureSvcFacade) *FeatureHandler {
	return &FeatureHandler{featureService: fs}
}

// registerFeatureRoutes sets up the routes for feature flags.
func registerFeatureRoutes(rg *gin.RouterGroup, featureService portssvc.FeatureSvcFacade) {
	h := NewFeatureHandler(featureService)

	features := rg.Group("/features")
	{
		features.GET("", h.ListFeatures)
		features.GET("/:featureKey", h.CheckFeature)
		features.PUT("/:featureKey", h.SetFeature)
		features.POST("/:featureKey/toggle", h.ToggleFeature)
	}
}

// ListFeatures godoc
// @Summary List feature flags
// @Description Returns the effective feature states for the authenticated user, defaults merged with their overrides.
// @Tags features
// @Produce json
// @Success 200 {array} dto.FeatureStateResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /features [get]
func (h *FeatureHandler) ListFeatures(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	states, err := h.featureService.ListFeatures(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list features")
		return
	}

	c.JSON(http.StatusOK, dto.ToListFeatureStateResponse(states))
}

// CheckFeature godoc
// @Summary Check feature flag
// @Description Returns the effective state of one feature for the authenticated user.
// @Tags features
// @Produce json
// @Param featureKey path string true "Feature key"
// @Success 200 {object} dto.FeatureCheckResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /features/{featureKey} [get]
func (h *FeatureHandler) CheckFeature(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	key := c.Param("featureKey")
	enabled, err := h.featureService.IsFeatureEnabled(c.Request.Context(), userID, key)
	if err != nil {
		respondError(c, err, "Feature not found")
		return
	}

	c.JSON(http.StatusOK, dto.FeatureCheckResponse{FeatureKey: key, Enabled: enabled})
}

// ToggleFeature godoc
// @Summary Toggle feature flag
// @Description Flips the authenticated user's effective state for one feature and returns the new state.
// @Tags features
// @Produce json
// @Param featureKey path string true "Feature key"
// @Success 200 {object} dto.FeatureCheckResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /features/{featureKey}/toggle [post]
func (h *FeatureHandler) ToggleFeature(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	key := c.Param("featureKey")
	enabled, err := h.featureService.ToggleUserFeature(c.Request.Context(), userID, key)
	if err != nil {
		respondError(c, err, "Failed to toggle feature")
		return
	}

	c.JSON(http.StatusOK, dto.FeatureCheckResponse{FeatureKey: key, Enabled: enabled})
}

// SetFeature godoc
// @Summary Set feature override
// @Description Sets the authenticated user's override for one feature flag.
// @Tags features
// @Accept json
// @Produce json
// @Param featureKey path string true "Feature key"
// @Param feature body dto.SetFeatureRequest true "Desired state"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /features/{featureKey} [put]
func (h *FeatureHandler) SetFeature(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.SetFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if err := h.featureService.SetUserFeature(c.Request.Context(), userID, c.Param("featureKey"), *req.Enabled); err != nil {
		respondError(c, err, "Failed to set feature")
		return
	}

	c.Status(http.StatusNoContent)
}
