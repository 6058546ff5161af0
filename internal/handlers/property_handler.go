package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/stwalsh4118/homematch/api/internal/errors"
	"github.com/stwalsh4118/homematch/api/internal/middleware"
	"github.com/stwalsh4118/homematch/api/internal/models"
	"github.com/stwalsh4118/homematch/api/internal/services"
)

// PropertyHandler handles listing, recommendation and favorites requests.
type PropertyHandler struct {
	properties services.PropertyService
	saved      services.SavedPropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(properties services.PropertyService, saved services.SavedPropertyService) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		saved:      saved,
	}
}

// RecommendRequest is the body of POST /properties/recommend.
type RecommendRequest struct {
	Location    string  `json:"location"`
	Budget      float64 `json:"budget" binding:"required,gt=0"`
	MinBedrooms int     `json:"minBedrooms"`
}

// SaveRequest is the body of POST /properties/save.
// Field order is optimized for memory alignment.
type SaveRequest struct {
	ImageURL   *string  `json:"image_url"`
	Title      string   `json:"title" binding:"required,max=200"`
	Location   string   `json:"location" binding:"required,max=200"`
	Reasoning  string   `json:"reasoning" binding:"max=1000"`
	Amenities  []string `json:"amenities" binding:"max=50"`
	Price      float64  `json:"price" binding:"required,gt=0"`
	SizeSqft   float64  `json:"size_sqft" binding:"gte=0"`
	MatchScore float64  `json:"matchScore" binding:"gte=0,lte=100"`
	PropertyID int      `json:"propertyId" binding:"required,gt=0"`
	Bedrooms   int      `json:"bedrooms" binding:"gte=0"`
	Bathrooms  int      `json:"bathrooms" binding:"gte=0"`
}

// PropertiesResponse wraps a listing collection.
type PropertiesResponse struct {
	Data    []models.Property `json:"data"`
	Count   int               `json:"count"`
	Success bool              `json:"success"`
}

// RecommendResponse wraps ranked recommendations with the preferences that produced them.
type RecommendResponse struct {
	Data        []models.ScoredProperty `json:"data"`
	Preferences models.Preferences      `json:"preferences"`
	Count       int                     `json:"count"`
	Success     bool                    `json:"success"`
	Fallback    bool                    `json:"fallback"`
}

// SavedPropertyResponse wraps a single saved property.
type SavedPropertyResponse struct {
	Data    *models.SavedProperty `json:"data"`
	Message string                `json:"message"`
	Success bool                  `json:"success"`
}

// SavedPropertiesResponse wraps the saved favorites.
type SavedPropertiesResponse struct {
	Data    []models.SavedProperty `json:"data"`
	Count   int                    `json:"count"`
	Success bool                   `json:"success"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// List handles GET /api/v1/properties.
func (h *PropertyHandler) List(c *gin.Context) {
	properties, err := h.properties.ListProperties(c.Request.Context())
	if err != nil {
		apierrors.InternalServerError(c, "Failed to load properties", err)
		return
	}

	c.JSON(http.StatusOK, PropertiesResponse{
		Success: true,
		Count:   len(properties),
		Data:    properties,
	})
}

// Recommend handles POST /api/v1/properties/recommend.
func (h *PropertyHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if !bindJSON(c, &req) {
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Processing recommend request", map[string]interface{}{
			"budget":       req.Budget,
			"location":     req.Location,
			"min_bedrooms": req.MinBedrooms,
		})
	}

	result, err := h.properties.Recommend(c.Request.Context(), models.Preferences{
		Location:    req.Location,
		Budget:      req.Budget,
		MinBedrooms: req.MinBedrooms,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPreferences) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to compute recommendations", err)
		return
	}

	c.JSON(http.StatusOK, RecommendResponse{
		Success:     true,
		Preferences: result.Preferences,
		Count:       len(result.Recommendations),
		Data:        result.Recommendations,
		Fallback:    result.Fallback,
	})
}

// Save handles POST /api/v1/properties/save.
func (h *PropertyHandler) Save(c *gin.Context) {
	var req SaveRequest
	if !bindJSON(c, &req) {
		return
	}

	saved, err := h.saved.Save(c.Request.Context(), models.SavedProperty{
		PropertyID: req.PropertyID,
		Title:      req.Title,
		Location:   req.Location,
		Price:      req.Price,
		Bedrooms:   req.Bedrooms,
		Bathrooms:  req.Bathrooms,
		SizeSqft:   req.SizeSqft,
		Amenities:  req.Amenities,
		ImageURL:   req.ImageURL,
		MatchScore: req.MatchScore,
		Reasoning:  req.Reasoning,
	})
	if err != nil {
		h.savedError(c, err, req.PropertyID, "Failed to save property")
		return
	}

	c.JSON(http.StatusCreated, SavedPropertyResponse{
		Success: true,
		Message: "Property saved",
		Data:    saved,
	})
}

// ListSaved handles GET /api/v1/properties/saved.
func (h *PropertyHandler) ListSaved(c *gin.Context) {
	saved, err := h.saved.List(c.Request.Context())
	if err != nil {
		h.savedError(c, err, 0, "Failed to load saved properties")
		return
	}

	c.JSON(http.StatusOK, SavedPropertiesResponse{
		Success: true,
		Count:   len(saved),
		Data:    saved,
	})
}

// RemoveSaved handles DELETE /api/v1/properties/saved/:id, where id is the listing ID.
func (h *PropertyHandler) RemoveSaved(c *gin.Context) {
	propertyID, err := strconv.Atoi(c.Param("id"))
	if err != nil || propertyID <= 0 {
		apierrors.BadRequest(c, "Property ID must be a positive integer", map[string]interface{}{
			"id": c.Param("id"),
		})
		return
	}

	if err := h.saved.Remove(c.Request.Context(), propertyID); err != nil {
		h.savedError(c, err, propertyID, "Failed to remove saved property")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Success: true,
		Message: "Property removed from saved",
	})
}

// savedError maps favorites service errors to responses.
func (h *PropertyHandler) savedError(c *gin.Context, err error, propertyID int, fallbackMessage string) {
	switch {
	case errors.Is(err, services.ErrInvalidSavedProperty):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, services.ErrPropertyAlreadySaved):
		apierrors.Conflict(c, "Property already saved", map[string]interface{}{
			"propertyId": propertyID,
		})
	case errors.Is(err, services.ErrSavedPropertyNotFound):
		apierrors.NotFound(c, "Saved property not found")
	case errors.Is(err, services.ErrStoreUnavailable):
		apierrors.ServiceUnavailable(c, "Saved properties are unavailable")
	default:
		apierrors.InternalServerError(c, fallbackMessage, err)
	}
}

// bindJSON binds the body into dst, writing the error response and returning false on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		apierrors.ValidationError(c, validationErrors)
		return false
	}
	apierrors.BadRequest(c, "Invalid request body", nil)
	return false
}
