package ml

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eshelf/internal/microservices/http-api/dto"
	"eshelf/internal/microservices/http-api/handler"
	"eshelf/internal/microservices/http-api/middleware"
)

// Recommendation is one suggested book.
type Recommendation struct {
	ISBN  string  `json:"isbn"`
	Score float64 `json:"score"`
}

// staticItems is served until a real recommender is trained.
var staticItems = []Recommendation{
	{ISBN: "9780143127741", Score: 0.95},
	{ISBN: "9780525559474", Score: 0.9},
	{ISBN: "9780062316097", Score: 0.85},
}

type RecommendationsResponse struct {
	Success      bool             `json:"success"`
	UserID       string           `json:"user_id"`
	Strategy     string           `json:"strategy"`
	ModelVersion string           `json:"model_version"`
	Items        []Recommendation `json:"items"`
}

type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards handler.Guards) {
	rg.GET("/model", h.Model)
	rg.GET("/recommendations", guards.Optional, h.Recommendations)
	rg.POST("/model/reload", guards.Auth, guards.Admin, h.Reload)
}

func (h *Handler) Model(c *gin.Context) {
	m, found := h.registry.Current()
	if !found {
		c.JSON(http.StatusNotFound, dto.Envelope{
			Success: false,
			Message: "no model metadata found, run the training job first",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "model": m})
}

func (h *Handler) Recommendations(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		userID = c.Query("userId")
	}
	if userID == "" {
		if id := middleware.IdentityFrom(c).UserID(); id != nil {
			userID = *id
		} else {
			userID = "anonymous"
		}
	}

	m := h.registry.Effective()
	c.JSON(http.StatusOK, RecommendationsResponse{
		Success:      true,
		UserID:       userID,
		Strategy:     m.Algo,
		ModelVersion: m.Version,
		Items:        staticItems,
	})
}

func (h *Handler) Reload(c *gin.Context) {
	m, err := h.registry.Reload()
	if err != nil {
		_ = c.Error(err)
		return
	}
	if m == nil {
		c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "no model metadata found, model cleared"})
		return
	}
	c.JSON(http.StatusOK, dto.Envelope{Success: true, Message: "model reloaded", Data: m})
}

// Health reports whether a model is loaded.
func (h *Handler) Health(c *gin.Context) {
	_, found := h.registry.Current()
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"service":   "ml",
		"has_model": found,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
