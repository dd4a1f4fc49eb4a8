// Package handler provides the HTTP surface over the fallback gateway.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/keyfleet/keyfleet/internal/adapter"
	"github.com/keyfleet/keyfleet/internal/catalog"
	"github.com/keyfleet/keyfleet/internal/credential"
	"github.com/keyfleet/keyfleet/internal/gateway"
)

// GenerateHandler exposes the gateway over HTTP: one generation endpoint
// plus catalog listings and a pool health view.
type GenerateHandler struct {
	gateway  *gateway.Gateway
	registry *credential.Registry
	catalog  *catalog.Catalog
	logger   *slog.Logger
}

// GenerateHandlerOption is a functional option for configuring GenerateHandler.
type GenerateHandlerOption func(*GenerateHandler)

// WithHandlerLogger sets a custom logger.
func WithHandlerLogger(logger *slog.Logger) GenerateHandlerOption {
	return func(h *GenerateHandler) {
		h.logger = logger
	}
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(
	gw *gateway.Gateway,
	registry *credential.Registry,
	cat *catalog.Catalog,
	opts ...GenerateHandlerOption,
) *GenerateHandler {
	h := &GenerateHandler{
		gateway:  gw,
		registry: registry,
		catalog:  cat,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// GenerateRequest is the request body for POST /v1/generate.
type GenerateRequest struct {
	// Group names the fallback chain to route through.
	Group string `json:"group" binding:"required"`

	// Prompt is the text-generation prompt.
	Prompt string `json:"prompt" binding:"required"`

	// Options carries free-form provider options (temperature, max_tokens,
	// messages, ...). Keys are forwarded to the provider client untouched.
	Options map[string]any `json:"options"`
}

// GenerateResponse is the response body for POST /v1/generate.
type GenerateResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Group   string `json:"group"`
	Text    string `json:"text"`
}

// HandleGenerate handles POST /v1/generate. It routes the prompt through
// the group's fallback chain and returns the first successful completion.
func (h *GenerateHandler) HandleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}

	text, err := h.gateway.Execute(c.Request.Context(), req.Group, req.Prompt, adapter.Options(req.Options))
	if err != nil {
		switch {
		case gateway.IsUnknownGroup(err):
			h.sendError(c, http.StatusNotFound, "invalid_request_error", err.Error())
		case gateway.IsExhausted(err):
			h.logger.Error("all candidates exhausted",
				slog.String("group", req.Group),
				slog.String("error", err.Error()),
			)
			h.sendError(c, http.StatusServiceUnavailable, "server_error", "No provider produced a response. Please try again later.")
		default:
			h.sendError(c, http.StatusInternalServerError, "server_error", "Internal error")
		}
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		ID:      "gen-" + uuid.NewString(),
		Object:  "generation",
		Created: time.Now().Unix(),
		Group:   req.Group,
		Text:    text,
	})
}

// HandleModels handles GET /v1/models. Returns the model catalog.
func (h *GenerateHandler) HandleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.catalog.Models(),
	})
}

// HandleGroups handles GET /v1/groups. Returns the fallback group names.
func (h *GenerateHandler) HandleGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   h.catalog.Groups(),
	})
}

// HandleHealth handles GET /health. Reports per-provider pool statistics;
// status degrades when no provider has a usable key left.
func (h *GenerateHandler) HandleHealth(c *gin.Context) {
	pools := h.registry.Snapshots()

	live := 0
	for _, p := range pools {
		live += p.Total - p.Retired
	}

	status := "healthy"
	if live == 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"providers": h.registry.ProvidersWithCredentials(),
		"pools":     pools,
	})
}

// sendError sends an error response in a consistent envelope.
func (h *GenerateHandler) sendError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"type":    errType,
		},
	})
}
