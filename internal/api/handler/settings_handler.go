package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dashledger/internal/api/service"
	"github.com/dashledger/internal/domain/settings"
)

// SettingsHandler handles HTTP requests for the settings singleton
type SettingsHandler struct {
	settingsService service.SettingsService
	logger          *slog.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(logger *slog.Logger, settingsService service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// Get returns the stored settings, creating them with defaults on first access
func (h *SettingsHandler) Get(c *gin.Context) {
	s, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get settings", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapSettingsToResponse(s))
}

// Update replaces the stored settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	s, err := h.settingsService.UpdateSettings(c.Request.Context(), &settings.Settings{
		CostPerMile: decimal.NewFromFloat(req.CostPerMile),
	})
	if err != nil {
		if errors.Is(err, settings.ErrNegativeCostPerMile) {
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to update settings", "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapSettingsToResponse(s))
}

// mapSettingsToResponse maps settings to the response DTO
func mapSettingsToResponse(s *settings.Settings) SettingsResponse {
	return SettingsResponse{
		CostPerMile: s.CostPerMile.Round(2).InexactFloat64(),
	}
}
