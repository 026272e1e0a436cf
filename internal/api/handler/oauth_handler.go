package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dashledger/internal/api/service"
	"github.com/dashledger/internal/domain/integration"
)

// OAuthHandler handles HTTP requests for platform OAuth connections
type OAuthHandler struct {
	oauthService service.OAuthService
	logger       *slog.Logger
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(logger *slog.Logger, oauthService service.OAuthService) *OAuthHandler {
	return &OAuthHandler{
		oauthService: oauthService,
		logger:       logger,
	}
}

// Authorize returns the provider authorization URL for a platform
func (h *OAuthHandler) Authorize(c *gin.Context) {
	p, ok := h.platform(c)
	if !ok {
		return
	}

	url, err := h.oauthService.AuthorizeURL(p, uuid.NewString())
	if err != nil {
		h.logger.Error("Failed to build authorization URL", "platform", p, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, AuthorizeURLResponse{AuthorizationURL: url})
}

// Callback exchanges the authorization code and stores the credential
func (h *OAuthHandler) Callback(c *gin.Context) {
	p, ok := h.platform(c)
	if !ok {
		return
	}

	code := c.Query("code")
	if code == "" {
		RespondBadRequest(c, "Missing authorization code")
		return
	}

	cred, err := h.oauthService.HandleCallback(c.Request.Context(), p, code)
	if err != nil {
		h.logger.Error("OAuth callback failed", "platform", p, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapCredentialToStatus(cred))
}

// Disconnect deactivates the stored credential for a platform
func (h *OAuthHandler) Disconnect(c *gin.Context) {
	p, ok := h.platform(c)
	if !ok {
		return
	}

	if err := h.oauthService.Disconnect(c.Request.Context(), p); err != nil {
		if errors.Is(err, integration.ErrCredentialNotFound{}) {
			RespondNotFound(c, "Platform not connected: "+string(p))
			return
		}
		h.logger.Error("Failed to disconnect platform", "platform", p, "error", err)
		RespondInternalError(c)
		return
	}

	RespondNoContent(c)
}

// Status reports the connection state of every supported platform
func (h *OAuthHandler) Status(c *gin.Context) {
	statuses, err := h.oauthService.Status(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to get oauth status", "error", err)
		RespondInternalError(c)
		return
	}

	resp := OAuthStatusResponse{Platforms: make([]PlatformStatusResponse, 0, len(statuses))}
	for _, st := range statuses {
		item := PlatformStatusResponse{
			Platform:  string(st.Platform),
			Connected: st.Connected,
		}
		if st.ExpiresAt != nil {
			item.ExpiresAt = st.ExpiresAt.Format(time.RFC3339)
		}
		resp.Platforms = append(resp.Platforms, item)
	}

	RespondOK(c, resp)
}

func (h *OAuthHandler) platform(c *gin.Context) (integration.SyncPlatform, bool) {
	raw := c.Param("platform")
	p, err := integration.ParseSyncPlatform(raw)
	if err != nil {
		RespondBadRequest(c, "Unknown platform: "+raw)
		return "", false
	}
	return p, true
}

func mapCredentialToStatus(cred *integration.Credential) PlatformStatusResponse {
	st := PlatformStatusResponse{
		Platform:  string(cred.Platform),
		Connected: cred.IsActive,
	}
	if cred.TokenExpiresAt != nil {
		st.ExpiresAt = cred.TokenExpiresAt.Format(time.RFC3339)
	}
	return st
}
