package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/WemXPro/service-virtfusion/internal/models"
	"github.com/WemXPro/service-virtfusion/internal/repository"
	"github.com/WemXPro/service-virtfusion/internal/service"
	"github.com/WemXPro/service-virtfusion/internal/virtfusion"
)

type Handler struct {
	provisionService *service.ProvisionService
	settingsRepo     *repository.SettingsRepository
	logRepo          *repository.LogRepository
}

func NewHandler(provisionService *service.ProvisionService, settingsRepo *repository.SettingsRepository, logRepo *repository.LogRepository) *Handler {
	return &Handler{
		provisionService: provisionService,
		settingsRepo:     settingsRepo,
		logRepo:          logRepo,
	}
}

// bindLifecycleRequest reads the optional extra-data body. An empty or
// absent body is valid.
func bindLifecycleRequest(c *gin.Context) models.LifecycleRequest {
	var req models.LifecycleRequest
	_ = c.ShouldBindJSON(&req)
	return req
}

// statusForError maps the panel error taxonomy onto HTTP statuses for the
// billing platform. Messages pass through unchanged.
func statusForError(err error) int {
	var validationErr *virtfusion.ValidationError
	var provisioningErr *virtfusion.ProvisioningError
	var authErr *virtfusion.AuthorizationError
	var msgErr *virtfusion.RemoteMessageError
	var serverErr *virtfusion.RemoteServerError
	var connErr *virtfusion.ConnectivityError

	switch {
	case errors.As(err, &validationErr), errors.As(err, &provisioningErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &authErr), errors.As(err, &msgErr),
		errors.As(err, &serverErr), errors.As(err, &connErr):
		return http.StatusBadGateway
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ==================== Lifecycle Handlers ====================

// Provision handles order provisioning requests from the billing platform
func (h *Handler) Provision(c *gin.Context) {
	req := bindLifecycleRequest(c)

	resp, err := h.provisionService.Provision(c.Request.Context(), c.Param("id"), req.ExtraData)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Suspend suspends the order's panel server
func (h *Handler) Suspend(c *gin.Context) {
	req := bindLifecycleRequest(c)

	resp, err := h.provisionService.Suspend(c.Request.Context(), c.Param("id"), req.ExtraData)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Unsuspend lifts a suspension on the order's panel server
func (h *Handler) Unsuspend(c *gin.Context) {
	req := bindLifecycleRequest(c)

	resp, err := h.provisionService.Unsuspend(c.Request.Context(), c.Param("id"), req.ExtraData)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Terminate schedules the order's panel server for deletion
func (h *Handler) Terminate(c *gin.Context) {
	req := bindLifecycleRequest(c)

	resp, err := h.provisionService.Terminate(c.Request.Context(), c.Param("id"), req.ExtraData)
	if err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PanelLogin redirects the browser into the panel via a one-time SSO token
func (h *Handler) PanelLogin(c *gin.Context) {
	resp, err := h.provisionService.LoginToPanel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.Redirect(http.StatusFound, resp.RedirectURL)
}

// ==================== Config Handlers ====================

// GetConfigSchema returns the installation-wide settings schema
func (h *Handler) GetConfigSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.provisionService.ConfigSchema()})
}

// GetPackageConfigSchema returns the per-package settings schema
func (h *Handler) GetPackageConfigSchema(c *gin.Context) {
	fields := h.provisionService.PackageConfigSchema(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"fields": fields})
}

// GetCheckoutSchema returns the buyer-facing checkout fields (none)
func (h *Handler) GetCheckoutSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": h.provisionService.CheckoutConfigSchema()})
}

// GetServiceButtons returns the custom admin buttons for an order (none)
func (h *Handler) GetServiceButtons(c *gin.Context) {
	buttons := h.provisionService.ServiceButtons(&models.Order{ID: c.Param("id")})
	c.JSON(http.StatusOK, gin.H{"buttons": buttons})
}

// GetMetadata returns the fixed service descriptor
func (h *Handler) GetMetadata(c *gin.Context) {
	c.JSON(http.StatusOK, h.provisionService.Metadata())
}

// SaveSettings validates and stores the panel connection settings
func (h *Handler) SaveSettings(c *gin.Context) {
	var req models.SaveSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsRepo.Save(c.Request.Context(), req.Hostname, req.APIKey); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TestConnection validates the stored settings against the panel
func (h *Handler) TestConnection(c *gin.Context) {
	c.JSON(http.StatusOK, h.provisionService.TestConnection(c.Request.Context()))
}

// GetOrderLogs returns the lifecycle audit trail for an order
func (h *Handler) GetOrderLogs(c *gin.Context) {
	logs, err := h.logRepo.GetByOrderID(c.Request.Context(), c.Param("id"), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
