package app

import (
	"fmt"

	"github.com/leadgrid/leadgrid/internal/http"
	"github.com/leadgrid/leadgrid/internal/metrics"
	provisioningHTTP "github.com/leadgrid/leadgrid/internal/provisioning/http"
)

// initHTTPServer creates the API server, installs the cross-cutting
// middleware and registers every route group.
func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)

	server.Use(http.CreateCORSMiddleware(c.config.CORSEnabled, c.config.CORSAllowOrigins, logger))

	if c.config.MetricsEnabled {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
		}
		server.Use(metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace))
	}

	if err := c.registerRoutes(server); err != nil {
		return nil, err
	}

	return server, nil
}

// registerRoutes attaches the admin, public, device and webhook route groups.
//
// Three authentication perimeters exist: admin routes require a tenant admin
// key, device routes require a device credential, and the claim plus webhook
// endpoints carry their own checks (one-time token and shared secret).
func (c *Container) registerRoutes(server *http.Server) error {
	logger := c.Logger()
	router := server.Router()

	tenantUseCase, err := c.TenantUseCase()
	if err != nil {
		return fmt.Errorf("failed to get tenant use case for routes: %w", err)
	}

	credentialUseCase, err := c.CredentialUseCase()
	if err != nil {
		return fmt.Errorf("failed to get credential use case for routes: %w", err)
	}

	deviceHandler, err := c.DeviceHandler()
	if err != nil {
		return fmt.Errorf("failed to get device handler for routes: %w", err)
	}

	tokenHandler, err := c.TokenHandler()
	if err != nil {
		return fmt.Errorf("failed to get token handler for routes: %w", err)
	}

	resendHandler, err := c.ResendHandler()
	if err != nil {
		return fmt.Errorf("failed to get resend handler for routes: %w", err)
	}

	claimHandler, err := c.ClaimHandler()
	if err != nil {
		return fmt.Errorf("failed to get claim handler for routes: %w", err)
	}

	heartbeatHandler, err := c.HeartbeatHandler()
	if err != nil {
		return fmt.Errorf("failed to get heartbeat handler for routes: %w", err)
	}

	licenseHandler, err := c.LicenseHandler()
	if err != nil {
		return fmt.Errorf("failed to get license handler for routes: %w", err)
	}

	eventsHandler, err := c.EventsHandler()
	if err != nil {
		return fmt.Errorf("failed to get events handler for routes: %w", err)
	}

	webhookHandler, err := c.WebhookHandler()
	if err != nil {
		return fmt.Errorf("failed to get webhook handler for routes: %w", err)
	}

	// Admin routes: tenant-scoped device and token management.
	admin := router.Group("/v1", provisioningHTTP.TenantAuthMiddleware(tenantUseCase, logger))
	admin.POST("/devices", deviceHandler.CreateHandler)
	admin.GET("/devices", deviceHandler.ListHandler)
	admin.GET("/devices/:id", deviceHandler.GetHandler)
	admin.DELETE("/devices/:id", deviceHandler.DeleteHandler)
	admin.POST("/devices/:id/provision-token", tokenHandler.CreateHandler)
	admin.POST("/devices/:id/provision-token/rotate", tokenHandler.RotateHandler)
	admin.GET("/devices/:id/provision-token", tokenHandler.StatusHandler)
	admin.POST("/devices/:id/provision-token/resend", resendHandler.ResendHandler)

	// Public claim endpoint: the token itself is the only credential, so the
	// per-IP rate limit is the brute-force backstop.
	claim := router.Group("/v1")
	if c.config.ClaimRateLimitEnabled {
		claim.Use(provisioningHTTP.ClaimRateLimitMiddleware(
			c.config.ClaimRateLimitRequestsPerSec,
			c.config.ClaimRateLimitBurst,
			logger,
		))
	}
	claim.POST("/claim", claimHandler.ClaimHandler)

	// Device routes: authenticated by the device credential.
	device := router.Group("/v1", provisioningHTTP.DeviceAuthMiddleware(credentialUseCase, logger))
	device.POST("/heartbeat", heartbeatHandler.HeartbeatHandler)
	device.GET("/events", eventsHandler.ListHandler)
	device.GET("/license", licenseHandler.StateHandler)
	device.POST("/license/checkout", licenseHandler.CheckoutHandler)

	// Billing webhook: authenticated by the shared secret header.
	router.POST("/v1/billing/webhook", webhookHandler.WebhookHandler)

	return nil
}
