package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/leadgrid/leadgrid/internal/httputil"
	"github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

const bearerPrefix = "bearer "

// bearerToken extracts the Bearer value from an Authorization header,
// case-insensitively. Returns "" when the header is missing or malformed.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < len(bearerPrefix) ||
		!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}

// TenantAuthMiddleware authenticates admin requests via a tenant admin key
// in the Authorization header.
//
// Authorization header format: "Bearer lga_<prefix>.<secret>"
//
// On success the tenant is stored in the request context and available to
// handlers via GetTenant. All failures answer 401 with a generic error; the
// caller cannot distinguish an unknown key from a wrong secret.
func TenantAuthMiddleware(tenantUseCase usecase.TenantUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey := bearerToken(c)
		if plainKey == "" {
			logger.Debug("tenant authentication failed: missing or malformed authorization header")
			httputil.FailCoded(c, 401, httputil.CodeUnauthenticated, "missing or malformed authorization header")
			c.Abort()
			return
		}

		tenant, err := tenantUseCase.Authenticate(c.Request.Context(), plainKey)
		if err != nil {
			logger.Debug("tenant authentication failed", slog.String("error", err.Error()))
			httputil.FailCoded(c, 401, httputil.CodeInvalidCredential, "invalid admin key")
			c.Abort()
			return
		}

		ctx := WithTenant(c.Request.Context(), tenant)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// DeviceAuthMiddleware authenticates device requests via the device
// credential in the Authorization header.
//
// Authorization header format: "Bearer lgk_<prefix>.<secret>"
//
// On success the device is stored in the request context and available to
// handlers via GetDevice.
func DeviceAuthMiddleware(credentialUseCase usecase.CredentialUseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		plainKey := bearerToken(c)
		if plainKey == "" {
			logger.Debug("device authentication failed: missing or malformed authorization header")
			httputil.FailCoded(c, 401, httputil.CodeUnauthenticated, "missing or malformed authorization header")
			c.Abort()
			return
		}

		device, err := credentialUseCase.Verify(c.Request.Context(), plainKey)
		if err != nil {
			logger.Debug("device authentication failed", slog.String("error", err.Error()))
			httputil.FailCoded(c, 401, httputil.CodeInvalidCredential, "invalid device credential")
			c.Abort()
			return
		}

		ctx := WithDevice(c.Request.Context(), device)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
