package app

import (
	"fmt"

	provisioningHTTP "github.com/leadgrid/leadgrid/internal/provisioning/http"
	provisioningRepository "github.com/leadgrid/leadgrid/internal/provisioning/repository"
	provisioningService "github.com/leadgrid/leadgrid/internal/provisioning/service"
	provisioningUseCase "github.com/leadgrid/leadgrid/internal/provisioning/usecase"
)

// KeyService returns the key service for admin key and credential generation.
func (c *Container) KeyService() provisioningService.KeyService {
	c.keyServiceInit.Do(func() {
		c.keyService = provisioningService.NewKeyService()
	})
	return c.keyService
}

// TokenService returns the provisioning token service.
func (c *Container) TokenService() provisioningService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = provisioningService.NewTokenService()
	})
	return c.tokenService
}

// TenantRepository returns the tenant repository based on database driver.
func (c *Container) TenantRepository() (provisioningUseCase.TenantRepository, error) {
	var err error
	c.tenantRepositoryInit.Do(func() {
		c.tenantRepository, err = c.initTenantRepository()
		if err != nil {
			c.initErrors["tenantRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantRepository"]; exists {
		return nil, storedErr
	}
	return c.tenantRepository, nil
}

// DeviceRepository returns the device repository based on database driver.
func (c *Container) DeviceRepository() (provisioningUseCase.DeviceRepository, error) {
	var err error
	c.deviceRepositoryInit.Do(func() {
		c.deviceRepository, err = c.initDeviceRepository()
		if err != nil {
			c.initErrors["deviceRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceRepository"]; exists {
		return nil, storedErr
	}
	return c.deviceRepository, nil
}

// TokenRepository returns the provisioning token repository based on database
// driver.
func (c *Container) TokenRepository() (provisioningUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepository"]; exists {
		return nil, storedErr
	}
	return c.tokenRepository, nil
}

// CredentialRepository returns the credential repository based on database
// driver.
func (c *Container) CredentialRepository() (provisioningUseCase.CredentialRepository, error) {
	var err error
	c.credentialRepositoryInit.Do(func() {
		c.credentialRepository, err = c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialRepository"]; exists {
		return nil, storedErr
	}
	return c.credentialRepository, nil
}

// TenantUseCase returns the tenant use case.
func (c *Container) TenantUseCase() (provisioningUseCase.TenantUseCase, error) {
	var err error
	c.tenantUseCaseInit.Do(func() {
		c.tenantUseCase, err = c.initTenantUseCase()
		if err != nil {
			c.initErrors["tenantUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tenantUseCase"]; exists {
		return nil, storedErr
	}
	return c.tenantUseCase, nil
}

// DeviceUseCase returns the device use case.
func (c *Container) DeviceUseCase() (provisioningUseCase.DeviceUseCase, error) {
	var err error
	c.deviceUseCaseInit.Do(func() {
		c.deviceUseCase, err = c.initDeviceUseCase()
		if err != nil {
			c.initErrors["deviceUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceUseCase"]; exists {
		return nil, storedErr
	}
	return c.deviceUseCase, nil
}

// TokenUseCase returns the provisioning token use case.
func (c *Container) TokenUseCase() (provisioningUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUseCase, nil
}

// ClaimUseCase returns the claim use case.
func (c *Container) ClaimUseCase() (provisioningUseCase.ClaimUseCase, error) {
	var err error
	c.claimUseCaseInit.Do(func() {
		c.claimUseCase, err = c.initClaimUseCase()
		if err != nil {
			c.initErrors["claimUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["claimUseCase"]; exists {
		return nil, storedErr
	}
	return c.claimUseCase, nil
}

// CredentialUseCase returns the credential use case.
func (c *Container) CredentialUseCase() (provisioningUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase()
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

// ResendUseCase returns the token resend use case.
func (c *Container) ResendUseCase() (provisioningUseCase.ResendUseCase, error) {
	var err error
	c.resendUseCaseInit.Do(func() {
		c.resendUseCase, err = c.initResendUseCase()
		if err != nil {
			c.initErrors["resendUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resendUseCase"]; exists {
		return nil, storedErr
	}
	return c.resendUseCase, nil
}

// DeviceHandler returns the HTTP handler for device management operations.
func (c *Container) DeviceHandler() (*provisioningHTTP.DeviceHandler, error) {
	var err error
	c.deviceHandlerInit.Do(func() {
		c.deviceHandler, err = c.initDeviceHandler()
		if err != nil {
			c.initErrors["deviceHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["deviceHandler"]; exists {
		return nil, storedErr
	}
	return c.deviceHandler, nil
}

// TokenHandler returns the HTTP handler for provisioning token operations.
func (c *Container) TokenHandler() (*provisioningHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// ClaimHandler returns the HTTP handler for the public claim endpoint.
func (c *Container) ClaimHandler() (*provisioningHTTP.ClaimHandler, error) {
	var err error
	c.claimHandlerInit.Do(func() {
		c.claimHandler, err = c.initClaimHandler()
		if err != nil {
			c.initErrors["claimHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["claimHandler"]; exists {
		return nil, storedErr
	}
	return c.claimHandler, nil
}

// ResendHandler returns the HTTP handler for token resend operations.
func (c *Container) ResendHandler() (*provisioningHTTP.ResendHandler, error) {
	var err error
	c.resendHandlerInit.Do(func() {
		c.resendHandler, err = c.initResendHandler()
		if err != nil {
			c.initErrors["resendHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resendHandler"]; exists {
		return nil, storedErr
	}
	return c.resendHandler, nil
}

// HeartbeatHandler returns the HTTP handler for device heartbeats.
func (c *Container) HeartbeatHandler() (*provisioningHTTP.HeartbeatHandler, error) {
	var err error
	c.heartbeatHandlerInit.Do(func() {
		c.heartbeatHandler, err = c.initHeartbeatHandler()
		if err != nil {
			c.initErrors["heartbeatHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["heartbeatHandler"]; exists {
		return nil, storedErr
	}
	return c.heartbeatHandler, nil
}

// initTenantRepository creates the tenant repository based on the database
// driver.
func (c *Container) initTenantRepository() (provisioningUseCase.TenantRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tenant repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return provisioningRepository.NewPostgreSQLTenantRepository(db), nil
	case "mysql":
		return provisioningRepository.NewMySQLTenantRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initDeviceRepository creates the device repository based on the database
// driver.
func (c *Container) initDeviceRepository() (provisioningUseCase.DeviceRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for device repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return provisioningRepository.NewPostgreSQLDeviceRepository(db), nil
	case "mysql":
		return provisioningRepository.NewMySQLDeviceRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenRepository creates the provisioning token repository based on the
// database driver.
func (c *Container) initTokenRepository() (provisioningUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return provisioningRepository.NewPostgreSQLTokenRepository(db), nil
	case "mysql":
		return provisioningRepository.NewMySQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialRepository creates the credential repository based on the
// database driver.
func (c *Container) initCredentialRepository() (provisioningUseCase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return provisioningRepository.NewPostgreSQLCredentialRepository(db), nil
	case "mysql":
		return provisioningRepository.NewMySQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTenantUseCase creates the tenant use case with all its dependencies.
func (c *Container) initTenantUseCase() (provisioningUseCase.TenantUseCase, error) {
	tenantRepository, err := c.TenantRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant repository for tenant use case: %w", err)
	}

	return provisioningUseCase.NewTenantUseCase(tenantRepository, c.KeyService()), nil
}

// initDeviceUseCase creates the device use case with all its dependencies.
func (c *Container) initDeviceUseCase() (provisioningUseCase.DeviceUseCase, error) {
	deviceRepository, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for device use case: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for device use case: %w", err)
	}

	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for device use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for device use case: %w", err)
	}

	baseUseCase := provisioningUseCase.NewDeviceUseCase(
		c.config,
		deviceRepository,
		tokenRepository,
		credentialRepository,
		txManager,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for device use case: %w", err)
		}
		return provisioningUseCase.NewDeviceUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initTokenUseCase creates the provisioning token use case with all its
// dependencies.
func (c *Container) initTokenUseCase() (provisioningUseCase.TokenUseCase, error) {
	deviceRepository, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for token use case: %w", err)
	}

	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	baseUseCase := provisioningUseCase.NewTokenUseCase(
		c.config,
		deviceRepository,
		tokenRepository,
		c.TokenService(),
		txManager,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
		}
		return provisioningUseCase.NewTokenUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initClaimUseCase creates the claim use case with all its dependencies.
func (c *Container) initClaimUseCase() (provisioningUseCase.ClaimUseCase, error) {
	tokenRepository, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for claim use case: %w", err)
	}

	deviceRepository, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for claim use case: %w", err)
	}

	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for claim use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for claim use case: %w", err)
	}

	baseUseCase := provisioningUseCase.NewClaimUseCase(
		c.config,
		tokenRepository,
		deviceRepository,
		credentialRepository,
		c.TokenService(),
		c.KeyService(),
		txManager,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for claim use case: %w", err)
		}
		return provisioningUseCase.NewClaimUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initCredentialUseCase creates the credential use case with all its
// dependencies.
func (c *Container) initCredentialUseCase() (provisioningUseCase.CredentialUseCase, error) {
	credentialRepository, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	deviceRepository, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for credential use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for credential use case: %w", err)
	}

	baseUseCase := provisioningUseCase.NewCredentialUseCase(
		credentialRepository,
		deviceRepository,
		c.KeyService(),
		txManager,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
		}
		return provisioningUseCase.NewCredentialUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initResendUseCase creates the resend use case with all its dependencies.
func (c *Container) initResendUseCase() (provisioningUseCase.ResendUseCase, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for resend use case: %w", err)
	}

	baseUseCase := provisioningUseCase.NewResendUseCase(tokenUseCase, c.Dispatcher())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for resend use case: %w", err)
		}
		return provisioningUseCase.NewResendUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initDeviceHandler creates the device HTTP handler with all its dependencies.
func (c *Container) initDeviceHandler() (*provisioningHTTP.DeviceHandler, error) {
	deviceUseCase, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for device handler: %w", err)
	}

	return provisioningHTTP.NewDeviceHandler(deviceUseCase, c.Logger()), nil
}

// initTokenHandler creates the token HTTP handler with all its dependencies.
func (c *Container) initTokenHandler() (*provisioningHTTP.TokenHandler, error) {
	tokenUseCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}

	return provisioningHTTP.NewTokenHandler(tokenUseCase, c.Logger()), nil
}

// initClaimHandler creates the claim HTTP handler with all its dependencies.
func (c *Container) initClaimHandler() (*provisioningHTTP.ClaimHandler, error) {
	claimUseCase, err := c.ClaimUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get claim use case for claim handler: %w", err)
	}

	return provisioningHTTP.NewClaimHandler(claimUseCase, c.Logger()), nil
}

// initResendHandler creates the resend HTTP handler with all its dependencies.
func (c *Container) initResendHandler() (*provisioningHTTP.ResendHandler, error) {
	resendUseCase, err := c.ResendUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get resend use case for resend handler: %w", err)
	}

	return provisioningHTTP.NewResendHandler(resendUseCase, c.Logger()), nil
}

// initHeartbeatHandler creates the heartbeat HTTP handler with all its
// dependencies.
func (c *Container) initHeartbeatHandler() (*provisioningHTTP.HeartbeatHandler, error) {
	deviceUseCase, err := c.DeviceUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get device use case for heartbeat handler: %w", err)
	}

	licenseUseCase, err := c.LicenseUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get license use case for heartbeat handler: %w", err)
	}

	return provisioningHTTP.NewHeartbeatHandler(deviceUseCase, licenseUseCase, c.Logger()), nil
}
