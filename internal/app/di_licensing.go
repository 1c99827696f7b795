package app

import (
	"fmt"

	licensingHTTP "github.com/leadgrid/leadgrid/internal/licensing/http"
	licensingRepository "github.com/leadgrid/leadgrid/internal/licensing/repository"
	licensingService "github.com/leadgrid/leadgrid/internal/licensing/service"
	licensingUseCase "github.com/leadgrid/leadgrid/internal/licensing/usecase"
)

// CheckoutService returns the checkout URL builder for license purchases.
func (c *Container) CheckoutService() licensingService.CheckoutService {
	c.checkoutServiceInit.Do(func() {
		c.checkoutService = licensingService.NewCheckoutService(c.config.CheckoutBaseURL)
	})
	return c.checkoutService
}

// LicenseRepository returns the license repository based on database driver.
func (c *Container) LicenseRepository() (licensingUseCase.LicenseRepository, error) {
	var err error
	c.licenseRepositoryInit.Do(func() {
		c.licenseRepository, err = c.initLicenseRepository()
		if err != nil {
			c.initErrors["licenseRepository"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["licenseRepository"]; exists {
		return nil, storedErr
	}
	return c.licenseRepository, nil
}

// LicenseUseCase returns the license use case.
func (c *Container) LicenseUseCase() (licensingUseCase.LicenseUseCase, error) {
	var err error
	c.licenseUseCaseInit.Do(func() {
		c.licenseUseCase, err = c.initLicenseUseCase()
		if err != nil {
			c.initErrors["licenseUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["licenseUseCase"]; exists {
		return nil, storedErr
	}
	return c.licenseUseCase, nil
}

// LicenseHandler returns the HTTP handler for license state and checkout
// operations.
func (c *Container) LicenseHandler() (*licensingHTTP.LicenseHandler, error) {
	var err error
	c.licenseHandlerInit.Do(func() {
		c.licenseHandler, err = c.initLicenseHandler()
		if err != nil {
			c.initErrors["licenseHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["licenseHandler"]; exists {
		return nil, storedErr
	}
	return c.licenseHandler, nil
}

// WebhookHandler returns the HTTP handler for billing webhook calls.
func (c *Container) WebhookHandler() (*licensingHTTP.WebhookHandler, error) {
	var err error
	c.webhookHandlerInit.Do(func() {
		c.webhookHandler, err = c.initWebhookHandler()
		if err != nil {
			c.initErrors["webhookHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["webhookHandler"]; exists {
		return nil, storedErr
	}
	return c.webhookHandler, nil
}

// initLicenseRepository creates the license repository based on the database
// driver.
func (c *Container) initLicenseRepository() (licensingUseCase.LicenseRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for license repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return licensingRepository.NewPostgreSQLLicenseRepository(db), nil
	case "mysql":
		return licensingRepository.NewMySQLLicenseRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initLicenseUseCase creates the license use case with all its dependencies.
// The device repository doubles as the device finder for webhook-originated
// license creation.
func (c *Container) initLicenseUseCase() (licensingUseCase.LicenseUseCase, error) {
	licenseRepository, err := c.LicenseRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get license repository for license use case: %w", err)
	}

	deviceRepository, err := c.DeviceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get device repository for license use case: %w", err)
	}

	baseUseCase := licensingUseCase.NewLicenseUseCase(
		licenseRepository,
		deviceRepository,
		c.CheckoutService(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for license use case: %w", err)
		}
		return licensingUseCase.NewLicenseUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initLicenseHandler creates the license HTTP handler with all its
// dependencies.
func (c *Container) initLicenseHandler() (*licensingHTTP.LicenseHandler, error) {
	licenseUseCase, err := c.LicenseUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get license use case for license handler: %w", err)
	}

	return licensingHTTP.NewLicenseHandler(licenseUseCase, c.Logger()), nil
}

// initWebhookHandler creates the billing webhook HTTP handler with all its
// dependencies.
func (c *Container) initWebhookHandler() (*licensingHTTP.WebhookHandler, error) {
	licenseUseCase, err := c.LicenseUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get license use case for webhook handler: %w", err)
	}

	return licensingHTTP.NewWebhookHandler(licenseUseCase, c.config.BillingWebhookSecret, c.Logger()), nil
}
