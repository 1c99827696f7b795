package app

import (
	"fmt"

	"github.com/leadgrid/leadgrid/internal/events"
)

// EventSource returns the event source based on database driver.
func (c *Container) EventSource() (events.EventSource, error) {
	var err error
	c.eventSourceInit.Do(func() {
		c.eventSource, err = c.initEventSource()
		if err != nil {
			c.initErrors["eventSource"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventSource"]; exists {
		return nil, storedErr
	}
	return c.eventSource, nil
}

// EventsHandler returns the HTTP handler for the event listing endpoint.
func (c *Container) EventsHandler() (*events.Handler, error) {
	var err error
	c.eventsHandlerInit.Do(func() {
		c.eventsHandler, err = c.initEventsHandler()
		if err != nil {
			c.initErrors["eventsHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["eventsHandler"]; exists {
		return nil, storedErr
	}
	return c.eventsHandler, nil
}

// initEventSource creates the event source based on the database driver.
func (c *Container) initEventSource() (events.EventSource, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for event source: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return events.NewPostgreSQLEventSource(db), nil
	case "mysql":
		return events.NewMySQLEventSource(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initEventsHandler creates the events HTTP handler with all its dependencies.
func (c *Container) initEventsHandler() (*events.Handler, error) {
	eventSource, err := c.EventSource()
	if err != nil {
		return nil, fmt.Errorf("failed to get event source for events handler: %w", err)
	}

	licenseUseCase, err := c.LicenseUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get license use case for events handler: %w", err)
	}

	return events.NewHandler(eventSource, licenseUseCase, c.Logger()), nil
}
