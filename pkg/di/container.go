// Package di provides dependency injection container
package di

import (
	"log/slog"

	"github.com/ssargent/tblman/pkg/catalog"
	"github.com/ssargent/tblman/pkg/config"
	"github.com/ssargent/tblman/pkg/logging"
	"github.com/ssargent/tblman/pkg/registry"
)

// RegistryLoader loads the table definitions of a directory
type RegistryLoader func(dir string, logger *slog.Logger) (*registry.Registry, error)

// CatalogOpener opens the catalog stored in a directory
type CatalogOpener func(dir string) (*catalog.Catalog, error)

// Container holds all the dependencies for the application
type Container struct {
	config         *config.Config
	logger         *slog.Logger
	registryLoader RegistryLoader
	catalogOpener  CatalogOpener

	registry *registry.Registry
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		config:         config.DefaultConfig(),
		logger:         logging.Discard(),
		registryLoader: registry.Load,
		catalogOpener:  catalog.Open,
	}
}

// GetConfig returns the active configuration
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// SetConfig replaces the configuration and drops any loaded registry
func (c *Container) SetConfig(cfg *config.Config) {
	c.config = cfg
	c.registry = nil
}

// GetLogger returns the application logger
func (c *Container) GetLogger() *slog.Logger {
	return c.logger
}

// SetLogger replaces the application logger
func (c *Container) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// GetRegistry loads the definitions directory of the configuration on first use
func (c *Container) GetRegistry() (*registry.Registry, error) {
	if c.registry != nil {
		return c.registry, nil
	}
	r, err := c.registryLoader(c.config.DefinitionsDir, c.logger)
	if err != nil {
		return nil, err
	}
	c.registry = r
	return r, nil
}

// OpenCatalog opens the catalog of the configuration. The caller closes it.
func (c *Container) OpenCatalog() (*catalog.Catalog, error) {
	return c.catalogOpener(c.config.CatalogDir)
}

// SetRegistryLoader allows overriding how definitions are loaded (for testing)
func (c *Container) SetRegistryLoader(loader RegistryLoader) {
	c.registryLoader = loader
	c.registry = nil
}

// SetCatalogOpener allows overriding how the catalog is opened (for testing)
func (c *Container) SetCatalogOpener(opener CatalogOpener) {
	c.catalogOpener = opener
}
