// Package providers contains dependency injection providers for Inkwell.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell/internal/config"
	"github.com/inkwellapp/inkwell/internal/logger"
)

// ConfigProvider returns a provider that loads configuration from args,
// the environment and the .env file.
func ConfigProvider(args []string) do.Provider[*config.Config] {
	return func(do.Injector) (*config.Config, error) {
		return config.LoadConfig(args)
	}
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Inkwell",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"store_backend", cfg.Data.Backend,
	)

	return log, nil
}
