package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kbukum/pusherrest/bootstrap"
	"github.com/kbukum/pusherrest/config"
	"github.com/kbukum/pusherrest/logger"
	"github.com/kbukum/pusherrest/observability"
	"github.com/kbukum/pusherrest/restclient"
	"github.com/kbukum/pusherrest/version"
)

const serviceName = "pusherrest"

// AppConfig is the full configuration of the command.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Pusher               restclient.Config    `yaml:"pusher" mapstructure:"pusher"`
	Telemetry            observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// ApplyDefaults fills in zero-value fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Version
	}
	c.ServiceConfig.ApplyDefaults()
	if c.Pusher.LibraryName == "" {
		c.Pusher.LibraryName = serviceName
	}
	if c.Pusher.LibraryVersion == "" {
		c.Pusher.LibraryVersion = version.Library().String()
	}
	c.Pusher.ApplyDefaults()
}

// Validate checks the service and client sections.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	return c.Pusher.Validate()
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configFile string
	baseURL    string
	logLevel   string
	timeout    time.Duration
	async      bool
}

// loadConfig reads the config file and environment, then applies flag
// overrides and defaults. Validation happens when the app is built.
func loadConfig(flags *globalFlags) (*AppConfig, error) {
	var opts []config.LoaderOption
	if flags.configFile != "" {
		opts = append(opts, config.WithConfigFile(flags.configFile))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if flags.baseURL != "" {
		cfg.Pusher.BaseURL = flags.baseURL
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.timeout > 0 {
		cfg.Pusher.Timeout = flags.timeout
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// withClient builds the runtime (logging, telemetry, client component) and
// runs fn with the started client as a bootstrap task.
func withClient(ctx context.Context, flags *globalFlags, stderr io.Writer, fn func(context.Context, *restclient.Client) error) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, stderr)
	logger.SetGlobalLogger(log)

	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(log))
	if err != nil {
		return err
	}

	metrics, shutdown, err := observability.Setup(ctx, cfg.Telemetry, cfg.Name, cfg.Version)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	app.OnStop(bootstrap.Hook(shutdown))

	opts := []restclient.Option{restclient.WithLogger(log.WithComponent("restclient"))}
	if metrics != nil {
		opts = append(opts, restclient.WithMetrics(metrics))
	}
	rest := restclient.NewComponent(cfg.Pusher, opts...)
	if err := app.RegisterComponent(rest); err != nil {
		return err
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		log.Debug("client ready", map[string]interface{}{
			logger.FieldBaseURL:    rest.Client().BaseURL(),
			logger.FieldLibVersion: cfg.Pusher.LibraryVersion,
		})
		return fn(ctx, rest.Client())
	})
}
