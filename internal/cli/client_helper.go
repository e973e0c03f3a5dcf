package cli

import (
	"fmt"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/rc"
)

// configPath returns --config or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultConfigPath()
}

// loadConfig reads the config file and applies the connection flags.
// Priority: flags > config file > environment > defaults
func loadConfig() (*config.Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cfg)

	if source := cfg.ResolveCredentials(); source != "" {
		GetLogger().Debug().Str("source", source).Msg("Using rc credentials")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config) {
	if host != "" {
		cfg.Host = host
	}
	if user != "" {
		cfg.User = user
	}
	if pass != "" {
		cfg.Pass = pass
	}
	if loginToken != "" {
		cfg.LoginToken = loginToken
	}
	cfg.ApplyHostToken()
}

// getRCClient loads configuration and creates an rc client.
// This is the standard way to get a client in CLI commands.
func getRCClient() (*rc.Client, *config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	client, err := rc.NewClient(cfg, nil, GetLogger())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create rc client: %w", err)
	}
	return client, cfg, nil
}
