package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/constants"
	rchttp "github.com/rcpanes/rcpanes/internal/http"
	"github.com/rcpanes/rcpanes/internal/rc"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage rcpanes configuration",
		Long: `Configuration management commands for rcpanes.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  test  - Test the rc connection
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigTestCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for rcpanes.

The configuration is saved to ~/.config/rcpanes/config.ini with
owner-only permissions.

Use --force to overwrite existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !force {
				if _, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", path)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			cfg, err := runConfigWizard(newPrompter(cmd.InOrStdin(), out), out)
			if err != nil {
				return err
			}

			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			GetLogger().Info().Str("path", path).Msg("Configuration saved")

			fmt.Fprintln(out)
			fmt.Fprintf(out, "✓ Configuration saved to: %s\n", path)
			fmt.Fprintln(out, "Test your configuration with: rcpanes config test")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// runConfigWizard asks for the connection, proxy and polling settings.
func runConfigWizard(p *prompter, out io.Writer) (*config.Config, error) {
	cfg := config.New()

	fmt.Fprintln(out, "rcpanes Configuration Setup")
	fmt.Fprintln(out, "===========================")
	fmt.Fprintln(out)

	var err error
	if cfg.Host, err = p.line("rc server URL", constants.DefaultHost); err != nil {
		return nil, err
	}

	useToken, err := p.yesNo("Authenticate with a login token?", false)
	if err != nil {
		return nil, err
	}
	if useToken {
		if cfg.LoginToken, err = p.password("Login token"); err != nil {
			return nil, err
		}
	} else {
		if cfg.User, err = p.line("User (empty for none)", ""); err != nil {
			return nil, err
		}
		if cfg.User != "" {
			if cfg.Pass, err = p.password("Password"); err != nil {
				return nil, err
			}
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Job Polling (press Enter for defaults)")
	fmt.Fprintln(out, "--------------------------------------")
	if cfg.RefreshEnabled, err = p.yesNo("Refresh jobs automatically?", true); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = p.integer("Refresh interval in seconds", constants.DefaultRefreshInterval, config.ValidateRefreshInterval); err != nil {
		return nil, err
	}

	fmt.Fprintln(out)
	useProxy, err := p.yesNo("Configure proxy?", false)
	if err != nil {
		return nil, err
	}
	if useProxy {
		fmt.Fprintln(out, "Proxy modes: no-proxy, system, basic, ntlm")
		if cfg.ProxyMode, err = p.line("Proxy mode", "system"); err != nil {
			return nil, err
		}
		if cfg.ProxyMode == "basic" || cfg.ProxyMode == "ntlm" {
			if cfg.ProxyHost, err = p.line("Proxy host", ""); err != nil {
				return nil, err
			}
			if cfg.ProxyPort, err = p.integer("Proxy port", constants.DefaultProxyPort, nil); err != nil {
				return nil, err
			}
			if cfg.ProxyUser, err = p.line("Proxy user (empty for none)", ""); err != nil {
				return nil, err
			}
			if cfg.ProxyUser != "" {
				if cfg.ProxyPassword, err = p.password("Proxy password"); err != nil {
					return nil, err
				}
			}
		}
	}

	cfg.ApplyHostToken()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/rcpanes/config.ini)
  2. Environment variables (RCLONE_RC_USER, RCLONE_RC_PASS)
  3. Command-line flags (--host, --user, --pass, --login-token)

Secrets are never printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlags(cfg)
			source := cfg.ResolveCredentials()

			writeConfig(cmd.OutOrStdout(), cfg, source)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file: %s\n", path)
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Fprintln(out, "  (file does not exist - using defaults)")
			}
			return nil
		},
	}

	return cmd
}

func writeConfig(out io.Writer, cfg *config.Config, credentialSource string) {
	fmt.Fprintln(out, "Current Configuration")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Connection:")
	fmt.Fprintf(out, "  Host:        %s\n", cfg.Host)
	switch credentialSource {
	case "":
		fmt.Fprintln(out, "  Credentials: <not set>")
	case "login-token":
		fmt.Fprintf(out, "  Credentials: login token <set (%d chars)>\n", len(cfg.LoginToken))
	default:
		fmt.Fprintf(out, "  Credentials: user %s (from %s)\n", cfg.User, credentialSource)
	}
	fmt.Fprintf(out, "  Retry Max:   %d\n", cfg.RetryMax)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Settings:")
	fmt.Fprintf(out, "  Refresh Enabled:  %t\n", cfg.RefreshEnabled)
	fmt.Fprintf(out, "  Refresh Interval: %ds\n", cfg.RefreshInterval)
	fmt.Fprintf(out, "  Queue Interval:   %s\n", cfg.ProcessQueueInterval)
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Proxy Settings:")
	fmt.Fprintf(out, "  Proxy Mode: %s\n", cfg.ProxyMode)
	if cfg.ProxyHost != "" {
		fmt.Fprintf(out, "  Proxy Host: %s\n", cfg.ProxyHost)
		fmt.Fprintf(out, "  Proxy Port: %d\n", cfg.ProxyPort)
	}
	if cfg.NoProxy != "" {
		fmt.Fprintf(out, "  No Proxy:   %s\n", cfg.NoProxy)
	}
	fmt.Fprintln(out)

	if names := cfg.RemoteNames(); len(names) > 0 {
		fmt.Fprintln(out, "Remote Presets:")
		for _, name := range names {
			preset := cfg.Remotes[name]
			fmt.Fprintf(out, "  %s: starting_folder=%q can_query_disk=%t", name, preset.StartingFolder, preset.CanQueryDisk)
			if preset.PathToQueryDisk != "" {
				fmt.Fprintf(out, " path_to_query_disk=%q", preset.PathToQueryDisk)
			}
			fmt.Fprintln(out)
		}
		fmt.Fprintln(out)
	}
}

// newConfigTestCmd creates the 'config test' command.
func newConfigTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the rc connection",
		Long: `Test the connection to the rc server with the current configuration.

Use this to verify the host, credentials and proxy settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()
			out := cmd.OutOrStdout()

			client, cfg, err := getRCClient()
			if err != nil {
				return err
			}
			if rchttp.NeedsProxyPassword(cfg) {
				fmt.Fprintln(out, "Warning: proxy user is set without a password")
			}

			fmt.Fprintf(out, "rc URL: %s\n", cfg.BaseURL())
			fmt.Fprintln(out, "Testing connection...")

			ctx, cancel := context.WithTimeout(GetContext(), 10*time.Second)
			defer cancel()

			v, err := client.Version(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("Connection test failed")
				fmt.Fprintln(out, "✗ Connection FAILED")
				fmt.Fprintf(out, "  Error: %v\n", err)
				if hint := connectionHint(err); hint != "" {
					fmt.Fprintf(out, "  %s\n", hint)
				}
				return fmt.Errorf("connection test failed")
			}

			logger.Info().Msg("Connection test successful")
			fmt.Fprintln(out, "✓ Connection SUCCESSFUL")
			fmt.Fprintf(out, "  Server: rclone %s on %s (%s)\n", v.Version, v.OS, v.Arch)
			return nil
		},
	}

	return cmd
}

// connectionHint suggests a fix for errors the server answered itself.
func connectionHint(err error) string {
	switch {
	case rc.IsStatus(err, http.StatusUnauthorized), rc.IsStatus(err, http.StatusForbidden):
		return "Hint: check the user and password (or login token) with 'rcpanes config init'"
	case rc.IsStatus(err, http.StatusNotFound):
		return "Hint: the host answers but is not an rclone rc server"
	}
	return ""
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path, err := configPath()
			if err != nil {
				return err
			}
			if cfgFile == "" {
				fmt.Fprintln(out, "Default configuration path:")
			} else {
				fmt.Fprintln(out, "Configuration path (from --config flag):")
			}
			fmt.Fprintf(out, "  %s\n", path)
			fmt.Fprintln(out)

			if fileInfo, err := os.Stat(path); err == nil {
				fmt.Fprintln(out, "Status: ✓ File exists")
				fmt.Fprintf(out, "Size:   %d bytes\n", fileInfo.Size())
				fmt.Fprintf(out, "Modified: %s\n", fileInfo.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintln(out, "Status: File does not exist")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Create a configuration file with: rcpanes config init")
			}
			return nil
		},
	}

	return cmd
}
