// Package config provides configuration management for rcpanes.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"gopkg.in/ini.v1"

	"github.com/rcpanes/rcpanes/internal/constants"
)

// Config holds everything needed to reach the rc service and drive a session.
//
// INI format:
//
//	[connection]
//	host = http://localhost:5572
//	user = admin
//	pass = secret
//	login_token =
//	retry_max = 0
//
//	[proxy]
//	mode = no-proxy
//	host =
//	port = 8080
//	user =
//	password =
//	no_proxy = localhost,127.0.0.1
//
//	[settings]
//	refresh_enabled = true
//	refresh_interval = 2
//	process_queue_interval = 5s
//
//	[remote "gdrive"]
//	starting_folder = Projects
//	can_query_disk = true
//	path_to_query_disk =
type Config struct {
	// Connection
	Host       string
	User       string
	Pass       string
	LoginToken string
	RetryMax   int

	// Proxy configuration
	ProxyMode     string // no-proxy, system, basic, ntlm
	ProxyHost     string
	ProxyPort     int
	ProxyUser     string
	ProxyPassword string
	NoProxy       string // comma-separated bypass list
	ProxyWarmup   bool

	// User settings
	RefreshEnabled       bool
	RefreshInterval      int // seconds
	ProcessQueueInterval time.Duration

	// Remote presets keyed by remote name
	Remotes map[string]RemotePreset
}

// RemotePreset carries per-remote defaults.
type RemotePreset struct {
	StartingFolder  string
	CanQueryDisk    bool
	PathToQueryDisk string
}

const remoteSectionPrefix = "remote "

// Validation errors
var (
	ErrMissingHost            = errors.New("host is required")
	ErrInvalidHost            = errors.New("host must be an http or https URL")
	ErrInvalidRefreshInterval = fmt.Errorf("refresh_interval must be between %d and %d", constants.MinRefreshInterval, constants.MaxRefreshInterval)
	ErrInvalidQueueInterval   = errors.New("process_queue_interval must be positive")
	ErrInvalidRetryMax        = errors.New("retry_max must not be negative")
	ErrUnsupportedProxyMode   = errors.New("proxy mode must be one of no-proxy, system, basic, ntlm")
	ErrMissingProxyHost       = errors.New("proxy host is required for basic and ntlm modes")
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Host:                 constants.DefaultHost,
		ProxyMode:            "no-proxy",
		ProxyPort:            constants.DefaultProxyPort,
		RefreshEnabled:       true,
		RefreshInterval:      constants.DefaultRefreshInterval,
		ProcessQueueInterval: constants.DefaultProcessQueueInterval,
		Remotes:              make(map[string]RemotePreset),
	}
}

// DefaultConfigPath returns the default path for the config file.
// - Windows: %USERPROFILE%\.config\rcpanes\config.ini
// - Unix: ~/.config/rcpanes/config.ini
func DefaultConfigPath() (string, error) {
	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
		if home == "" {
			return "", errors.New("USERPROFILE environment variable not set")
		}
	} else {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
	}
	return filepath.Join(home, ".config", constants.ConfigDirName, constants.ConfigFileName), nil
}

// Load reads configuration from an INI file.
// If the file doesn't exist, returns a config with default values and no error.
// If the file exists but is invalid, returns an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	conn := iniFile.Section("connection")
	cfg.Host = conn.Key("host").MustString(cfg.Host)
	cfg.User = conn.Key("user").String()
	cfg.Pass = conn.Key("pass").String()
	cfg.LoginToken = conn.Key("login_token").String()
	cfg.RetryMax = conn.Key("retry_max").MustInt(0)

	proxy := iniFile.Section("proxy")
	cfg.ProxyMode = proxy.Key("mode").MustString(cfg.ProxyMode)
	cfg.ProxyHost = proxy.Key("host").String()
	cfg.ProxyPort = proxy.Key("port").MustInt(cfg.ProxyPort)
	cfg.ProxyUser = proxy.Key("user").String()
	cfg.ProxyPassword = proxy.Key("password").String()
	cfg.NoProxy = proxy.Key("no_proxy").String()
	cfg.ProxyWarmup = proxy.Key("warmup").MustBool(false)

	settings := iniFile.Section("settings")
	cfg.RefreshEnabled = settings.Key("refresh_enabled").MustBool(true)
	cfg.RefreshInterval = settings.Key("refresh_interval").MustInt(constants.DefaultRefreshInterval)
	cfg.ProcessQueueInterval = settings.Key("process_queue_interval").MustDuration(constants.DefaultProcessQueueInterval)

	for _, section := range iniFile.Sections() {
		name, ok := remoteSectionName(section.Name())
		if !ok {
			continue
		}
		cfg.Remotes[name] = RemotePreset{
			StartingFolder:  section.Key("starting_folder").String(),
			CanQueryDisk:    section.Key("can_query_disk").MustBool(false),
			PathToQueryDisk: section.Key("path_to_query_disk").String(),
		}
	}

	cfg.ApplyHostToken()
	return cfg, nil
}

// remoteSectionName extracts the remote name from a section such as
// `remote "gdrive"`.
func remoteSectionName(section string) (string, bool) {
	if !strings.HasPrefix(section, remoteSectionPrefix) {
		return "", false
	}
	name := strings.Trim(strings.TrimPrefix(section, remoteSectionPrefix), `"`)
	if name == "" {
		return "", false
	}
	return name, true
}

// Save writes configuration to an INI file.
// Creates parent directories if they don't exist.
// Credentials are stored in the file - ensure appropriate file permissions.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	conn, err := iniFile.NewSection("connection")
	if err != nil {
		return fmt.Errorf("failed to create connection section: %w", err)
	}
	conn.Key("host").SetValue(cfg.Host)
	conn.Key("user").SetValue(cfg.User)
	conn.Key("pass").SetValue(cfg.Pass)
	conn.Key("login_token").SetValue(cfg.LoginToken)
	conn.Key("retry_max").SetValue(fmt.Sprintf("%d", cfg.RetryMax))

	proxy, err := iniFile.NewSection("proxy")
	if err != nil {
		return fmt.Errorf("failed to create proxy section: %w", err)
	}
	proxy.Key("mode").SetValue(cfg.ProxyMode)
	proxy.Key("host").SetValue(cfg.ProxyHost)
	proxy.Key("port").SetValue(fmt.Sprintf("%d", cfg.ProxyPort))
	proxy.Key("user").SetValue(cfg.ProxyUser)
	proxy.Key("password").SetValue(cfg.ProxyPassword)
	proxy.Key("no_proxy").SetValue(cfg.NoProxy)
	proxy.Key("warmup").SetValue(fmt.Sprintf("%t", cfg.ProxyWarmup))

	settings, err := iniFile.NewSection("settings")
	if err != nil {
		return fmt.Errorf("failed to create settings section: %w", err)
	}
	settings.Key("refresh_enabled").SetValue(fmt.Sprintf("%t", cfg.RefreshEnabled))
	settings.Key("refresh_interval").SetValue(fmt.Sprintf("%d", cfg.RefreshInterval))
	settings.Key("process_queue_interval").SetValue(cfg.ProcessQueueInterval.String())

	for _, name := range cfg.RemoteNames() {
		preset := cfg.Remotes[name]
		section, err := iniFile.NewSection(fmt.Sprintf("%s%q", remoteSectionPrefix, name))
		if err != nil {
			return fmt.Errorf("failed to create section for remote %s: %w", name, err)
		}
		section.Key("starting_folder").SetValue(preset.StartingFolder)
		section.Key("can_query_disk").SetValue(fmt.Sprintf("%t", preset.CanQueryDisk))
		section.Key("path_to_query_disk").SetValue(preset.PathToQueryDisk)
	}

	// Use temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is usable.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Host) == "" {
		return ErrMissingHost
	}
	u, err := url.Parse(cfg.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidHost
	}
	if err := ValidateRefreshInterval(cfg.RefreshInterval); err != nil {
		return err
	}
	if cfg.ProcessQueueInterval <= 0 {
		return ErrInvalidQueueInterval
	}
	if cfg.RetryMax < 0 {
		return ErrInvalidRetryMax
	}
	switch strings.ToLower(cfg.ProxyMode) {
	case "", "no-proxy", "system":
	case "basic", "ntlm":
		if cfg.ProxyHost == "" {
			return ErrMissingProxyHost
		}
	default:
		return ErrUnsupportedProxyMode
	}
	return nil
}

// ApplyHostToken moves a login_token query parameter from Host into
// LoginToken. An explicitly configured token is kept.
func (cfg *Config) ApplyHostToken() {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return
	}
	q := u.Query()
	token := q.Get("login_token")
	if token == "" {
		return
	}
	if cfg.LoginToken == "" {
		cfg.LoginToken = token
	}
	q.Del("login_token")
	u.RawQuery = q.Encode()
	cfg.Host = u.String()
}

// BaseURL returns Host without a trailing slash so endpoints can be appended.
func (cfg *Config) BaseURL() string {
	return strings.TrimRight(cfg.Host, "/")
}

// Preset returns the preset for a remote, or the zero preset.
func (cfg *Config) Preset(remote string) RemotePreset {
	if cfg.Remotes == nil {
		return RemotePreset{}
	}
	return cfg.Remotes[remote]
}

// RemoteNames returns preset names in sorted order.
func (cfg *Config) RemoteNames() []string {
	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
