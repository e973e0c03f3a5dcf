package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Host != "http://localhost:5572" {
		t.Errorf("Expected default host http://localhost:5572, got %s", cfg.Host)
	}
	if !cfg.RefreshEnabled {
		t.Error("Expected polling to be enabled by default")
	}
	if cfg.RefreshInterval != 2 {
		t.Errorf("Expected default refresh interval 2, got %d", cfg.RefreshInterval)
	}
	if cfg.ProcessQueueInterval != 5*time.Second {
		t.Errorf("Expected default queue interval 5s, got %v", cfg.ProcessQueueInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.ini"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RefreshInterval != 2 {
		t.Errorf("Expected default refresh interval, got %d", cfg.RefreshInterval)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.ini")

	cfg := New()
	cfg.Host = "https://rc.example.com:5572"
	cfg.User = "admin"
	cfg.Pass = "secret"
	cfg.RetryMax = 2
	cfg.ProxyMode = "basic"
	cfg.ProxyHost = "proxy.local"
	cfg.ProxyPort = 3128
	cfg.NoProxy = "localhost,10.0.0.0/8"
	cfg.RefreshEnabled = false
	cfg.RefreshInterval = 30
	cfg.ProcessQueueInterval = 10 * time.Second
	cfg.Remotes["gdrive"] = RemotePreset{StartingFolder: "Projects", CanQueryDisk: true}
	cfg.Remotes["s3"] = RemotePreset{PathToQueryDisk: "bucket"}

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected permissions 0600, got %o", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Host != cfg.Host {
		t.Errorf("Expected host %s, got %s", cfg.Host, loaded.Host)
	}
	if loaded.User != "admin" || loaded.Pass != "secret" {
		t.Errorf("Expected admin/secret, got %s/%s", loaded.User, loaded.Pass)
	}
	if loaded.RetryMax != 2 {
		t.Errorf("Expected retry_max 2, got %d", loaded.RetryMax)
	}
	if loaded.ProxyMode != "basic" || loaded.ProxyHost != "proxy.local" || loaded.ProxyPort != 3128 {
		t.Errorf("Proxy settings mismatch: %s %s %d", loaded.ProxyMode, loaded.ProxyHost, loaded.ProxyPort)
	}
	if loaded.NoProxy != cfg.NoProxy {
		t.Errorf("Expected no_proxy %s, got %s", cfg.NoProxy, loaded.NoProxy)
	}
	if loaded.RefreshEnabled {
		t.Error("Expected refresh_enabled false")
	}
	if loaded.RefreshInterval != 30 {
		t.Errorf("Expected refresh interval 30, got %d", loaded.RefreshInterval)
	}
	if loaded.ProcessQueueInterval != 10*time.Second {
		t.Errorf("Expected queue interval 10s, got %v", loaded.ProcessQueueInterval)
	}
	if len(loaded.Remotes) != 2 {
		t.Fatalf("Expected 2 remote presets, got %d", len(loaded.Remotes))
	}
	if p := loaded.Preset("gdrive"); p.StartingFolder != "Projects" || !p.CanQueryDisk {
		t.Errorf("Unexpected gdrive preset: %+v", p)
	}
	if p := loaded.Preset("s3"); p.PathToQueryDisk != "bucket" || p.CanQueryDisk {
		t.Errorf("Unexpected s3 preset: %+v", p)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte("[connection\nhost"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for malformed INI")
	}
}

func TestApplyHostToken(t *testing.T) {
	cfg := New()
	cfg.Host = "http://localhost:5572/?login_token=abc123"
	cfg.ApplyHostToken()

	if cfg.LoginToken != "abc123" {
		t.Errorf("Expected login token abc123, got %q", cfg.LoginToken)
	}
	if cfg.Host != "http://localhost:5572/" {
		t.Errorf("Expected token stripped from host, got %s", cfg.Host)
	}
	if cfg.BaseURL() != "http://localhost:5572" {
		t.Errorf("Expected base URL without trailing slash, got %s", cfg.BaseURL())
	}

	cfg.Host = "http://localhost:5572/?login_token=other"
	cfg.ApplyHostToken()
	if cfg.LoginToken != "abc123" {
		t.Errorf("Expected explicit token to be kept, got %q", cfg.LoginToken)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"defaults", func(c *Config) {}, nil},
		{"empty host", func(c *Config) { c.Host = " " }, ErrMissingHost},
		{"bad scheme", func(c *Config) { c.Host = "ftp://x" }, ErrInvalidHost},
		{"interval zero", func(c *Config) { c.RefreshInterval = 0 }, ErrInvalidRefreshInterval},
		{"interval too large", func(c *Config) { c.RefreshInterval = 121 }, ErrInvalidRefreshInterval},
		{"interval upper bound", func(c *Config) { c.RefreshInterval = 120 }, nil},
		{"queue interval", func(c *Config) { c.ProcessQueueInterval = 0 }, ErrInvalidQueueInterval},
		{"negative retries", func(c *Config) { c.RetryMax = -1 }, ErrInvalidRetryMax},
		{"unknown proxy", func(c *Config) { c.ProxyMode = "socks" }, ErrUnsupportedProxyMode},
		{"ntlm without host", func(c *Config) { c.ProxyMode = "ntlm" }, ErrMissingProxyHost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseRefreshInterval(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{" 45 ", 45, false},
		{"120", 120, false},
		{"0", 0, true},
		{"121", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
		{"2.5", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseRefreshInterval(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidRefreshInterval) {
				t.Errorf("ParseRefreshInterval(%q): expected ErrInvalidRefreshInterval, got %v", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseRefreshInterval(%q) = %d, %v; expected %d", tt.input, got, err, tt.want)
		}
	}
}

func TestResolveCredentials(t *testing.T) {
	t.Setenv(EnvUser, "envuser")
	t.Setenv(EnvPass, "envpass")

	cfg := New()
	cfg.LoginToken = "tok"
	if src := cfg.ResolveCredentials(); src != "login-token" {
		t.Errorf("Expected login-token source, got %q", src)
	}

	cfg = New()
	cfg.User, cfg.Pass = "u", "p"
	if src := cfg.ResolveCredentials(); src != "config" || cfg.User != "u" {
		t.Errorf("Expected config credentials to win, got %q (%s)", src, cfg.User)
	}

	cfg = New()
	if src := cfg.ResolveCredentials(); src != "environment" || cfg.User != "envuser" || cfg.Pass != "envpass" {
		t.Errorf("Expected environment credentials, got %q (%s/%s)", src, cfg.User, cfg.Pass)
	}
}
