package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/rc"
)

func TestConfigSubcommands(t *testing.T) {
	cmd := newConfigCmd()
	want := map[string]bool{"init": false, "show": false, "test": false, "path": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
		if sub.Short == "" {
			t.Errorf("Short description of %s is empty", sub.Name())
		}
		if sub.RunE == nil {
			t.Errorf("RunE of %s is nil", sub.Name())
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected subcommand %s", name)
		}
	}
}

func TestConfigWizardDefaults(t *testing.T) {
	out := &bytes.Buffer{}
	// host, token?, user, polling?, interval, proxy?
	p := newPrompter(strings.NewReader("\n\n\n\n\n\n"), out)

	cfg, err := runConfigWizard(p, out)
	if err != nil {
		t.Fatalf("runConfigWizard failed: %v", err)
	}
	if cfg.Host != "http://localhost:5572" {
		t.Errorf("Expected default host, got %s", cfg.Host)
	}
	if cfg.User != "" || cfg.LoginToken != "" {
		t.Errorf("Expected no credentials, got user=%q token=%q", cfg.User, cfg.LoginToken)
	}
	if !cfg.RefreshEnabled || cfg.RefreshInterval != 2 {
		t.Errorf("Expected polling every 2s, got %t/%d", cfg.RefreshEnabled, cfg.RefreshInterval)
	}
}

func TestConfigWizardAnswers(t *testing.T) {
	input := strings.Join([]string{
		"http://rc.example:5572/?login_token=abc",
		"n",
		"alice",
		"secret",
		"n",
		"500",
		"30",
		"y",
		"basic",
		"proxy.example",
		"3128",
		"",
	}, "\n") + "\n"

	out := &bytes.Buffer{}
	cfg, err := runConfigWizard(newPrompter(strings.NewReader(input), out), out)
	if err != nil {
		t.Fatalf("runConfigWizard failed: %v", err)
	}

	if cfg.LoginToken != "abc" {
		t.Errorf("Expected token from host URL, got %q", cfg.LoginToken)
	}
	if strings.Contains(cfg.Host, "login_token") {
		t.Errorf("Expected token removed from host, got %s", cfg.Host)
	}
	if cfg.User != "alice" || cfg.Pass != "secret" {
		t.Errorf("Unexpected credentials %q/%q", cfg.User, cfg.Pass)
	}
	if cfg.RefreshEnabled {
		t.Error("Expected polling disabled")
	}
	if cfg.RefreshInterval != 30 {
		t.Errorf("Expected interval 30, got %d", cfg.RefreshInterval)
	}
	if !strings.Contains(out.String(), "Invalid value: 500") {
		t.Error("Expected the out-of-range interval to be asked again")
	}
	if cfg.ProxyMode != "basic" || cfg.ProxyHost != "proxy.example" || cfg.ProxyPort != 3128 {
		t.Errorf("Unexpected proxy %s %s:%d", cfg.ProxyMode, cfg.ProxyHost, cfg.ProxyPort)
	}
}

func TestWriteConfig(t *testing.T) {
	cfg := config.New()
	cfg.LoginToken = "abcdef"
	cfg.Remotes = map[string]config.RemotePreset{
		"gdrive": {StartingFolder: "Photos", CanQueryDisk: true},
	}

	out := &bytes.Buffer{}
	writeConfig(out, cfg, "login-token")

	text := out.String()
	for _, want := range []string{
		"Host:        http://localhost:5572",
		"login token <set (6 chars)>",
		"Refresh Interval: 2s",
		`gdrive: starting_folder="Photos" can_query_disk=true`,
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, "abcdef") {
		t.Error("Token must not be printed")
	}
}

func TestConnectionHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", &rc.APIError{Status: 401, Endpoint: "core/version"}, "check the user and password"},
		{"forbidden wrapped", fmt.Errorf("version: %w", &rc.APIError{Status: 403}), "check the user and password"},
		{"not rclone", &rc.APIError{Status: 404}, "not an rclone rc server"},
		{"server error", &rc.APIError{Status: 500}, ""},
		{"transport", errors.New("connection refused"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := connectionHint(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("Expected no hint, got %q", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("Expected hint containing %q, got %q", tt.want, got)
			}
		})
	}
}
