package config

import "os"

// Environment variables consulted when neither flags nor the config file
// carry credentials. The names match rclone's own rc flags.
const (
	EnvUser = "RCLONE_RC_USER"
	EnvPass = "RCLONE_RC_PASS"
)

// ResolveCredentials fills User and Pass from the environment when they are
// still empty, and returns where the credentials came from for --verbose output.
//
// Priority (highest to lowest):
//  1. login token (flag, file, or host URL query)
//  2. user/pass already set (flag or config file)
//  3. RCLONE_RC_USER / RCLONE_RC_PASS
func (cfg *Config) ResolveCredentials() string {
	if cfg.LoginToken != "" {
		return "login-token"
	}
	if cfg.User != "" && cfg.Pass != "" {
		return "config"
	}
	envUser, envPass := os.Getenv(EnvUser), os.Getenv(EnvPass)
	if envUser != "" && envPass != "" {
		cfg.User, cfg.Pass = envUser, envPass
		return "environment"
	}
	return ""
}
