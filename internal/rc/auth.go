package rc

import (
	"encoding/base64"

	"github.com/rcpanes/rcpanes/internal/config"
)

// AuthHeader returns the Authorization header value for cfg, or "" when no
// credentials are configured. A login token wins over user/pass.
func AuthHeader(cfg *config.Config) string {
	if cfg.LoginToken != "" {
		return "Basic " + cfg.LoginToken
	}
	if cfg.User != "" && cfg.Pass != "" {
		return "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.User+":"+cfg.Pass))
	}
	return ""
}
