package http

import (
	"crypto/tls"
	nethttp "net/http"
	"os"

	"golang.org/x/net/http2"

	"github.com/rcpanes/rcpanes/internal/config"
)

// finishClient applies HTTP/2 settings and wraps the transport in a client.
//
// HTTP/2 is attempted for direct https connections only; proxies often break
// multiplexed streams. DISABLE_HTTP2=true forces HTTP/1.1 everywhere.
func finishClient(tr *nethttp.Transport, cfg *config.Config) *nethttp.Client {
	if proxyActive(cfg) || os.Getenv("DISABLE_HTTP2") == "true" {
		tr.ForceAttemptHTTP2 = false
		tr.TLSNextProto = make(map[string]func(string, *tls.Conn) nethttp.RoundTripper)
	} else {
		tr.ForceAttemptHTTP2 = true
		_ = http2.ConfigureTransport(tr)
	}

	return &nethttp.Client{Transport: tr}
}

// proxyActive reports whether requests to the rc host will go through a proxy.
func proxyActive(cfg *config.Config) bool {
	switch cfg.ProxyMode {
	case "no-proxy", "":
		return false
	case "system":
		return os.Getenv("HTTP_PROXY") != "" || os.Getenv("HTTPS_PROXY") != "" ||
			os.Getenv("http_proxy") != "" || os.Getenv("https_proxy") != ""
	default:
		return cfg.ProxyHost != ""
	}
}
