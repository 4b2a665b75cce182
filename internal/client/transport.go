package client

import (
	"crypto/tls"
	"net/http"
)

// insecureTransport returns an http.RoundTripper that skips TLS certificate
// verification, for use against PuppetDB instances with a self-signed or
// lab CA. Never the default: it is only wired when Config.InsecureSkipTLS
// is set explicitly.
func insecureTransport() http.RoundTripper {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return t
}
