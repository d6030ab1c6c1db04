package fetch

import (
	"fmt"
	"net/http"
	"net/url"
)

// NewProxyFunc routes requests through explicit proxies. https requests use
// httpsProxy, or httpProxy when it is unset. Without any explicit proxy the
// environment decides.
func NewProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpsProxy == "" {
		httpsProxy = httpProxy
	}
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	byScheme := map[string]string{"http": httpProxy, "https": httpsProxy}
	return func(req *http.Request) (*url.URL, error) {
		raw := byScheme[req.URL.Scheme]
		if raw == "" {
			return http.ProxyFromEnvironment(req)
		}
		u, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("proxy %q: %w", raw, err)
		}
		return u, nil
	}
}
