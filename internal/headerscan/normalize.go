package headerscan

import (
	"net"
	"net/url"
	"strings"
)

// FetchKey returns a key under which URLs that produce the same request share
// one fetch. Only rewrites that cannot change the request are applied:
//   - Lower-case the scheme and host
//   - Empty path becomes "/"
//   - Drop default ports (http:80, https:443)
//   - Remove the fragment, which is never sent
//
// A URL that does not parse is its own key.
func FetchKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Path == "" && u.RawPath == "" {
		u.Path = "/"
	}

	host := strings.ToLower(u.Host)
	if h, port, err := net.SplitHostPort(host); err == nil {
		if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
			host = h
			if strings.Contains(h, ":") {
				host = "[" + h + "]"
			}
		}
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}
