// Package httputil carries small HTTP helpers shared by the API server.
package httputil

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ClientIP returns the originating client address for request logging.
// With trustProxy set, forwarding headers are consulted first: the
// leftmost valid address in X-Forwarded-For, then X-Real-IP. Headers
// are only trustworthy behind a proxy that overwrites them, so the
// flag defaults to off. The result always falls back to RemoteAddr.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
			candidate = strings.TrimSpace(candidate)
			if _, err := netip.ParseAddr(candidate); err == nil {
				return candidate
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
