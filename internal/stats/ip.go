package stats

import (
	"net"
	"net/http"
	"strings"
)

// HostResolver determines the remote host of a request.
//
// The remote host is the key for session counts.
type HostResolver struct {
	trustProxy bool
}

// NewHostResolver creates a new host resolver.
//
// When trustProxy is set, X-Forwarded-For and X-Real-IP headers are
// consulted before the connection address.
func NewHostResolver(trustProxy bool) *HostResolver {
	return &HostResolver{trustProxy: trustProxy}
}

// RemoteHost returns the remote host of the request without port.
func (h *HostResolver) RemoteHost(r *http.Request) string {
	if h.trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
				return ip
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(ip) != nil {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RemoteLocation describes the remote end of the request as [host:port].
// Useful in log statements.
func RemoteLocation(r *http.Request) string {
	return "[" + r.RemoteAddr + "]"
}
