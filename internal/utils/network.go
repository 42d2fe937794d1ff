package utils

import (
	"net"
	"net/http"
	"strings"
)

// GetRealIP extracts the client IP address from the request, checking
// forwarded headers set by proxies before falling back to RemoteAddr.
func GetRealIP(r *http.Request) string {
	// X-Forwarded-For may contain a comma-separated chain; the first
	// entry is the original client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		ip := strings.TrimSpace(parts[0])
		if isValidIP(ip) {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		ip := strings.TrimSpace(xri)
		if isValidIP(ip) {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GetUserAgent returns the raw User-Agent header.
func GetUserAgent(r *http.Request) string {
	return r.Header.Get("User-Agent")
}

// IsLocalhost reports whether the given IP refers to the local machine.
func IsLocalhost(ip string) bool {
	return ip == "127.0.0.1" || ip == "::1" || ip == "localhost"
}

func isValidIP(ip string) bool {
	return net.ParseIP(ip) != nil
}
