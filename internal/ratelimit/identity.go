package ratelimit

import (
	"net"
	"net/http"
	"strings"
)

// ClientIdentifier derives a stable per-client key from proxy and CDN
// headers. Behind Cloudflare the CF-Connecting-IP header is authoritative;
// the remaining headers are best-effort and spoofable when the server is not
// fronted by a trusted proxy. The composite fallback is low-entropy but
// still groups most clients when no address header is present. Never returns
// an empty string.
func ClientIdentifier(r *http.Request) string {
	if ip := r.Header.Get("CF-Connecting-IP"); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		for i := range ips {
			ips[i] = strings.TrimSpace(ips[i])
		}
		for _, ip := range ips {
			if isPublicIP(ip) {
				return ip
			}
		}
		return ips[0]
	}

	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Vercel-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	userAgent := r.Header.Get("User-Agent")
	if userAgent == "" {
		userAgent = "unknown"
	}
	acceptLanguage := r.Header.Get("Accept-Language")
	if acceptLanguage == "" {
		acceptLanguage = "unknown"
	}
	return stripNonAlnum("fallback:" + truncate(userAgent, 20) + ":" + truncate(acceptLanguage, 10))
}

func isPublicIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	return !ip.IsPrivate() && !ip.IsLoopback() && !ip.IsLinkLocalUnicast()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}

func stripNonAlnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ':':
			b.WriteRune(r)
		}
	}
	return b.String()
}
