// Package metadata records who is calling: client address and parsed agent.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"ptacheck/pkg/requestcontext"
)

// ClientMetadata stores the caller's IP and User-Agent in the request
// context. Mount it before Logger.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), ClientIPFromRequest(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Agent is the parsed form of a User-Agent header, used for log attributes.
type Agent struct {
	Browser string
	Version string
	OS      string
	Bot     bool
}

// ParseAgent parses a raw User-Agent header. Empty input yields a zero Agent.
func ParseAgent(raw string) Agent {
	if strings.TrimSpace(raw) == "" {
		return Agent{}
	}
	ua := useragent.New(raw)
	name, version := ua.Browser()
	return Agent{
		Browser: name,
		Version: version,
		OS:      ua.OS(),
		Bot:     ua.Bot(),
	}
}

// ClientIPFromRequest picks the caller address: the first X-Forwarded-For
// hop, then X-Real-IP, then the connection's remote host.
func ClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
