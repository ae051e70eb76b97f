package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// rateLimitByIP rejects callers that exceed the auth limiter with 429.
// It runs as a huma operation middleware on the auth endpoints only.
func (s *Server) rateLimitByIP(ctx huma.Context, next func(huma.Context)) {
	key := clientIP(ctx.RemoteAddr())
	if !s.authRateLimiter.Allow(key) {
		s.log(ctx.Context()).Warn("rate limit exceeded", "ip", key, "path", ctx.URL().Path)
		_ = huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "too many requests, try again later")
		return
	}
	next(ctx)
}

// clientIP strips the port from a RemoteAddr. RealIP middleware has already
// applied X-Forwarded-For and X-Real-IP.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
