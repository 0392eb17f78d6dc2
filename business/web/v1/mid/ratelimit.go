package mid

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	v1 "github.com/qcbit/escrow-gateway/business/web/v1"
	"github.com/qcbit/escrow-gateway/foundation/ratelimit"
	"github.com/qcbit/escrow-gateway/foundation/web"
)

// RateLimit rejects requests from a client address that exceed the limiter's
// rate. A nil limiter lets everything through.
func RateLimit(limiter *ratelimit.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !limiter.Allow(clientIP(r), time.Now()) {
				return v1.NewRequestError(errors.New("rate limit exceeded"), http.StatusTooManyRequests)
			}

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}

// clientIP returns the host part of the remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
