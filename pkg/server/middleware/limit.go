/* Copyright (C) 2025 Giftwise Authors
 *
 * This file is part of Giftwise.
 *
 * Giftwise is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Giftwise is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Giftwise.  If not, see <https://www.gnu.org/licenses/>.
 */

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/giftwise/giftwise/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// serverRateLimitPerSecond is the max requests per second the server will accept per IP
	serverRateLimitPerSecond = 50
	// serverRateLimitBurst is the burst capacity for rate limiting
	serverRateLimitBurst = 100
	// visitorTTL is how long an idle visitor is remembered
	visitorTTL = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter holds the rate limiting state for visitors
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	every    time.Duration
	burst    int
}

// NewRateLimiter creates a rate limiter that lets each visitor make perSecond
// requests a second, with bursts of up to burst requests
func NewRateLimiter(perSecond, burst int) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		every:    time.Second / time.Duration(perSecond),
		burst:    burst,
	}
	go rl.cleanupVisitors()

	return rl
}

var defaultLimiter = NewRateLimiter(serverRateLimitPerSecond, serverRateLimitBurst)

// getVisitor returns a limiter for a visitor with the given identifier. It
// adds the visitor to the map if not seen before.
func (rl *RateLimiter) getVisitor(identifier string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, ok := rl.visitors[identifier]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(rl.every), rl.burst)}
		rl.visitors[identifier] = v
	}
	v.lastSeen = time.Now()

	return v.limiter
}

// cleanupVisitors deletes visitors that has not been seen in a while from the
// map of visitors
func (rl *RateLimiter) cleanupVisitors() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mtx.Lock()
		for identifier, v := range rl.visitors {
			if time.Since(v.lastSeen) > visitorTTL {
				delete(rl.visitors, identifier)
			}
		}
		rl.mtx.Unlock()
	}
}

// lookupIP returns the request's IP
func lookupIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		parts := strings.Split(forwardedFor, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}

// Limit is a middleware to rate limit the handler
func (rl *RateLimiter) Limit(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identifier := lookupIP(r)

		if !rl.getVisitor(identifier).Allow() {
			log.WithFields(log.Fields{
				"ip": identifier,
			}).Warn("Too many requests")
			RespondError(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ApplyLimit applies the global rate limit if rateLimit is true
func ApplyLimit(h http.HandlerFunc, rateLimit bool) http.Handler {
	if !rateLimit {
		return h
	}

	return defaultLimiter.Limit(h)
}
