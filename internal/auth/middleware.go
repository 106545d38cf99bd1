// Cinematch - Movie Catalog and Content-Based Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

type contextKey string

// ClaimsContextKey holds the *Claims of an authenticated request.
const ClaimsContextKey contextKey = "claims"

// AnonymousUser is the identity used when auth_mode is none.
const AnonymousUser = "anonymous"

// Auth modes.
const (
	ModeJWT  = "jwt"
	ModeNone = "none"
)

// Middleware attaches and enforces request identity.
type Middleware struct {
	jwtManager *JWTManager
	authMode   string
	audit      *logging.AuthLogger
}

// NewMiddleware creates the auth middleware. jwtManager may be nil only
// when authMode is none.
func NewMiddleware(jwtManager *JWTManager, authMode string, audit *logging.AuthLogger) (*Middleware, error) {
	if authMode != ModeNone && jwtManager == nil {
		return nil, fmt.Errorf("auth mode %q requires a JWT manager", authMode)
	}
	return &Middleware{jwtManager: jwtManager, authMode: authMode, audit: audit}, nil
}

// RequireAuth rejects requests without a valid token with 401.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err != nil {
			writeUnauthorized(w, err.Error())
			return
		}
		if claims == nil {
			writeUnauthorized(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth attaches claims when a valid token is present and otherwise
// lets the request through anonymously. An invalid token is ignored.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.resolve(r)
		if err == nil && claims != nil {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

// resolve returns (nil, nil) for a request carrying no token.
func (m *Middleware) resolve(r *http.Request) (*Claims, error) {
	if m.authMode == ModeNone {
		return &Claims{}, nil
	}

	token, err := extractToken(r)
	if err != nil || token == "" {
		return nil, err
	}

	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		if m.audit != nil {
			m.audit.TokenRejected(token, ClientIP(r), err.Error())
		}
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	username := claims.Username()
	if username == "" {
		username = AnonymousUser
		claims.Subject = AnonymousUser
	}
	ctx = context.WithValue(ctx, ClaimsContextKey, claims)
	return logging.ContextWithUsername(ctx, username)
}

// ClaimsFromContext returns the claims attached by the middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*Claims)
	return claims, ok && claims != nil
}

// extractToken reads the bearer token from the Authorization header or the
// token cookie. No credentials yields "", nil.
func extractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		cookie, err := r.Cookie("token")
		if err != nil {
			return "", nil
		}
		return cookie.Value, nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization header")
	}
	return parts[1], nil
}

// ClientIP returns the request's remote address without the port. Proxy
// headers are resolved earlier by chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="cinematch"`)
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error:    &models.APIError{Code: "UNAUTHORIZED", Message: message},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode unauthorized response")
	}
}
