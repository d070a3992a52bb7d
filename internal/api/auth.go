package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"atelier/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// Claims carries the single claim embedded in issued tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var errMissingEmail = errors.New("email is required")

// BearerAuth issues and verifies HMAC-signed bearer tokens and gates the
// protected routes. It also applies per-client rate limiting so a stolen or
// absent credential cannot be brute-forced cheaply.
type BearerAuth struct {
	secret  []byte
	ttl     time.Duration
	limiter *clientLimiter
	logger  zerolog.Logger
}

func NewBearerAuth(authCfg config.AuthConfig, rlCfg config.RateLimitConfig, logger *zerolog.Logger) *BearerAuth {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "auth").Logger()
	}

	return &BearerAuth{
		secret:  []byte(authCfg.JWTSecret),
		ttl:     authCfg.TokenTTL(),
		limiter: newClientLimiter(rlCfg),
		logger:  base,
	}
}

// Issue signs a token embedding the email claim. The validity window is
// fixed at issuance; there is no refresh.
func (a *BearerAuth) Issue(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errMissingEmail
	}

	now := time.Now()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify validates a raw token string and returns its claims.
func (a *BearerAuth) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Wrap enforces the bearer gate on protected routes and rate-limits every
// request. A missing credential is 401; a credential that fails signature
// or expiry checks is 403. Protected handlers run only after this passes.
func (a *BearerAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var email string

		if protectedRoute(r.Method, r.URL.Path) {
			claims, status, err := a.authenticate(r)
			if err != nil {
				a.logger.Warn().
					Err(err).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("authentication failed")
				writeError(w, status, err.Error())
				return
			}
			email = claims.Email
			r = r.WithContext(withClaims(r.Context(), claims))
		}

		if !a.limiter.Allow(clientKey(email, r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *BearerAuth) authenticate(r *http.Request) (*Claims, int, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return nil, http.StatusUnauthorized, errors.New("authorization required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return nil, http.StatusUnauthorized, errors.New("bearer credential required")
	}

	claims, err := a.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, http.StatusForbidden, errors.New("invalid or expired token")
	}
	return claims, 0, nil
}

// protectedRoute lists the routes behind the bearer gate: the two full
// collection reads.
func protectedRoute(method, path string) bool {
	return method == http.MethodGet && (path == "/services" || path == "/bookings")
}

type claimsContextKey struct{}

func withClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the verified claims set by the auth gate.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*Claims)
	return claims, ok
}
