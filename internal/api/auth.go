package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Permissions checked by the API.
const (
	PermProjectsWrite   = "projects:write"
	PermMasterDataWrite = "masterdata:write"
	PermAll             = "*"
)

// Principal is the authenticated caller.
type Principal struct {
	Subject     string
	Tenant      string
	Permissions []string
}

// Can reports whether the principal holds perm.
func (p Principal) Can(perm string) bool {
	return slices.Contains(p.Permissions, PermAll) || slices.Contains(p.Permissions, perm)
}

// Claims are the JWT claims accepted by the API.
type Claims struct {
	Tenant      string   `json:"tenant"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

type principalKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller attached by the auth middleware.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// extractBearerToken returns the token from the Authorization header, or "".
func extractBearerToken(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// ParseToken validates an HS256 token and returns its principal.
func ParseToken(secret, tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Principal{}, errors.New("invalid token claims")
	}
	if claims.Tenant == "" {
		return Principal{}, errors.New("token has no tenant")
	}
	return Principal{
		Subject:     claims.Subject,
		Tenant:      claims.Tenant,
		Permissions: claims.Permissions,
	}, nil
}

// IssueToken signs an HS256 token for p that expires after ttl.
func IssueToken(secret string, p Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Tenant:      p.Tenant,
		Permissions: p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// JWTMiddleware authenticates requests with a bearer JWT.
func JWTMiddleware(secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				WriteProblem(w, r, http.StatusUnauthorized, "Missing bearer token")
				return
			}
			principal, err := ParseToken(secret, token)
			if err != nil {
				logger.Warn("auth failure", "path", r.URL.Path, "method", r.Method, "remote_ip", r.RemoteAddr, "error", err)
				WriteProblem(w, r, http.StatusUnauthorized, "Invalid bearer token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// DefaultPrincipalMiddleware grants every request full access to tenant.
// It is used when authentication is disabled.
func DefaultPrincipalMiddleware(tenant string) func(http.Handler) http.Handler {
	principal := Principal{Subject: "anonymous", Tenant: tenant, Permissions: []string{PermAll}}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequirePermission rejects callers lacking perm with 403.
func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				WriteProblem(w, r, http.StatusUnauthorized, "Not authenticated")
				return
			}
			if !p.Can(perm) {
				WriteProblem(w, r, http.StatusForbidden, fmt.Sprintf("Missing permission %q", perm))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
