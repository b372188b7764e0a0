package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const tenantIDKey contextKey = iota

// ErrUnauthorized is returned for calls without a valid API key.
var ErrUnauthorized = errors.New("unauthorized")

func getTenantID(ctx context.Context) string {
	v, _ := ctx.Value(tenantIDKey).(string)
	return v
}

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver interface {
	ResolveTenant(ctx context.Context, token string) (string, error)
}

// authMiddleware resolves the caller's tenant from an API key bearer token.
func authMiddleware(resolver TenantResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: missing headers", ErrUnauthorized)
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
			}

			tenantID, err := resolver.ResolveTenant(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
			}
			if tenantID == "" {
				return nil, fmt.Errorf("%w: invalid bearer token", ErrUnauthorized)
			}

			ctx = context.WithValue(ctx, tenantIDKey, tenantID)
			return next(ctx, method, req)
		}
	}
}

// noAuthMiddleware injects a default tenant when auth is disabled.
func noAuthMiddleware(defaultTenant string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			ctx = context.WithValue(ctx, tenantIDKey, defaultTenant)
			return next(ctx, method, req)
		}
	}
}
