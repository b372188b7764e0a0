package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidAPIKey is returned when a token does not match a stored key.
var ErrInvalidAPIKey = errors.New("unauthorized: invalid token")

const apiKeyPrefix = "sb_"

// APIKeyRepository stores hashed API keys for MCP clients.
type APIKeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// CreateKey mints a key for tenantID and returns the plaintext token.
// Only the hash is stored.
func (r *APIKeyRepository) CreateKey(ctx context.Context, tenantID, description string) (string, error) {
	if strings.TrimSpace(tenantID) == "" {
		return "", fmt.Errorf("create api key: tenant required")
	}
	token := apiKeyPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), tenantID, r.now(), description)
	if err != nil {
		return "", mapWriteError("create api key", err)
	}
	return token, nil
}

// ResolveTenant returns the tenant that owns token and records its use.
func (r *APIKeyRepository) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := HashToken(strings.TrimSpace(token))
	var tenantID string
	err := r.db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenantID)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && tenantID == "") {
		return "", ErrInvalidAPIKey
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, r.now(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return tenantID, nil
}

// HashToken returns the hex SHA-256 of token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
