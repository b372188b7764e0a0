// Package testserver runs the full HTTP surface (REST API and MCP endpoint)
// over an in-memory store for end-to-end tests.
package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/sealboard/internal/api"
	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/mcp"
	"github.com/rpggio/sealboard/internal/sqlite"
	"github.com/stretchr/testify/require"
)

// JWTSecret signs the bearer tokens accepted by the REST API.
const JWTSecret = "testserver-secret"

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Projects *project.Service
	APIKey   string
	TenantID string
}

// New starts a server with authentication enabled and mints an MCP API key
// for tenantID.
func New(t *testing.T, tenantID string) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	projectRepo := sqlite.NewProjectRepository(db)
	masterRepo := sqlite.NewMasterDataRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	projectSvc := project.NewService(projectRepo, activityRepo, masterRepo, nil)
	activitySvc := activity.NewService(activityRepo, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services:      mcp.Services{Projects: projectSvc, Activity: activitySvc},
		Resolver:      apiKeys,
		AuthEnabled:   true,
		TransportMode: "http",
		Version:       "test",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	handler := api.NewHandler(api.Services{
		Projects:   projectSvc,
		MasterData: masterdata.NewService(masterRepo, nil),
		Activity:   activitySvc,
	}, nil, "test")
	router := api.NewRouter(handler, api.AuthOptions{
		Enabled:       true,
		JWTSecret:     JWTSecret,
		DefaultTenant: tenantID,
	}, map[string]http.Handler{"/mcp": mcpHandler})

	key, err := apiKeys.CreateKey(context.Background(), tenantID, "testserver")
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Projects: projectSvc,
		APIKey:   key,
		TenantID: tenantID,
	}
}

// Token issues a REST bearer token for the server's tenant.
func (ts *TestServer) Token(t *testing.T, permissions ...string) string {
	t.Helper()
	token, err := api.IssueToken(JWTSecret, api.Principal{
		Subject:     "tester",
		Tenant:      ts.TenantID,
		Permissions: permissions,
	}, time.Hour)
	require.NoError(t, err)
	return token
}

// ConnectMCP opens an MCP client session authenticated with apiKey.
func (ts *TestServer) ConnectMCP(t *testing.T, apiKey string) (*sdkmcp.ClientSession, error) {
	t.Helper()
	transport := &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: &http.Client{Transport: bearerTransport{token: apiKey, base: http.DefaultTransport}},
	}
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "testserver-client", Version: "v0"}, nil)
	session, err := client.Connect(context.Background(), transport, nil)
	if err != nil {
		return nil, err
	}
	t.Cleanup(func() { session.Close() })
	return session, nil
}

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	if b.token != "" {
		r.Header.Set("Authorization", "Bearer "+b.token)
	}
	return b.base.RoundTrip(r)
}
