package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/sealboard/internal/domain/activity"
	"github.com/rpggio/sealboard/internal/domain/masterdata"
	"github.com/rpggio/sealboard/internal/domain/project"
	"github.com/rpggio/sealboard/internal/listview"
	"github.com/rpggio/sealboard/internal/sqlite"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

type testEnv struct {
	router   http.Handler
	projects *project.Service
}

func newTestEnv(t *testing.T, auth AuthOptions) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)
	masterRepo := sqlite.NewMasterDataRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	projects := project.NewService(projectRepo, activityRepo, masterRepo, nil)
	h := NewHandler(Services{
		Projects:   projects,
		MasterData: masterdata.NewService(masterRepo, nil),
		Activity:   activity.NewService(activityRepo, nil),
	}, nil, "test")

	if auth.DefaultTenant == "" {
		auth.DefaultTenant = "tenant1"
	}
	return &testEnv{router: NewRouter(h, auth, nil), projects: projects}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, AuthOptions{Enabled: true, JWTSecret: testSecret})
	w := env.do(t, http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", decode[healthResponse](t, w).Status)
}

func TestProjects_CreateAndView(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	for i := 1; i <= 10; i++ {
		w := env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{
			"name":         fmt.Sprintf("Tin %d", i),
			"company_name": "Acme",
			"country":      map[bool]string{true: "India", false: "Vietnam"}[i%2 == 0],
		}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := env.do(t, http.MethodGet, "/api/v1/projects?page=2&stage=idea", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[listview.Result[project.Row]](t, w)
	require.Equal(t, 10, res.TotalItems)
	require.Equal(t, 2, res.TotalPages)
	require.Equal(t, 2, res.Page)
	require.Len(t, res.Items, 2)
	require.Equal(t, "TBD", res.Items[0].Duration.Label)

	w = env.do(t, http.MethodGet, "/api/v1/projects?country=india&priority=all&page=99", nil, "")
	res = decode[listview.Result[project.Row]](t, w)
	require.Equal(t, 5, res.TotalItems)
	require.Equal(t, 1, res.Page)
	require.Equal(t, 1, res.ActiveFilters)
	require.False(t, res.ShowPagination)

	w = env.do(t, http.MethodGet, "/api/v1/projects?q=TIN%201", nil, "")
	res = decode[listview.Result[project.Row]](t, w)
	require.Equal(t, 2, res.TotalItems) // "Tin 1" and "Tin 10"
}

func TestProjects_BadQuery(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	w := env.do(t, http.MethodGet, "/api/v1/projects?page=abc&page_size=0", nil, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	p := decode[ProblemWithErrors](t, w)
	require.Len(t, p.Errors, 2)

	w = env.do(t, http.MethodGet, "/api/v1/projects?stage=shipped", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_ValidationProblem(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": ""}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	p := decode[ProblemWithErrors](t, w)
	require.Equal(t, "name", p.Errors[0].Field)

	w = env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "x", "bogus": 1}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjects_TransitionFlow(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "Gift box", "stage": "prototype"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[project.Row](t, w)

	target := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)
	w = env.do(t, http.MethodPost, "/api/v1/projects/"+created.ID+"/transition",
		map[string]any{"to_stage": "red_seal", "target_date": target}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	row := decode[project.Row](t, w)
	require.Equal(t, project.StageRedSeal, row.Stage)
	require.True(t, row.Duration.Known)

	w = env.do(t, http.MethodPost, "/api/v1/projects/"+created.ID+"/transition",
		map[string]any{"to_stage": "final_approved"}, "")
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/projects/"+created.ID+"/transition",
		map[string]any{"to_stage": "prototype"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID+"/activity", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[listResponse[activity.ActivityEntry]](t, w)
	require.Len(t, entries.Data, 2)
	require.Equal(t, activity.TypeStageChanged, entries.Data[0].ActivityType)
	require.Equal(t, "anonymous", entries.Data[0].Actor)

	w = env.do(t, http.MethodGet, "/api/v1/stages", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	stages := decode[stagesResponse](t, w)
	require.Len(t, stages.Stages, 8)
	require.Equal(t, 1, stages.Total)
}

func TestProjects_UpdateDeleteNotFound(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "Tin"}, "")
	created := decode[project.Row](t, w)

	w = env.do(t, http.MethodPatch, "/api/v1/projects/"+created.ID, map[string]any{"priority": "high"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, project.PriorityHigh, decode[project.Row](t, w).Priority)

	w = env.do(t, http.MethodDelete, "/api/v1/projects/"+created.ID, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, problemBase+"not-found", decode[Problem](t, w).Type)
}

func TestMasterData(t *testing.T) {
	env := newTestEnv(t, AuthOptions{})

	w := env.do(t, http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme", "country": "India"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	company := decode[masterdata.Company](t, w)

	w = env.do(t, http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme"}, "")
	require.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/brands", map[string]any{"company_id": company.ID, "name": "Sparkle"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	brand := decode[masterdata.Brand](t, w)

	w = env.do(t, http.MethodGet, "/api/v1/brands?company_id="+company.ID, nil, "")
	require.Len(t, decode[listResponse[masterdata.Brand]](t, w).Data, 1)

	w = env.do(t, http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, decode[listResponse[masterdata.Category]](t, w).Data)

	w = env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "Gift", "brand_id": brand.ID}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	row := decode[project.Row](t, w)
	require.Equal(t, "Acme", row.CompanyName)
	require.Equal(t, "India", row.Country)
}

func TestAuth_JWT(t *testing.T) {
	env := newTestEnv(t, AuthOptions{Enabled: true, JWTSecret: testSecret})

	w := env.do(t, http.MethodGet, "/api/v1/projects", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/v1/projects", nil, "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	reader, err := IssueToken(testSecret, Principal{Subject: "viewer", Tenant: "t2"}, time.Hour)
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/api/v1/projects", nil, reader)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "x"}, reader)
	require.Equal(t, http.StatusForbidden, w.Code)

	writer, err := IssueToken(testSecret, Principal{Subject: "planner", Tenant: "t2", Permissions: []string{PermProjectsWrite}}, time.Hour)
	require.NoError(t, err)
	w = env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "x"}, writer)
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/companies", map[string]any{"name": "Acme"}, writer)
	require.Equal(t, http.StatusForbidden, w.Code)

	wrongKey, err := IssueToken("other-secret", Principal{Tenant: "t2", Permissions: []string{PermAll}}, time.Hour)
	require.NoError(t, err)
	w = env.do(t, http.MethodGet, "/api/v1/projects", nil, wrongKey)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_TenantIsolation(t *testing.T) {
	env := newTestEnv(t, AuthOptions{Enabled: true, JWTSecret: testSecret})

	a, _ := IssueToken(testSecret, Principal{Subject: "a", Tenant: "ta", Permissions: []string{PermAll}}, time.Hour)
	b, _ := IssueToken(testSecret, Principal{Subject: "b", Tenant: "tb", Permissions: []string{PermAll}}, time.Hour)

	w := env.do(t, http.MethodPost, "/api/v1/projects", map[string]any{"name": "secret"}, a)
	created := decode[project.Row](t, w)

	w = env.do(t, http.MethodGet, "/api/v1/projects/"+created.ID, nil, b)
	require.Equal(t, http.StatusNotFound, w.Code)
}
