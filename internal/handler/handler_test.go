package handler

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_analytics_sample/internal/database"
	"github.com/locvowork/hr_analytics_sample/internal/generator"
	"github.com/locvowork/hr_analytics_sample/internal/registry"
	"github.com/locvowork/hr_analytics_sample/internal/repository"
	"github.com/locvowork/hr_analytics_sample/internal/service"
	"github.com/locvowork/hr_analytics_sample/pkg/simpleexcel"
)

const sampleDataset = `[
	{"id":1,"department":"Eng","location":"Austin","level":"Senior","salary":100,"startDate":"2020-01-01","performanceScore":4},
	{"id":2,"department":"Sales","location":"Boston","level":"Junior","salary":90,"startDate":"2021-01-01","performanceScore":3}
]`

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	store := database.NewMemoryStore()
	gen := generator.New(
		generator.WithRand(rand.New(rand.NewSource(1))),
		generator.WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
	)
	ds := service.NewDatasetService(repository.NewDatasetRepository(store, "hr_analytics_data"), gen,
		service.WithDefaultCounts(20, 30))
	qs := service.NewQueryService(ds, registry.New(nil),
		repository.NewSavedQueryRepository(store, "hr_analytics_saved_queries"), nil)

	e := echo.New()
	RegisterRoutes(e, NewDatasetHandler(ds), NewQueryHandler(qs), NewDashboardHandler(qs))
	return e
}

func do(t *testing.T, e *echo.Echo, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func TestHealth(t *testing.T) {
	rec, _ := do(t, newServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDatasetLifecycle(t *testing.T) {
	e := newServer(t)

	rec, env := do(t, e, http.MethodPost, "/dataset/generate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":20}`, string(env.Data))

	rec, env = do(t, e, http.MethodPost, "/dataset/generate", `{"count":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":7}`, string(env.Data))

	rec, env = do(t, e, http.MethodPost, "/dataset/generate", `{"count":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)

	rec, _ = do(t, e, http.MethodPost, "/dataset/load", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/dataset/save", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":7}`, string(env.Data))

	rec, env = do(t, e, http.MethodPost, "/dataset/seed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":30}`, string(env.Data))

	rec, env = do(t, e, http.MethodPost, "/dataset/load", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":30}`, string(env.Data))

	rec, env = do(t, e, http.MethodGet, "/dataset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":30}`, string(env.Data))

	rec, _ = do(t, e, http.MethodGet, "/dataset/records", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 30)
	assert.Contains(t, records[0], "terminationDate")
}

func TestUpload(t *testing.T) {
	e := newServer(t)

	rec, env := do(t, e, http.MethodPost, "/dataset/upload", sampleDataset)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":2}`, string(env.Data))

	rec, env = do(t, e, http.MethodPost, "/dataset/upload", `[{"id":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "parse upload")

	_, env = do(t, e, http.MethodGet, "/dataset", "")
	assert.JSONEq(t, `{"count":2}`, string(env.Data))
}

func TestUploadMultipart(t *testing.T) {
	e := newServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "employees.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(sampleDataset))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/dataset/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestQueryFlow(t *testing.T) {
	e := newServer(t)
	_, _ = do(t, e, http.MethodPost, "/dataset/upload", sampleDataset)

	rec, env := do(t, e, http.MethodGet, "/query/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"selectedFields":["department","level","salary"],"conditions":[{"field":"","operator":"","value":""}]}`, string(env.Data))

	cfg := `{"selectedFields":["department","salary"],"conditions":[{"field":"department","operator":"=","value":"Eng"}]}`
	rec, env = do(t, e, http.MethodPost, "/query/execute", cfg)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":1,"rows":[{"department":"Eng","salary":100}]}`, string(env.Data))

	rec, _ = do(t, e, http.MethodPost, "/query/export?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "department,salary\nEng,100", rec.Body.String())
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "query_results.csv")

	rec, _ = do(t, e, http.MethodPost, "/query/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, simpleexcel.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "query_results.xlsx")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec, _ = do(t, e, http.MethodPost, "/query/export?format=pdf", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/query/chart?type=pie", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"showLegend":true`)

	rec, _ = do(t, e, http.MethodPost, "/query/chart?type=radar", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/query/sql", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sql":"SELECT department, salary FROM employees WHERE department = $1","args":["Eng"]}`, string(env.Data))
}

func TestQueryConfigValidation(t *testing.T) {
	e := newServer(t)

	rec, _ := do(t, e, http.MethodPut, "/query/config", `{"selectedFields":["nickname"],"conditions":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, e, http.MethodPut, "/query/config", `{"selectedFields":["age"],"conditions":[{"field":"age","operator":"~","value":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, e, http.MethodPut, "/query/config", `{"selectedFields":["age"],"conditions":[{"field":"age","operator":"is null","value":""}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"operator":"IS NULL"`)
}

func TestSavedQueries(t *testing.T) {
	e := newServer(t)
	_, _ = do(t, e, http.MethodPut, "/query/config", `{"selectedFields":["level"],"conditions":[]}`)

	rec, env := do(t, e, http.MethodPost, "/queries", `{"name":"Levels"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var saved struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "Levels", saved.Name)

	rec, _ = do(t, e, http.MethodPost, "/queries", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/queries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"name":"Levels"`)

	_, _ = do(t, e, http.MethodPut, "/query/config", `{"selectedFields":["age"],"conditions":[]}`)
	rec, env = do(t, e, http.MethodPost, "/queries/"+jsonInt(saved.ID)+"/load", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"selectedFields":["level"],"conditions":[]}`, string(env.Data))

	rec, _ = do(t, e, http.MethodPost, "/queries/123/load", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodPost, "/queries/abc/load", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	e := newServer(t)
	_, _ = do(t, e, http.MethodPost, "/dataset/upload", sampleDataset)

	rec, env := do(t, e, http.MethodGet, "/dashboard/headcount", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Headcount by Department", env.Message)
	assert.Contains(t, string(env.Data), `"chartType":"bar"`)

	rec, env = do(t, e, http.MethodGet, "/dashboard/performance?type=table", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `["Score 4","1"]`)

	rec, _ = do(t, e, http.MethodGet, "/dashboard/attrition", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["headcount","salary-by-level","performance"]`, string(env.Data))
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
