package database

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locvowork/hr_analytics_sample/internal/domain"
)

type fakeElastic struct {
	mu        sync.Mutex
	calls     []string
	docIDs    []string
	bulkCalls int
	failBulk  bool
}

func (f *fakeElastic) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodDelete && r.URL.Path == "/employees":
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"index_not_found_exception","reason":"no such index"},"status":404}`))
	case r.Method == http.MethodPut && r.URL.Path == "/employees":
		w.Write([]byte(`{"acknowledged":true,"shards_acknowledged":true,"index":"employees"}`))
	case strings.HasSuffix(r.URL.Path, "/_bulk"):
		f.bulkCalls++
		scanner := bufio.NewScanner(r.Body)
		scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
		for scanner.Scan() {
			var action map[string]struct {
				ID string `json:"_id"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &action); err == nil {
				if meta, ok := action["index"]; ok {
					f.docIDs = append(f.docIDs, meta.ID)
				}
			}
		}
		if f.failBulk {
			w.Write([]byte(`{"took":1,"errors":true,"items":[{"index":{"_index":"employees","_id":"1","status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse salary"}}}]}`))
			return
		}
		w.Write([]byte(`{"took":1,"errors":false,"items":[]}`))
	case strings.HasSuffix(r.URL.Path, "/_refresh"):
		w.Write([]byte(`{"_shards":{"total":1,"successful":1,"failed":0}}`))
	default:
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"unexpected request","status":400}`))
	}
}

func employees(n int) []domain.Employee {
	out := make([]domain.Employee, n)
	for i := range out {
		out[i] = domain.Employee{ID: i + 1, Department: "Engineering", StartDate: "2020-01-01"}
	}
	return out
}

func TestElasticIndexer_IndexEmployees(t *testing.T) {
	fake := &fakeElastic{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	indexer, err := NewElasticIndexer(ElasticConfig{URL: srv.URL, Index: "employees", BatchSize: 4, Workers: 2})
	require.NoError(t, err)

	require.NoError(t, indexer.IndexEmployees(context.Background(), employees(10)))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, 3, fake.bulkCalls)
	assert.ElementsMatch(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, fake.docIDs)
	assert.Equal(t, "DELETE /employees", fake.calls[0])
	assert.Equal(t, "PUT /employees", fake.calls[1])
	assert.Equal(t, "POST /employees/_refresh", fake.calls[len(fake.calls)-1])
}

func TestElasticIndexer_BulkItemFailure(t *testing.T) {
	fake := &fakeElastic{failBulk: true}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	indexer, err := NewElasticIndexer(ElasticConfig{URL: srv.URL, BatchSize: 100})
	require.NoError(t, err)

	err = indexer.IndexEmployees(context.Background(), employees(3))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse salary")
}

func TestNewElasticIndexer_RequiresURL(t *testing.T) {
	_, err := NewElasticIndexer(ElasticConfig{})
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestNewEmployeeDoc(t *testing.T) {
	term := domain.Date("2023-02-01")
	manager := 3
	doc := NewEmployeeDoc(domain.Employee{
		ID:              12,
		StartDate:       "2021-05-04",
		TerminationDate: &term,
		Manager:         &manager,
	})
	assert.Equal(t, "2021-05-04", doc.StartDate)
	require.NotNil(t, doc.TerminationDate)
	assert.Equal(t, "2023-02-01", *doc.TerminationDate)
	assert.False(t, doc.Active)
	assert.Nil(t, doc.PromotionDate)
	assert.Equal(t, 3, *doc.Manager)
}
