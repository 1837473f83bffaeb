package database

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentor-matching/internal/common/config"
)

func TestPostgresClient_EnsureSchemaAndPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	client := &PostgresClient{DB: db}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS mentor_profiles").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	require.NoError(t, client.EnsureSchema(context.Background()))
	require.NoError(t, client.Ping(context.Background()))
	assert.ErrorContains(t, client.Ping(context.Background()), "postgres ping failed")
	require.NoError(t, client.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClient_EnsureSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))
	err = (&PostgresClient{DB: db}).EnsureSchema(context.Background())
	assert.ErrorContains(t, err, "apply profile schema")
}

func TestNewRedis(t *testing.T) {
	client, err := NewRedis(config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client, "empty address disables the cache")

	mr := miniredis.RunT(t)
	client, err = NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

// fakeElasticsearch answers just enough of the REST API for the client
// product check, ping and index management.
type fakeElasticsearch struct {
	mu      sync.Mutex
	indices map[string]string
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	f.mu.Lock()
	defer f.mu.Unlock()

	name := strings.Trim(r.URL.Path, "/")
	switch {
	case name == "":
		_, _ = io.WriteString(w, `{"version":{"number":"8.11.0"},"tagline":"You Know, for Search"}`)
	case r.Method == http.MethodHead:
		if _, ok := f.indices[name]; !ok {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.indices[name] = string(body)
		_, _ = io.WriteString(w, `{"acknowledged":true,"index":"`+name+`"}`)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func TestElasticsearchClient_EnsureIndex(t *testing.T) {
	fake := &fakeElasticsearch{indices: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, client.Ping(context.Background()))
	require.NoError(t, client.EnsureIndex(context.Background(), "mentor_profiles"))
	assert.Contains(t, fake.indices["mentor_profiles"], `"educationLevel"`)

	// second call sees the index and does not recreate it
	fake.indices["mentor_profiles"] = "existing"
	require.NoError(t, client.EnsureIndex(context.Background(), "mentor_profiles"))
	assert.Equal(t, "existing", fake.indices["mentor_profiles"])
}
