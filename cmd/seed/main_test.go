package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qafariamirhossein/3d-portfolio/internal/services"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func clearEnv(t *testing.T) {
	for _, key := range []string{"STRAPI_URL", "VITE_STRAPI_URL", "STRAPI_API_TOKEN", "DATABASE_URL", "BLOG_DATA_PATH"} {
		t.Setenv(key, "")
	}
}

func TestDryRunPrintsDataset(t *testing.T) {
	clearEnv(t)

	out, err := execute(t, "--dry-run")
	require.NoError(t, err)

	var ds services.Dataset
	require.NoError(t, json.Unmarshal([]byte(out), &ds))
	assert.Equal(t, "amir@qafari.dev", ds.Author.Email)
	assert.Len(t, ds.Posts, 4)
	assert.Len(t, ds.Categories, 8)
}

func TestMissingToken(t *testing.T) {
	clearEnv(t)

	_, err := execute(t)
	assert.ErrorIs(t, err, errMissingToken)

	t.Setenv("STRAPI_API_TOKEN", tokenPlaceholder)
	_, err = execute(t)
	assert.ErrorIs(t, err, errMissingToken)
}

func TestUnreachableCMS(t *testing.T) {
	clearEnv(t)
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	t.Setenv("STRAPI_URL", server.URL)
	t.Setenv("STRAPI_API_TOKEN", "token")

	_, err := execute(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot reach CMS")
}

func TestSeedAgainstStubCMS(t *testing.T) {
	clearEnv(t)

	var (
		mu     sync.Mutex
		nextID int
		calls  []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `{"data": []}`)
		case http.MethodPost:
			nextID++
			body, _ := io.ReadAll(r.Body)
			assert.True(t, strings.HasPrefix(string(body), `{"data":`))
			w.Write([]byte(`{"data": {"id": ` + strconv.Itoa(nextID) + `}}`))
		case http.MethodPut:
			io.WriteString(w, `{"data": {}}`)
		}
	}))
	defer server.Close()

	t.Setenv("STRAPI_URL", server.URL)
	t.Setenv("STRAPI_API_TOKEN", "token")

	out, err := execute(t, "--delay-scale", "0")
	require.NoError(t, err)

	assert.Contains(t, out, "published=4")
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "GET /api/authors", calls[0])
	assert.Equal(t, "PUT /api/blogs/"+strconv.Itoa(nextID), calls[len(calls)-1])
}
