package cms

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, WithToken("test-token"))
}

func TestGetBlogsNormalizesAndPaginates(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blogs", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "true", r.URL.Query().Get("filters[featured][$eq]"))
		assert.Equal(t, "*", r.URL.Query().Get("populate"))

		io.WriteString(w, `{
			"data": [{"id": 1, "attributes": {"title": "One", "slug": "one", "publishedAt": "2024-01-01T00:00:00.000Z"}}],
			"meta": {"pagination": {"page": 2, "pageSize": 1, "pageCount": 5, "total": 5}}
		}`)
	})

	list, err := client.GetBlogs(context.Background(), BlogQuery{Featured: Bool(true)})
	require.NoError(t, err)

	require.Len(t, list.Blogs, 1)
	assert.Equal(t, "one", list.Blogs[0].Slug)
	assert.Equal(t, "2024-01-01", list.Blogs[0].PublishedAt)
	assert.Equal(t, 5, list.Pagination.PageCount)
	assert.Equal(t, 2, list.Pagination.Page)
}

func TestGetBlogsDefaultPagination(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": [{"id": 1, "title": "a"}, {"id": 2, "title": "b"}], "meta": {}}`)
	})

	list, err := client.GetBlogs(context.Background(), BlogQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, list.Pagination.Page)
	assert.Equal(t, 10, list.Pagination.PageSize)
	assert.Equal(t, 1, list.Pagination.PageCount)
	assert.Equal(t, 2, list.Pagination.Total)
}

func TestGetFeaturedBlogsQuery(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("pagination[pageSize]"))
		assert.Equal(t, "true", r.URL.Query().Get("filters[featured][$eq]"))
		io.WriteString(w, `{"data": []}`)
	})

	posts, err := client.GetFeaturedBlogs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestGetBlogBySlugNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nonexistent-slug", r.URL.Query().Get("filters[slug][$eq]"))
		io.WriteString(w, `{"data": [], "meta": {"pagination": {"page": 1, "pageSize": 25, "pageCount": 0, "total": 0}}}`)
	})

	post, err := client.GetBlogBySlug(context.Background(), "nonexistent-slug")
	assert.Nil(t, post)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetBlogBySlugFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": [{"id": 3, "slug": "hello", "title": "Hello", "tags": {"id": 1, "name": "go"}}]}`)
	})

	post, err := client.GetBlogBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, []string{"go"}, post.Tags)
}

func TestTransportFailureIsNotNotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := client.GetBlogBySlug(context.Background(), "hello")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "bad gateway")
}

func TestUnreachableCMS(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	origin := server.URL
	server.Close()

	err := NewClient(origin).Ping(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestCreateUniqueViolation(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "amir@qafari.dev", body["data"]["email"])

		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"data": null, "error": {"status": 400, "name": "ValidationError", "message": "This attribute must be unique",
			"details": {"errors": [{"path": ["email"], "message": "This attribute must be unique", "name": "ValidationError"}]}}}`)
	})

	_, err := client.Create(context.Background(), CollectionAuthors, map[string]string{"email": "amir@qafari.dev"})
	require.Error(t, err)

	assert.True(t, IsUniqueViolation(err, "email"))
	assert.False(t, IsUniqueViolation(err, "slug"))
	assert.Contains(t, err.Error(), "ValidationError")
}

func TestValidationErrorWithIndexedPath(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"data": null, "error": {"status": 400, "name": "ValidationError", "message": "Invalid relations",
			"details": {"errors": [{"path": ["tags", 0], "message": "tags[0] must be a valid id", "name": "ValidationError"},
				{"path": ["slug"], "message": "This attribute must be unique", "name": "ValidationError"}]}}}`)
	})

	_, err := client.Create(context.Background(), CollectionBlogs, map[string]string{"slug": "post"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)

	assert.Equal(t, "ValidationError", apiErr.Name)
	assert.Equal(t, "Invalid relations", apiErr.Message)
	assert.Empty(t, apiErr.Body)
	require.Len(t, apiErr.Details, 2)
	assert.Equal(t, []any{"tags", float64(0)}, apiErr.Details[0].Path)

	assert.True(t, IsUniqueViolation(err, "slug"))
	assert.False(t, IsUniqueViolation(err, "tags"))
}

func TestUniqueViolationRequires400(t *testing.T) {
	err := &APIError{StatusCode: 500, Details: []ValidationError{{Path: []any{"name"}, Message: "must be unique"}}}
	assert.False(t, IsUniqueViolation(err, "name"))
	assert.False(t, IsUniqueViolation(errors.New("boom"), "name"))
}

func TestCreateReturnsEntity(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": {"id": 42, "documentId": "doc42", "name": "React"}}`)
	})

	entity, err := client.Create(context.Background(), CollectionCategories, map[string]string{"name": "React"})
	require.NoError(t, err)

	assert.Equal(t, 42, entity.ID)
	assert.Equal(t, "doc42", entity.Ref())
	assert.Equal(t, "React", entity.Fields["name"])
}

func TestFindOne(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filters[name][$eq]") == "React" {
			io.WriteString(w, `{"data": [{"id": 5, "attributes": {"name": "React"}}]}`)
			return
		}
		io.WriteString(w, `{"data": []}`)
	})

	entity, err := client.FindOne(context.Background(), CollectionCategories, "name", "React")
	require.NoError(t, err)
	assert.Equal(t, 5, entity.ID)
	assert.Equal(t, "5", entity.Ref())

	_, err = client.FindOne(context.Background(), CollectionCategories, "name", "Vue")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUsesRef(t *testing.T) {
	var gotPath, gotMethod string
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		io.WriteString(w, `{"data": {"id": 1}}`)
	})

	require.NoError(t, client.Update(context.Background(), CollectionBlogs, "doc1", map[string]string{"publishedAt": "2024-01-01T00:00:00Z"}))
	assert.Equal(t, "/api/blogs/doc1", gotPath)
	assert.Equal(t, http.MethodPut, gotMethod)
}

func TestGetAuthorEmpty(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data": []}`)
	})

	author, err := client.GetAuthor(context.Background())
	require.NoError(t, err)
	assert.Nil(t, author)
}

func TestGetCategoriesAndTags(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/categories":
			io.WriteString(w, `{"data": [{"id": 1, "attributes": {"name": "React", "slug": "react"}}]}`)
		case "/api/tags":
			io.WriteString(w, `{"data": [{"id": 2, "name": "go", "slug": "tag-go"}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	cats, err := client.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "React", cats[0].Name)

	tags, err := client.GetTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "tag-go", tags[0].Slug)
}
