package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/qafariamirhossein/3d-portfolio/internal/models"
)

const (
	CollectionAuthors    = "authors"
	CollectionCategories = "categories"
	CollectionTags       = "tags"
	CollectionBlogs      = "blogs"

	// FeaturedPageSize is how many posts the featured strip shows.
	FeaturedPageSize = 3
)

// Client talks to the CMS REST API. It holds only configuration and is safe
// for concurrent use.
type Client struct {
	origin     string
	baseURL    string
	token      string
	populate   []string
	httpClient *http.Client
	normalizer *Normalizer
}

type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithNormalizer(n *Normalizer) Option {
	return func(c *Client) {
		c.normalizer = n
	}
}

// WithPopulate requests explicit relations instead of populate=*.
func WithPopulate(relations ...string) Option {
	return func(c *Client) {
		c.populate = relations
	}
}

// NewClient creates a client for the CMS at origin (e.g. http://localhost:1337).
func NewClient(origin string, opts ...Option) *Client {
	origin = strings.TrimSuffix(origin, "/")
	c := &Client{
		origin:  origin,
		baseURL: origin + "/api",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.normalizer == nil {
		c.normalizer = NewNormalizer(origin)
	}
	return c
}

func (c *Client) Origin() string {
	return c.origin
}

// envelope is the {data, meta} wrapper around every successful response.
type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta struct {
		Pagination *models.Pagination `json:"pagination"`
	} `json:"meta"`
}

// GetBlogs returns one page of normalized posts.
func (c *Client) GetBlogs(ctx context.Context, q BlogQuery) (*models.PostList, error) {
	if q.Populate == nil {
		q.Populate = c.populate
	}

	env, err := c.do(ctx, http.MethodGet, CollectionBlogs, q.Params(), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch blogs: %w", err)
	}
	recs, err := decodeList(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}

	pagination := models.Pagination{Page: 1, PageSize: 10, PageCount: 1, Total: len(recs)}
	if env.Meta.Pagination != nil {
		pagination = *env.Meta.Pagination
	}

	return &models.PostList{
		Blogs:      c.normalizer.Posts(recs),
		Pagination: pagination,
	}, nil
}

// GetBlogBySlug returns the post whose slug matches, or an error wrapping
// ErrNotFound when there is none.
func (c *Client) GetBlogBySlug(ctx context.Context, slug string) (*models.Post, error) {
	env, err := c.do(ctx, http.MethodGet, CollectionBlogs, SlugQuery(slug, c.populate), nil)
	if err != nil {
		return nil, fmt.Errorf("fetch blog %q: %w", slug, err)
	}
	recs, err := decodeList(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode blog %q: %w", slug, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("blog post with slug %q: %w", slug, ErrNotFound)
	}

	post, err := c.normalizer.Post(recs[0])
	if err != nil {
		return nil, fmt.Errorf("blog post with slug %q: %w", slug, err)
	}
	return &post, nil
}

func (c *Client) GetFeaturedBlogs(ctx context.Context) ([]models.Post, error) {
	list, err := c.GetBlogs(ctx, BlogQuery{Featured: Bool(true), PageSize: FeaturedPageSize})
	if err != nil {
		return nil, err
	}
	return list.Blogs, nil
}

func (c *Client) GetBlogsByCategory(ctx context.Context, category string) ([]models.Post, error) {
	list, err := c.GetBlogs(ctx, BlogQuery{Category: category})
	if err != nil {
		return nil, err
	}
	return list.Blogs, nil
}

func (c *Client) GetBlogsByTags(ctx context.Context, tags []string) ([]models.Post, error) {
	list, err := c.GetBlogs(ctx, BlogQuery{Tags: tags})
	if err != nil {
		return nil, err
	}
	return list.Blogs, nil
}

func (c *Client) SearchBlogs(ctx context.Context, query string) ([]models.Post, error) {
	list, err := c.GetBlogs(ctx, BlogQuery{Search: query})
	if err != nil {
		return nil, err
	}
	return list.Blogs, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]models.Category, error) {
	recs, err := c.list(ctx, CollectionCategories, nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(recs))
	for _, rec := range recs {
		if cat, err := c.normalizer.Category(rec); err == nil {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (c *Client) GetTags(ctx context.Context) ([]models.Tag, error) {
	recs, err := c.list(ctx, CollectionTags, nil)
	if err != nil {
		return nil, err
	}
	out := make([]models.Tag, 0, len(recs))
	for _, rec := range recs {
		if tag, err := c.normalizer.Tag(rec); err == nil {
			out = append(out, tag)
		}
	}
	return out, nil
}

// GetAuthor returns the first author, or nil when the CMS has none.
func (c *Client) GetAuthor(ctx context.Context) (*models.Author, error) {
	var p Params
	p.Add("populate", "*")
	recs, err := c.list(ctx, CollectionAuthors, p)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	author, err := c.normalizer.Author(recs[0])
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// Entity is a raw record returned by a write or a natural-key lookup.
type Entity struct {
	ID         int
	DocumentID string
	Fields     map[string]any
}

// Ref is the path segment used to address the record: the documentId on
// CMS versions that have one, otherwise the numeric id.
func (e *Entity) Ref() string {
	if e == nil {
		return ""
	}
	if e.DocumentID != "" {
		return e.DocumentID
	}
	if e.ID != 0 {
		return strconv.Itoa(e.ID)
	}
	return ""
}

func newEntity(rec map[string]any) *Entity {
	return &Entity{
		ID:         toInt(rec["id"]),
		DocumentID: str(rec["documentId"]),
		Fields:     attributes(rec),
	}
}

// Create posts {"data": data} to the collection.
func (c *Client) Create(ctx context.Context, collection string, data any) (*Entity, error) {
	env, err := c.do(ctx, http.MethodPost, collection, nil, map[string]any{"data": data})
	if err != nil {
		return nil, err
	}
	rec, err := decodeOne(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode created %s: %w", collection, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("create %s: %w", collection, ErrEmptyRecord)
	}
	return newEntity(rec), nil
}

// FindOne returns the first record whose field equals value.
func (c *Client) FindOne(ctx context.Context, collection, field, value string) (*Entity, error) {
	recs, err := c.list(ctx, collection, FieldFilter(field, value))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("%s with %s %q: %w", collection, field, value, ErrNotFound)
	}
	return newEntity(recs[0]), nil
}

// Update puts {"data": data} to /api/<collection>/<ref>.
func (c *Client) Update(ctx context.Context, collection, ref string, data any) error {
	_, err := c.do(ctx, http.MethodPut, collection+"/"+ref, nil, map[string]any{"data": data})
	return err
}

// Ping checks the CMS is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, CollectionAuthors, nil, nil)
	return err
}

func (c *Client) list(ctx context.Context, collection string, params Params) ([]map[string]any, error) {
	env, err := c.do(ctx, http.MethodGet, collection, params, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	recs, err := decodeList(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", collection, err)
	}
	return recs, nil
}

func (c *Client) do(ctx context.Context, method, path string, params Params, body any) (*envelope, error) {
	endpoint := c.baseURL + "/" + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseAPIError(resp.StatusCode, raw)
	}

	var env envelope
	if len(bytes.TrimSpace(raw)) == 0 {
		return &env, nil
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &env, nil
}

func parseAPIError(status int, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body errorEnvelope
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil {
		apiErr.Name = body.Error.Name
		apiErr.Message = body.Error.Message
		apiErr.Details = body.Error.Details.Errors
		return apiErr
	}

	snippet := strings.TrimSpace(string(raw))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	apiErr.Body = snippet
	return apiErr
}

// decodeList accepts a list, a single object or null.
func decodeList(data json.RawMessage) ([]map[string]any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []map[string]any{t}, nil
	case []any:
		recs := make([]map[string]any, 0, len(t))
		for _, item := range t {
			if m, ok := item.(map[string]any); ok {
				recs = append(recs, m)
			}
		}
		return recs, nil
	}
	return nil, fmt.Errorf("unexpected data type %T", v)
}

func decodeOne(data json.RawMessage) (map[string]any, error) {
	recs, err := decodeList(data)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}
