package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/models"
	"github.com/qafariamirhossein/3d-portfolio/internal/static"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

// countingSource counts upstream calls and can be told to fail.
type countingSource struct {
	BlogSource
	calls int
	err   error
}

func (c *countingSource) GetBlogs(ctx context.Context, q cms.BlogQuery) (*models.PostList, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.BlogSource.GetBlogs(ctx, q)
}

func (c *countingSource) GetBlogBySlug(ctx context.Context, slug string) (*models.Post, error) {
	c.calls++
	return c.BlogSource.GetBlogBySlug(ctx, slug)
}

func newCountingSource(t *testing.T) *countingSource {
	t.Helper()
	doc, err := static.Load("")
	require.NoError(t, err)
	return &countingSource{BlogSource: static.NewStore(doc, nil)}
}

func newTestCache(t *testing.T) *utils.TTLCache {
	t.Helper()
	c, err := utils.NewCache(32)
	require.NoError(t, err)
	return c
}

func TestBlogServiceCachesReads(t *testing.T) {
	src := newCountingSource(t)
	svc := NewBlogService(src, newTestCache(t), time.Minute, "http://cms.test")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		list, err := svc.List(ctx, cms.BlogQuery{Page: 1})
		require.NoError(t, err)
		assert.Len(t, list.Blogs, 4)
	}
	assert.Equal(t, 1, src.calls)

	_, err := svc.List(ctx, cms.BlogQuery{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestBlogServiceDoesNotCacheErrors(t *testing.T) {
	src := newCountingSource(t)
	src.err = errors.New("cms down")
	svc := NewBlogService(src, newTestCache(t), time.Minute, "")

	_, err := svc.List(context.Background(), cms.BlogQuery{})
	require.Error(t, err)

	src.err = nil
	list, err := svc.List(context.Background(), cms.BlogQuery{})
	require.NoError(t, err)
	assert.NotEmpty(t, list.Blogs)
	assert.Equal(t, 2, src.calls)
}

func TestBlogServiceWithoutCache(t *testing.T) {
	src := newCountingSource(t)
	svc := NewBlogService(src, nil, time.Minute, "")

	_, _ = svc.List(context.Background(), cms.BlogQuery{})
	_, _ = svc.List(context.Background(), cms.BlogQuery{})
	assert.Equal(t, 2, src.calls)
}

func TestBlogServiceDetailRendersMarkdown(t *testing.T) {
	svc := NewBlogService(newCountingSource(t), newTestCache(t), time.Minute, "http://cms.test")

	post, err := svc.Detail(context.Background(), "building-immersive-3d-portfolios-with-react-three-fiber")
	require.NoError(t, err)

	assert.Contains(t, post.ContentHTML, `<h2 id="the-stack">The stack</h2>`)
	assert.Contains(t, post.ContentHTML, `src="http://cms.test/uploads/scene_preview.png"`)
	assert.Contains(t, post.ContentHTML, "youtube.com/embed/dQw4w9WgXcQ")
	assert.NotEmpty(t, post.Content)
}

func TestBlogServiceDetailNotFound(t *testing.T) {
	svc := NewBlogService(newCountingSource(t), newTestCache(t), time.Minute, "")

	_, err := svc.Detail(context.Background(), "nonexistent-slug")
	assert.ErrorIs(t, err, cms.ErrNotFound)
}

func TestBlogServiceAllWalksPages(t *testing.T) {
	src := newCountingSource(t)
	svc := NewBlogService(src, nil, 0, "")

	posts, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 4)
	assert.Equal(t, 1, src.calls)
	assert.Equal(t, "2024-04-05", posts[0].PublishedAt)
}
