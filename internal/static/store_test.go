package static

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/models"
)

func bundledStore(t *testing.T) *Store {
	t.Helper()
	doc, err := Load("")
	require.NoError(t, err)
	manifest, err := LoadManifest("")
	require.NoError(t, err)
	return NewStore(doc, manifest)
}

func TestBundledDocuments(t *testing.T) {
	doc, err := Load("")
	require.NoError(t, err)
	assert.Len(t, doc.Blogs, 4)

	manifest, err := LoadManifest("")
	require.NoError(t, err)
	assert.Equal(t, "amir@qafari.dev", manifest.Author.Email)
	assert.Len(t, manifest.Categories, 8)
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"blogs":[{"id":"9","title":"Only","slug":"only","readTime":"","content":"a b c","tags":null}]}`), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	store := NewStore(doc, nil)

	post, err := store.GetBlogBySlug(context.Background(), "only")
	require.NoError(t, err)
	assert.Equal(t, 9, post.ID)
	assert.Equal(t, 1, post.ReadingTime)
	assert.Equal(t, "Unknown Author", post.Author)
	assert.Equal(t, "Uncategorized", post.Category)
	assert.Equal(t, "/portfolio/images/default-blog.png", post.FeaturedImage)
	assert.Equal(t, []string{}, post.Tags)

	author, err := store.GetAuthor(context.Background())
	require.NoError(t, err)
	assert.Nil(t, author)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Parse([]byte("{not json"))
	assert.Error(t, err)
}

func TestGetBlogsNewestFirstWithPagination(t *testing.T) {
	store := bundledStore(t)

	list, err := store.GetBlogs(context.Background(), cms.BlogQuery{PageSize: 3})
	require.NoError(t, err)

	require.Len(t, list.Blogs, 3)
	assert.Equal(t, "essential-linux-commands-for-web-developers", list.Blogs[0].Slug)
	assert.Equal(t, models.Pagination{Page: 1, PageSize: 3, PageCount: 2, Total: 4}, list.Pagination)

	page2, err := store.GetBlogs(context.Background(), cms.BlogQuery{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page2.Blogs, 1)
	assert.Equal(t, "building-immersive-3d-portfolios-with-react-three-fiber", page2.Blogs[0].Slug)

	beyond, err := store.GetBlogs(context.Background(), cms.BlogQuery{Page: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond.Blogs)
}

func TestGetBlogsHugePageNumbers(t *testing.T) {
	store := bundledStore(t)

	far, err := store.GetBlogs(context.Background(), cms.BlogQuery{Page: math.MaxInt / 5, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, far.Blogs)
	assert.Equal(t, 1, far.Pagination.PageCount)

	wide, err := store.GetBlogs(context.Background(), cms.BlogQuery{PageSize: math.MaxInt})
	require.NoError(t, err)
	assert.Len(t, wide.Blogs, 4)
	assert.Equal(t, 1, wide.Pagination.PageCount)

	both, err := store.GetBlogs(context.Background(), cms.BlogQuery{Page: math.MaxInt / 5, PageSize: math.MaxInt})
	require.NoError(t, err)
	assert.Empty(t, both.Blogs)
	assert.Equal(t, 1, both.Pagination.PageCount)
	assert.Equal(t, 4, both.Pagination.Total)
}

func TestGetBlogsFilters(t *testing.T) {
	store := bundledStore(t)
	ctx := context.Background()

	byCategory, err := store.GetBlogs(ctx, cms.BlogQuery{Category: "devops"})
	require.NoError(t, err)
	require.Len(t, byCategory.Blogs, 1)
	assert.Equal(t, "DevOps", byCategory.Blogs[0].Category)

	byTags, err := store.GetBlogs(ctx, cms.BlogQuery{Tags: []string{"Deployment"}})
	require.NoError(t, err)
	assert.Len(t, byTags.Blogs, 2)

	search, err := store.GetBlogs(ctx, cms.BlogQuery{Search: "DISCRIMINATED"})
	require.NoError(t, err)
	require.Len(t, search.Blogs, 1)
	assert.Equal(t, "typescript-patterns-i-use-in-every-react-project", search.Blogs[0].Slug)

	sorted, err := store.GetBlogs(ctx, cms.BlogQuery{Sort: "publishedAt:asc"})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", sorted.Blogs[0].PublishedAt)
}

func TestGetFeaturedBlogs(t *testing.T) {
	posts, err := bundledStore(t).GetFeaturedBlogs(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.True(t, p.Featured)
	}
}

func TestGetBlogBySlugNotFound(t *testing.T) {
	_, err := bundledStore(t).GetBlogBySlug(context.Background(), "nonexistent-slug")
	assert.ErrorIs(t, err, cms.ErrNotFound)
}

func TestPostDefaultsFromStaticFields(t *testing.T) {
	post, err := bundledStore(t).GetBlogBySlug(context.Background(), "typescript-patterns-i-use-in-every-react-project")
	require.NoError(t, err)

	assert.Equal(t, "6 min read", post.ReadTime)
	assert.Equal(t, 6, post.ReadingTime)
	assert.Equal(t, "/me/me.png", post.AuthorImage)
	assert.Equal(t, "2024-02-20", post.UpdatedAt)
	assert.Equal(t, post.Tags, post.SEO.Keywords)
}

func TestTaxonomy(t *testing.T) {
	store := bundledStore(t)

	cats, err := store.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 4)
	assert.Equal(t, "Portfolio", cats[0].Name)
	assert.Equal(t, "#8B5CF6", cats[0].Color)

	tags, err := store.GetTags(context.Background())
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Contains(t, names, "Three.js")
	assert.Equal(t, "tag-linux", tags[0].Slug)

	author, err := store.GetAuthor(context.Background())
	require.NoError(t, err)
	require.NotNil(t, author)
	assert.Equal(t, "Amir Qafari", author.Name)
}
