package services

import (
	"context"
	"time"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/models"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

// BlogSource is where posts come from: the CMS client or the static store.
type BlogSource interface {
	GetBlogs(ctx context.Context, q cms.BlogQuery) (*models.PostList, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetFeaturedBlogs(ctx context.Context) ([]models.Post, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetTags(ctx context.Context) ([]models.Tag, error)
	GetAuthor(ctx context.Context) (*models.Author, error)
}

const (
	feedPageSize = 100
	feedMaxPages = 20
)

// BlogService fronts a BlogSource with a short-lived cache and renders post
// bodies for the detail view.
type BlogService struct {
	source      BlogSource
	cache       *utils.TTLCache
	ttl         time.Duration
	imageOrigin string
}

// NewBlogService wraps source. A nil cache or a non-positive ttl disables caching.
// imageOrigin resolves relative image paths inside rendered bodies.
func NewBlogService(source BlogSource, cache *utils.TTLCache, ttl time.Duration, imageOrigin string) *BlogService {
	return &BlogService{source: source, cache: cache, ttl: ttl, imageOrigin: imageOrigin}
}

// cached returns the cached value for key or loads and stores it. Errors are
// never cached.
func cached[T any](s *BlogService, key string, load func() (T, error)) (T, error) {
	if s.cache == nil || s.ttl <= 0 {
		return load()
	}
	if v, ok := s.cache.Get(key).(T); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	s.cache.Set(key, v, s.ttl)
	return v, nil
}

func (s *BlogService) List(ctx context.Context, q cms.BlogQuery) (*models.PostList, error) {
	return cached(s, "blogs:"+q.CacheKey(), func() (*models.PostList, error) {
		return s.source.GetBlogs(ctx, q)
	})
}

func (s *BlogService) Featured(ctx context.Context) ([]models.Post, error) {
	return cached(s, "blogs:featured", func() ([]models.Post, error) {
		return s.source.GetFeaturedBlogs(ctx)
	})
}

// Detail returns one post with ContentHTML rendered from its markdown body.
func (s *BlogService) Detail(ctx context.Context, slug string) (*models.Post, error) {
	return cached(s, "blog:"+slug, func() (*models.Post, error) {
		post, err := s.source.GetBlogBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		rendered := *post
		rendered.ContentHTML = utils.RenderMarkdown(post.Content, s.imageOrigin)
		return &rendered, nil
	})
}

func (s *BlogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cached(s, "categories", func() ([]models.Category, error) {
		return s.source.GetCategories(ctx)
	})
}

func (s *BlogService) Tags(ctx context.Context) ([]models.Tag, error) {
	return cached(s, "tags", func() ([]models.Tag, error) {
		return s.source.GetTags(ctx)
	})
}

// Author may return nil, nil when no author exists.
func (s *BlogService) Author(ctx context.Context) (*models.Author, error) {
	return cached(s, "author", func() (*models.Author, error) {
		return s.source.GetAuthor(ctx)
	})
}

// All walks every page, newest first, for the sitemap and the feed.
func (s *BlogService) All(ctx context.Context) ([]models.Post, error) {
	return cached(s, "blogs:all", func() ([]models.Post, error) {
		var posts []models.Post
		for page := 1; page <= feedMaxPages; page++ {
			list, err := s.source.GetBlogs(ctx, cms.BlogQuery{Page: page, PageSize: feedPageSize, Sort: "publishedAt:desc"})
			if err != nil {
				return nil, err
			}
			posts = append(posts, list.Blogs...)
			if len(list.Blogs) == 0 || page >= list.Pagination.PageCount {
				break
			}
		}
		return posts, nil
	})
}
