package static

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/models"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

//go:embed data/blog.json
var embeddedBlog []byte

//go:embed data/seed.json
var embeddedManifest []byte

const defaultPageSize = 10

// Load reads the blog document at path, or the bundled copy when path is empty.
func Load(path string) (*models.StaticDocument, error) {
	data := embeddedBlog
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read blog data: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

func Parse(data []byte) (*models.StaticDocument, error) {
	var doc models.StaticDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse blog data: %w", err)
	}
	return &doc, nil
}

// LoadManifest reads the seed manifest at path, or the bundled copy when path is empty.
func LoadManifest(path string) (*models.SeedManifest, error) {
	data := embeddedManifest
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed manifest: %w", err)
		}
		data = raw
	}
	var m models.SeedManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse seed manifest: %w", err)
	}
	return &m, nil
}

// Store serves posts from the static document. It is read-only after
// construction and safe for concurrent use.
type Store struct {
	posts      []models.Post // newest first
	categories []models.Category
	author     *models.Author
}

// NewStore converts doc into view models. manifest is optional and supplies
// the author and category metadata.
func NewStore(doc *models.StaticDocument, manifest *models.SeedManifest) *Store {
	defaults := cms.DefaultPlaceholders
	s := &Store{}

	known := map[string]models.Category{}
	if manifest != nil {
		for i, c := range manifest.Categories {
			known[c.Name] = models.Category{ID: i + 1, Name: c.Name, Description: c.Description, Color: c.Color, Slug: c.Slug}
		}
		if manifest.Author.Name != "" {
			s.author = &models.Author{
				ID:          1,
				Name:        manifest.Author.Name,
				Email:       manifest.Author.Email,
				Bio:         manifest.Author.Bio,
				Avatar:      defaults.AuthorImage,
				SocialLinks: manifest.Author.SocialLinks,
				Slug:        manifest.Author.Slug,
			}
		}
	}

	seen := map[string]bool{}
	for _, sp := range doc.Blogs {
		p := toPost(sp, defaults)
		s.posts = append(s.posts, p)

		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cat, ok := known[p.Category]
		if !ok {
			cat = models.Category{Name: p.Category, Slug: utils.Slugify(p.Category)}
		}
		s.categories = append(s.categories, cat)
	}

	sort.SliceStable(s.posts, func(i, j int) bool {
		return s.posts[i].PublishedAt > s.posts[j].PublishedAt
	})
	return s
}

func toPost(sp models.StaticPost, d cms.Placeholders) models.Post {
	readingTime := utils.ParseReadTime(sp.ReadTime)
	if readingTime <= 0 {
		readingTime = utils.EstimateReadingTime(sp.Content)
	}

	keywords := sp.SEO.Keywords
	if len(keywords) == 0 {
		keywords = sp.Tags
	}
	tags := sp.Tags
	if tags == nil {
		tags = []string{}
	}

	published := utils.DatePart(sp.PublishedAt)
	return models.Post{
		ID:            utils.StringToInt(sp.ID),
		Title:         sp.Title,
		Slug:          sp.Slug,
		Excerpt:       sp.Excerpt,
		Content:       sp.Content,
		Author:        orDefault(sp.Author, d.AuthorName),
		AuthorImage:   orDefault(sp.AuthorImage, d.AuthorImage),
		PublishedAt:   published,
		UpdatedAt:     orDefault(utils.DatePart(sp.UpdatedAt), published),
		ReadTime:      utils.FormatReadTime(readingTime),
		ReadingTime:   readingTime,
		Category:      orDefault(sp.Category, d.Category),
		Tags:          tags,
		FeaturedImage: orDefault(sp.FeaturedImage, d.FeaturedImage),
		SEO: models.SEO{
			MetaTitle:       orDefault(sp.SEO.MetaTitle, sp.Title),
			MetaDescription: orDefault(sp.SEO.MetaDescription, sp.Excerpt),
			Keywords:        keywords,
		},
		Featured: sp.Featured,
	}
}

// GetBlogs applies the same filters the CMS understands, in memory.
func (s *Store) GetBlogs(_ context.Context, q cms.BlogQuery) (*models.PostList, error) {
	matched := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}
	sortPosts(matched, q.Sort)

	page, size := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	total := len(matched)

	// 先比较再相乘，超大的 page/pageSize 不会溢出
	start := total
	if page-1 < total/size+1 {
		start = min((page-1)*size, total)
	}
	end := total
	if size < total-start {
		end = start + size
	}

	return &models.PostList{
		Blogs: matched[start:end],
		Pagination: models.Pagination{
			Page:      page,
			PageSize:  size,
			PageCount: pageCount(total, size),
			Total:     total,
		},
	}, nil
}

func (s *Store) GetBlogBySlug(_ context.Context, slug string) (*models.Post, error) {
	for _, p := range s.posts {
		if p.Slug == slug {
			post := p
			return &post, nil
		}
	}
	return nil, fmt.Errorf("blog post with slug %q: %w", slug, cms.ErrNotFound)
}

func (s *Store) GetFeaturedBlogs(ctx context.Context) ([]models.Post, error) {
	list, err := s.GetBlogs(ctx, cms.BlogQuery{Featured: cms.Bool(true), PageSize: cms.FeaturedPageSize})
	if err != nil {
		return nil, err
	}
	return list.Blogs, nil
}

func (s *Store) GetCategories(context.Context) ([]models.Category, error) {
	return s.categories, nil
}

// GetTags returns every distinct tag in first-seen order.
func (s *Store) GetTags(context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	seen := map[string]bool{}
	for _, p := range s.posts {
		for _, name := range p.Tags {
			if seen[name] {
				continue
			}
			seen[name] = true
			tags = append(tags, models.Tag{ID: len(tags) + 1, Name: name, Slug: utils.TagSlug(name)})
		}
	}
	return tags, nil
}

func (s *Store) GetAuthor(context.Context) (*models.Author, error) {
	return s.author, nil
}

func pageCount(total, size int) int {
	n := total / size
	if total%size != 0 {
		n++
	}
	return n
}

func matches(p models.Post, q cms.BlogQuery) bool {
	if q.Featured != nil && p.Featured != *q.Featured {
		return false
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if len(q.Tags) > 0 && !hasAnyTag(p.Tags, q.Tags) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Excerpt), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			return false
		}
	}
	return true
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// sortPosts understands "<field>:<asc|desc>" for publishedAt and title.
// Anything else keeps the newest-first order.
func sortPosts(posts []models.Post, expr string) {
	field, dir, _ := strings.Cut(expr, ":")
	desc := !strings.EqualFold(dir, "asc")

	var less func(a, b models.Post) bool
	switch field {
	case "title":
		less = func(a, b models.Post) bool { return a.Title < b.Title }
	case "publishedAt":
		less = func(a, b models.Post) bool { return a.PublishedAt < b.PublishedAt }
	default:
		return
	}
	sort.SliceStable(posts, func(i, j int) bool {
		if desc {
			return less(posts[j], posts[i])
		}
		return less(posts[i], posts[j])
	})
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
