package cms

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/qafariamirhossein/3d-portfolio/internal/models"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

// DateLayout is the display precision for post dates.
const DateLayout = "2006-01-02"

// Placeholders are the values used when a relation is missing.
type Placeholders struct {
	AuthorName    string
	AuthorImage   string
	Category      string
	FeaturedImage string
}

// DefaultPlaceholders match the assets bundled with the SPA.
var DefaultPlaceholders = Placeholders{
	AuthorName:    "Unknown Author",
	AuthorImage:   "/me/me.png",
	Category:      "Uncategorized",
	FeaturedImage: "/portfolio/images/default-blog.png",
}

// Normalizer flattens raw CMS records into view models. It has no mutable
// state and is safe for concurrent use.
type Normalizer struct {
	Origin   string // CMS origin for relative media URLs
	Defaults Placeholders
	Now      func() time.Time
}

func NewNormalizer(origin string) *Normalizer {
	return &Normalizer{
		Origin:   strings.TrimSuffix(origin, "/"),
		Defaults: DefaultPlaceholders,
		Now:      time.Now,
	}
}

// relationShape extracts the target of a to-one relation in one encoding.
type relationShape func(parent map[string]any, rel string) (map[string]any, bool)

// Resolution order is fixed: the first shape yielding a value wins.
var relationShapes = []relationShape{
	nestedWrapperTarget,
	wrapperInlineTarget,
	inlineTarget,
}

// rel.data.attributes (Strapi v4 populate)
func nestedWrapperTarget(parent map[string]any, rel string) (map[string]any, bool) {
	wrapper, ok := asMap(parent[rel])
	if !ok {
		return nil, false
	}
	data, ok := asMap(wrapper["data"])
	if !ok {
		return nil, false
	}
	return asMap(data["attributes"])
}

// rel.data
func wrapperInlineTarget(parent map[string]any, rel string) (map[string]any, bool) {
	wrapper, ok := asMap(parent[rel])
	if !ok {
		return nil, false
	}
	return asMap(wrapper["data"])
}

// rel (Strapi v5 populate)
func inlineTarget(parent map[string]any, rel string) (map[string]any, bool) {
	return asMap(parent[rel])
}

// collectionShape extracts the items of a to-many relation in one encoding.
type collectionShape func(parent map[string]any, rel string) ([]any, bool)

var collectionShapes = []collectionShape{
	wrappedCollection,
	inlineCollection,
}

func wrappedCollection(parent map[string]any, rel string) ([]any, bool) {
	wrapper, ok := asMap(parent[rel])
	if !ok {
		return nil, false
	}
	return asList(wrapper["data"])
}

func inlineCollection(parent map[string]any, rel string) ([]any, bool) {
	return asList(parent[rel])
}

// resolveString walks path through relations, trying every shape at each hop,
// and returns the first non-empty leaf.
func resolveString(parent map[string]any, path []string, leaf string) string {
	if len(path) == 0 {
		return str(parent[leaf])
	}
	for _, shape := range relationShapes {
		target, ok := shape(parent, path[0])
		if !ok {
			continue
		}
		if v := resolveString(target, path[1:], leaf); v != "" {
			return v
		}
	}
	return ""
}

// resolveNames maps a to-many relation to the leaf field of every item.
func resolveNames(parent map[string]any, rel, leaf string) []string {
	for _, shape := range collectionShapes {
		items, ok := shape(parent, rel)
		if !ok {
			continue
		}
		names := make([]string, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				if s != "" {
					names = append(names, s)
				}
				continue
			}
			m, ok := asMap(item)
			if !ok {
				continue
			}
			if name := str(attributes(m)[leaf]); name != "" {
				names = append(names, name)
			}
		}
		if len(names) > 0 {
			return names
		}
	}
	return []string{}
}

// attributes returns the "attributes" bag when the record is wrapped,
// otherwise the record itself.
func attributes(rec map[string]any) map[string]any {
	if attrs, ok := asMap(rec["attributes"]); ok {
		return attrs
	}
	return rec
}

// Post flattens one raw blog record. Only a nil record is an error.
func (n *Normalizer) Post(rec map[string]any) (models.Post, error) {
	if rec == nil {
		return models.Post{}, ErrEmptyRecord
	}
	f := attributes(rec)

	title := str(f["title"])
	excerpt := str(f["excerpt"])
	content := str(f["content"])
	tags := resolveNames(f, "tags", "name")

	readingTime := toInt(f["readingTime"])
	if readingTime <= 0 {
		readingTime = utils.EstimateReadingTime(content)
	}

	authorImage := n.Defaults.AuthorImage
	if url := resolveString(f, []string{"author", "avatar"}, "url"); url != "" {
		authorImage = utils.ResolveImageURL(n.Origin, url)
	}

	featuredImage := n.Defaults.FeaturedImage
	if url := resolveString(f, []string{"featuredImage"}, "url"); url != "" {
		featuredImage = utils.ResolveImageURL(n.Origin, url)
	}

	featured, _ := f["featured"].(bool)

	return models.Post{
		ID:            toInt(rec["id"]),
		Title:         title,
		Slug:          str(f["slug"]),
		Excerpt:       excerpt,
		Content:       content,
		Author:        firstNonEmpty(resolveString(f, []string{"author"}, "name"), n.Defaults.AuthorName),
		AuthorImage:   authorImage,
		PublishedAt:   n.day(f["publishedAt"]),
		UpdatedAt:     n.day(f["updatedAt"]),
		ReadTime:      utils.FormatReadTime(readingTime),
		ReadingTime:   readingTime,
		Category:      firstNonEmpty(resolveString(f, []string{"category"}, "name"), n.Defaults.Category),
		Tags:          tags,
		FeaturedImage: featuredImage,
		SEO: models.SEO{
			MetaTitle:       firstNonEmpty(str(f["seoTitle"]), title),
			MetaDescription: firstNonEmpty(str(f["seoDescription"]), excerpt),
			Keywords:        tags,
		},
		Views:    toInt(f["views"]),
		Likes:    toInt(f["likes"]),
		Featured: featured,
	}, nil
}

// Posts flattens a list, skipping nil entries.
func (n *Normalizer) Posts(recs []map[string]any) []models.Post {
	posts := make([]models.Post, 0, len(recs))
	for _, rec := range recs {
		p, err := n.Post(rec)
		if err != nil {
			continue
		}
		posts = append(posts, p)
	}
	return posts
}

func (n *Normalizer) Author(rec map[string]any) (models.Author, error) {
	if rec == nil {
		return models.Author{}, ErrEmptyRecord
	}
	f := attributes(rec)

	var avatar string
	if url := resolveString(f, []string{"avatar"}, "url"); url != "" {
		avatar = utils.ResolveImageURL(n.Origin, url)
	}

	var links map[string]string
	if raw, ok := asMap(f["socialLinks"]); ok {
		for platform, v := range raw {
			if s := str(v); s != "" {
				if links == nil {
					links = make(map[string]string, len(raw))
				}
				links[platform] = s
			}
		}
	}

	return models.Author{
		ID:          toInt(rec["id"]),
		Name:        firstNonEmpty(str(f["name"]), n.Defaults.AuthorName),
		Email:       str(f["email"]),
		Bio:         str(f["bio"]),
		Avatar:      avatar,
		SocialLinks: links,
		Slug:        str(f["slug"]),
	}, nil
}

func (n *Normalizer) Category(rec map[string]any) (models.Category, error) {
	if rec == nil {
		return models.Category{}, ErrEmptyRecord
	}
	f := attributes(rec)
	return models.Category{
		ID:          toInt(rec["id"]),
		Name:        str(f["name"]),
		Description: str(f["description"]),
		Color:       str(f["color"]),
		Slug:        str(f["slug"]),
	}, nil
}

func (n *Normalizer) Tag(rec map[string]any) (models.Tag, error) {
	if rec == nil {
		return models.Tag{}, ErrEmptyRecord
	}
	f := attributes(rec)
	return models.Tag{
		ID:   toInt(rec["id"]),
		Name: str(f["name"]),
		Slug: str(f["slug"]),
	}, nil
}

func (n *Normalizer) day(v any) string {
	if s := str(v); s != "" {
		return utils.DatePart(s)
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	return now().Format(DateLayout)
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// asList accepts a list or a lone object standing in for a one-element list.
func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case map[string]any:
		if t == nil {
			return nil, false
		}
		return []any{t}, true
	}
	return nil, false
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// toInt reads JSON numbers in any decoded form; anything else is 0.
func toInt(v any) int {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil && !math.IsNaN(f) {
			return int(f)
		}
	case float64:
		return int(t)
	case int:
		return t
	case int64:
		return int(t)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return i
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
