package services

import (
	"time"

	"github.com/qafariamirhossein/3d-portfolio/internal/models"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

// isoLayout matches what the CMS stores for publishedAt.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Dataset is everything one seed run writes, in write order.
type Dataset struct {
	Author     models.AuthorInput     `json:"author"`
	Categories []models.CategoryInput `json:"categories"`
	Tags       []models.TagInput      `json:"tags"`
	Posts      []models.PostInput     `json:"posts"`
}

// BuildDataset derives the seed payloads from the static document and the
// manifest. Categories used by posts but absent from the manifest are added
// with a slugified name.
func BuildDataset(doc *models.StaticDocument, manifest *models.SeedManifest) *Dataset {
	if manifest == nil {
		manifest = &models.SeedManifest{}
	}
	ds := &Dataset{
		Author:     manifest.Author,
		Categories: append([]models.CategoryInput(nil), manifest.Categories...),
	}

	knownCategory := make(map[string]bool, len(ds.Categories))
	for _, c := range ds.Categories {
		knownCategory[c.Name] = true
	}
	seenTag := map[string]bool{}

	for _, bp := range doc.Blogs {
		if bp.Category != "" && !knownCategory[bp.Category] {
			knownCategory[bp.Category] = true
			ds.Categories = append(ds.Categories, models.CategoryInput{
				Name: bp.Category,
				Slug: utils.Slugify(bp.Category),
			})
		}

		for _, tag := range bp.Tags {
			if tag == "" || seenTag[tag] {
				continue
			}
			seenTag[tag] = true
			ds.Tags = append(ds.Tags, models.TagInput{Name: tag, Slug: utils.TagSlug(tag)})
		}

		readingTime := utils.ParseReadTime(bp.ReadTime)
		if readingTime <= 0 {
			readingTime = utils.EstimateReadingTime(bp.Content)
		}

		ds.Posts = append(ds.Posts, models.PostInput{
			Title:          bp.Title,
			Slug:           bp.Slug,
			Excerpt:        bp.Excerpt,
			Content:        bp.Content,
			ReadingTime:    readingTime,
			SEOTitle:       bp.SEO.MetaTitle,
			SEODescription: bp.SEO.MetaDescription,
			Featured:       bp.Featured,
			PublishedAt:    toISO(bp.PublishedAt),
			CategoryName:   bp.Category,
			TagNames:       bp.Tags,
		})
	}
	return ds
}

// toISO widens a calendar day to a UTC timestamp. Values that already carry
// a time, or that cannot be parsed, pass through unchanged.
func toISO(value string) string {
	if value == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC().Format(isoLayout)
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC().Format(isoLayout)
	}
	return value
}
