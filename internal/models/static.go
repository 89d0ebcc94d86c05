package models

// StaticDocument is the bundled blog.json shipped with the site.
type StaticDocument struct {
	Blogs []StaticPost `json:"blogs"`
}

// StaticPost 对应 blog.json 中的单篇文章
type StaticPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	Author        string    `json:"author,omitempty"`
	AuthorImage   string    `json:"authorImage,omitempty"`
	ReadTime      string    `json:"readTime"` // "<N> min read"
	Category      string    `json:"category"`
	Tags          []string  `json:"tags"`
	SEO           StaticSEO `json:"seo"`
	PublishedAt   string    `json:"publishedAt"`
	UpdatedAt     string    `json:"updatedAt,omitempty"`
	FeaturedImage string    `json:"featuredImage"`
	Featured      bool      `json:"featured,omitempty"`
}

type StaticSEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords,omitempty"`
}

// SeedManifest carries the records the static document does not describe:
// the author and the curated category list.
type SeedManifest struct {
	Author     AuthorInput     `json:"author"`
	Categories []CategoryInput `json:"categories"`
}

// AuthorInput is the create payload for an author.
type AuthorInput struct {
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Slug        string            `json:"slug"`
	Bio         string            `json:"bio,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"`
}

type CategoryInput struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
}

type TagInput struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PostInput is the create payload for a blog post. Relations are numeric CMS ids.
type PostInput struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Excerpt        string `json:"excerpt"`
	Content        string `json:"content"`
	ReadingTime    int    `json:"readingTime"`
	SEOTitle       string `json:"seoTitle,omitempty"`
	SEODescription string `json:"seoDescription,omitempty"`
	Featured       bool   `json:"featured"`
	PublishedAt    string `json:"publishedAt,omitempty"`
	Author         int    `json:"author,omitempty"`
	Category       int    `json:"category,omitempty"`
	Tags           []int  `json:"tags"`

	// CategoryName and TagNames are resolved to ids right before creation.
	CategoryName string   `json:"-"`
	TagNames     []string `json:"-"`
}
