package models

// Post 扁平化后的文章视图模型，前端直接渲染
type Post struct {
	ID            int      `json:"id"`
	Title         string   `json:"title"`
	Slug          string   `json:"slug"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	ContentHTML   string   `json:"contentHtml,omitempty"` // only filled on detail reads
	Author        string   `json:"author"`
	AuthorImage   string   `json:"authorImage"`
	PublishedAt   string   `json:"publishedAt"` // YYYY-MM-DD
	UpdatedAt     string   `json:"updatedAt"`   // YYYY-MM-DD
	ReadTime      string   `json:"readTime"`    // "8 min read"
	ReadingTime   int      `json:"readingTime"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	FeaturedImage string   `json:"featuredImage"`
	SEO           SEO      `json:"seo"`
	Views         int      `json:"views"`
	Likes         int      `json:"likes"`
	Featured      bool     `json:"featured"`
}

type SEO struct {
	MetaTitle       string   `json:"metaTitle"`
	MetaDescription string   `json:"metaDescription"`
	Keywords        []string `json:"keywords"`
}

type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// PostList is one page of posts.
type PostList struct {
	Blogs      []Post     `json:"blogs"`
	Pagination Pagination `json:"pagination"`
}
