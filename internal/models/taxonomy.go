package models

type Author struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Email       string            `json:"email"`
	Bio         string            `json:"bio,omitempty"`
	Avatar      string            `json:"avatar,omitempty"`
	SocialLinks map[string]string `json:"socialLinks,omitempty"` // platform -> URL
	Slug        string            `json:"slug"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Slug        string `json:"slug"`
}

type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
