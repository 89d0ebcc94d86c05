package cms

import (
	"net/url"
	"strconv"
	"strings"
)

// BlogQuery is a structured filter request for /api/blogs. Zero values are
// omitted from the query string; nothing is validated.
type BlogQuery struct {
	Page     int
	PageSize int
	Sort     string
	Featured *bool
	Category string
	Tags     []string
	Search   string
	Populate []string // empty means populate=*
}

type param struct {
	key, value string
}

// Params is an ordered query string in Strapi's bracket dialect.
type Params []param

func (p *Params) Add(key, value string) {
	*p = append(*p, param{key, value})
}

// Encode keeps bracket and dollar characters in keys readable and escapes values.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, kv := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escapeKey(kv.key))
		sb.WriteByte('=')
		sb.WriteString(escapeValue(kv.value))
	}
	return sb.String()
}

var keyUnescaper = strings.NewReplacer("%5B", "[", "%5D", "]", "%24", "$")

func escapeKey(key string) string {
	return keyUnescaper.Replace(url.QueryEscape(key))
}

// escapeValue leaves "*" readable so populate=* stays recognizable in logs.
func escapeValue(value string) string {
	return strings.ReplaceAll(url.QueryEscape(value), "%2A", "*")
}

// Params translates the query into ordered parameters.
func (q BlogQuery) Params() Params {
	var p Params

	if q.Page != 0 {
		p.Add("pagination[page]", strconv.Itoa(q.Page))
	}
	if q.PageSize != 0 {
		p.Add("pagination[pageSize]", strconv.Itoa(q.PageSize))
	}
	if q.Sort != "" {
		p.Add("sort", q.Sort)
	}

	if q.Featured != nil {
		p.Add("filters[featured][$eq]", strconv.FormatBool(*q.Featured))
	}
	if q.Category != "" {
		p.Add("filters[category][name][$eq]", q.Category)
	}
	for _, tag := range q.Tags {
		p.Add("filters[tags][name][$in]", tag)
	}
	if q.Search != "" {
		p.Add("filters[$or][0][title][$containsi]", q.Search)
		p.Add("filters[$or][1][excerpt][$containsi]", q.Search)
		p.Add("filters[$or][2][content][$containsi]", q.Search)
	}

	p = append(p, populateParams(q.Populate)...)
	return p
}

func (q BlogQuery) Encode() string {
	return q.Params().Encode()
}

// CacheKey identifies the query for read caches.
func (q BlogQuery) CacheKey() string {
	return "blogs?" + q.Encode()
}

// FieldFilter builds filters[field][$eq]=value.
func FieldFilter(field, value string) Params {
	var p Params
	p.Add("filters["+field+"][$eq]", value)
	return p
}

// SlugQuery is the lookup used for detail pages.
func SlugQuery(slug string, populate []string) Params {
	p := FieldFilter("slug", slug)
	return append(p, populateParams(populate)...)
}

func populateParams(relations []string) Params {
	var p Params
	if len(relations) == 0 {
		p.Add("populate", "*")
		return p
	}
	for i, rel := range relations {
		p.Add("populate["+strconv.Itoa(i)+"]", rel)
	}
	return p
}

// Bool is a helper for BlogQuery.Featured.
func Bool(v bool) *bool {
	return &v
}
