package handlers

import (
	"fmt"
	"html"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/services"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

const feedItemLimit = 20

var (
	blockRe = regexp.MustCompile(`(?s)(<(?:p|div|h[1-6]|ul|ol|blockquote|pre)[^>]*>.*?</(?:p|div|h[1-6]|ul|ol|blockquote|pre)>)`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

type SEOHandler struct {
	svc         *services.BlogService
	siteURL     string
	imageOrigin string
}

func NewSEOHandler(svc *services.BlogService, siteURL, imageOrigin string) *SEOHandler {
	return &SEOHandler{svc: svc, siteURL: strings.TrimSuffix(siteURL, "/"), imageOrigin: imageOrigin}
}

// RobotsTxt 返回robots.txt内容
func (h *SEOHandler) RobotsTxt(c *gin.Context) {
	content := fmt.Sprintf(`User-agent: *
Allow: /

# JSON API
Disallow: /api/

Sitemap: %s/sitemap.xml
`, h.siteURL)

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, content)
}

// SitemapXML lists the landing page, the blog index and every post.
func (h *SEOHandler) SitemapXML(c *gin.Context) {
	posts, err := h.svc.All(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "sitemap")
		return
	}
	now := time.Now().Format(cms.DateLayout)

	xml := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`
	xml += sitemapURL(h.siteURL+"/", now, "weekly", 1.0)
	xml += sitemapURL(h.siteURL+"/blog", now, "daily", 0.9)

	for _, post := range posts {
		lastmod := post.UpdatedAt
		if lastmod == "" {
			lastmod = post.PublishedAt
		}

		// newer posts are crawled more often
		priority, changefreq := 0.6, "monthly"
		if published, err := time.Parse(cms.DateLayout, post.PublishedAt); err == nil {
			days := time.Since(published).Hours() / 24
			if days < 7 {
				priority, changefreq = 0.8, "daily"
			} else if days < 30 {
				priority, changefreq = 0.7, "weekly"
			}
		}
		xml += sitemapURL(h.postURL(post.Slug), lastmod, changefreq, priority)
	}

	xml += `</urlset>`

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.String(http.StatusOK, xml)
}

func sitemapURL(loc, lastmod, changefreq string, priority float64) string {
	return fmt.Sprintf(`  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>%s</changefreq>
    <priority>%.1f</priority>
  </url>
`, escapeXML(loc), escapeXML(lastmod), changefreq, priority)
}

// RSSFeed 生成RSS 2.0 feed
func (h *SEOHandler) RSSFeed(c *gin.Context) {
	posts, err := h.svc.All(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "feed")
		return
	}
	if len(posts) > feedItemLimit {
		posts = posts[:feedItemLimit]
	}

	author := "Amir Qafari"
	if a, err := h.svc.Author(c.Request.Context()); err == nil && a != nil {
		author = a.Name
	}

	rss := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>` + escapeXML(author) + ` | Blog</title>
    <link>` + escapeXML(h.siteURL) + `/blog</link>
    <description>Articles on 3D web experiences, React, TypeScript and the tooling around them</description>
    <language>en-us</language>
    <lastBuildDate>` + time.Now().Format(time.RFC1123Z) + `</lastBuildDate>
    <atom:link href="` + escapeXML(h.siteURL) + `/rss.xml" rel="self" type="application/rss+xml"/>
`

	for _, post := range posts {
		link := escapeXML(h.postURL(post.Slug))

		content := truncateByParagraph(utils.RenderMarkdown(post.Content, h.imageOrigin), 3)
		content += fmt.Sprintf(`<p><a href="%s">Continue reading →</a></p>`, link)

		pubDate := ""
		if published, err := time.Parse(cms.DateLayout, post.PublishedAt); err == nil {
			pubDate = published.Format(time.RFC1123Z)
		}

		rss += `    <item>
      <title>` + escapeXML(post.Title) + `</title>
      <link>` + link + `</link>
      <description><![CDATA[` + content + `]]></description>
      <author>` + escapeXML(post.Author) + `</author>
      <category>` + escapeXML(post.Category) + `</category>
      <pubDate>` + pubDate + `</pubDate>
      <guid isPermaLink="true">` + link + `</guid>
    </item>
`
	}

	rss += `  </channel>
</rss>`

	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.String(http.StatusOK, rss)
}

func (h *SEOHandler) postURL(slug string) string {
	return h.siteURL + "/blog/" + slug
}

func escapeXML(s string) string {
	return html.EscapeString(s)
}

// truncateByParagraph 按段落截取HTML，保留前几个完整块级元素
func truncateByParagraph(content string, maxBlocks int) string {
	matches := blockRe.FindAllString(content, maxBlocks)

	if len(matches) == 0 {
		// no block elements, fall back to plain text
		runes := []rune(stripHTML(content))
		if len(runes) > 300 {
			return string(runes[:300]) + "..."
		}
		return content
	}

	return strings.Join(matches, "\n")
}

func stripHTML(s string) string {
	return tagRe.ReplaceAllString(s, "")
}
