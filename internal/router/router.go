package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qafariamirhossein/3d-portfolio/internal/handlers"
	"github.com/qafariamirhossein/3d-portfolio/internal/middleware"
	"github.com/qafariamirhossein/3d-portfolio/internal/services"
)

// Deps is what the route table needs from main.
type Deps struct {
	Blogs          *services.BlogService
	Source         string
	Pinger         handlers.Pinger
	SiteURL        string
	ImageOrigin    string
	AllowedOrigins []string
	CacheTTL       time.Duration
	StaticDir      string // built SPA; empty disables the fallback
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	blogHandler := handlers.NewBlogHandler(d.Blogs)
	seoHandler := handlers.NewSEOHandler(d.Blogs, d.SiteURL, d.ImageOrigin)
	healthHandler := handlers.NewHealthHandler(d.Source, d.Pinger)

	// global so preflight requests, which match no route, still get answered
	r.Use(middleware.CORS(d.AllowedOrigins))

	r.GET("/healthz", healthHandler.Check)

	// SEO
	seo := r.Group("/")
	seo.Use(middleware.CacheControl(time.Hour))
	{
		seo.GET("/robots.txt", seoHandler.RobotsTxt)
		seo.GET("/sitemap.xml", seoHandler.SitemapXML)
		seo.GET("/rss.xml", seoHandler.RSSFeed)
	}

	// JSON API
	api := r.Group("/api")
	api.Use(middleware.CacheControl(d.CacheTTL))
	{
		api.GET("/blogs", blogHandler.List)              // 文章列表
		api.GET("/blogs/featured", blogHandler.Featured) // 精选文章
		api.GET("/blogs/:slug", blogHandler.Detail)      // 文章详情
		api.GET("/categories", blogHandler.Categories)   // 分类
		api.GET("/tags", blogHandler.Tags)               // 标签
		api.GET("/author", blogHandler.Author)           // 作者
	}

	r.NoRoute(spaFallback(d.StaticDir))
}

// spaFallback serves built assets and hands every other path to index.html
// so client-side routes like /blog/<slug> survive a reload.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			handlers.RespondError(c, http.StatusNotFound, "not found")
			return
		}

		file := filepath.Join(dir, filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err != nil {
			handlers.RespondError(c, http.StatusNotFound, "not found")
			return
		}
		c.File(index)
	}
}
