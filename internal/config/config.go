package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultStrapiURL = "http://localhost:1337"
	DefaultPort      = "8080"
	DefaultSiteURL   = "http://localhost:5173"

	SourceCMS    = "cms"
	SourceStatic = "static"
)

// Config 运行时配置，全部来自环境变量
type Config struct {
	StrapiURL      string        // CMS origin, without the /api suffix
	APIToken       string        // bearer token used by the seed CLI
	Port           string        // HTTP listen port
	SiteURL        string        // public URL used by sitemap/rss
	ContentSource  string        // "cms" or "static"
	BlogDataPath   string        // override for the bundled blog.json
	DatabaseURL    string        // seed ledger DSN, empty disables the ledger
	AllowedOrigins []string      // CORS origins for the SPA
	CacheTTL       time.Duration // read cache TTL, 0 disables caching
	CMSTimeout     time.Duration // HTTP client timeout for CMS calls
	StaticDir      string        // built SPA assets
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	strapiURL := os.Getenv("STRAPI_URL")
	if strapiURL == "" {
		// the SPA build uses the Vite-prefixed name
		strapiURL = os.Getenv("VITE_STRAPI_URL")
	}
	if strapiURL == "" {
		strapiURL = DefaultStrapiURL
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}

	siteURL := os.Getenv("SITE_URL")
	if siteURL == "" {
		siteURL = DefaultSiteURL
	}

	source := strings.ToLower(strings.TrimSpace(os.Getenv("CONTENT_SOURCE")))
	if source != SourceStatic {
		source = SourceCMS
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./dist"
	}

	return &Config{
		StrapiURL:      strings.TrimSuffix(strapiURL, "/"),
		APIToken:       os.Getenv("STRAPI_API_TOKEN"),
		Port:           port,
		SiteURL:        strings.TrimSuffix(siteURL, "/"),
		ContentSource:  source,
		BlogDataPath:   os.Getenv("BLOG_DATA_PATH"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		CacheTTL:       durationEnv("CACHE_TTL", time.Minute),
		CMSTimeout:     durationEnv("CMS_TIMEOUT", 30*time.Second),
		StaticDir:      staticDir,
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
