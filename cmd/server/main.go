package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/config"
	"github.com/qafariamirhossein/3d-portfolio/internal/handlers"
	"github.com/qafariamirhossein/3d-portfolio/internal/router"
	"github.com/qafariamirhossein/3d-portfolio/internal/services"
	"github.com/qafariamirhossein/3d-portfolio/internal/static"
	"github.com/qafariamirhossein/3d-portfolio/internal/utils"
)

func main() {
	cfg := config.Load()

	var (
		source      services.BlogSource
		pinger      handlers.Pinger
		imageOrigin string // static posts reference site-relative assets
	)
	switch cfg.ContentSource {
	case config.SourceStatic:
		doc, err := static.Load(cfg.BlogDataPath)
		if err != nil {
			log.Fatalf("Failed to load static blog data: %v", err)
		}
		manifest, err := static.LoadManifest("")
		if err != nil {
			log.Fatalf("Failed to load seed manifest: %v", err)
		}
		source = static.NewStore(doc, manifest)
		log.Printf("Serving %d posts from static data", len(doc.Blogs))
	default:
		client := cms.NewClient(cfg.StrapiURL,
			cms.WithToken(cfg.APIToken),
			cms.WithHTTPClient(&http.Client{Timeout: cfg.CMSTimeout}),
		)
		source, pinger = client, client
		imageOrigin = cfg.StrapiURL
		log.Printf("Serving posts from CMS at %s", cfg.StrapiURL)
	}

	blogs := services.NewBlogService(source, utils.GetCache(), cfg.CacheTTL, imageOrigin)

	r := gin.Default()
	router.RegisterRoutes(r, router.Deps{
		Blogs:          blogs,
		Source:         cfg.ContentSource,
		Pinger:         pinger,
		SiteURL:        cfg.SiteURL,
		ImageOrigin:    imageOrigin,
		AllowedOrigins: cfg.AllowedOrigins,
		CacheTTL:       cfg.CacheTTL,
		StaticDir:      cfg.StaticDir,
	})

	log.Printf("Portfolio server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
