package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qafariamirhossein/3d-portfolio/internal/cms"
	"github.com/qafariamirhossein/3d-portfolio/internal/services"
)

type BlogHandler struct {
	svc *services.BlogService
}

func NewBlogHandler(svc *services.BlogService) *BlogHandler {
	return &BlogHandler{svc: svc}
}

// List 文章列表: ?page=&pageSize=&sort=&featured=&category=&tags=&search=
func (h *BlogHandler) List(c *gin.Context) {
	q := cms.BlogQuery{
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "pageSize"),
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
		Tags:     queryList(c, "tags"),
		Search:   c.Query("search"),
	}
	if raw, ok := c.GetQuery("featured"); ok {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "featured must be true or false")
			return
		}
		q.Featured = cms.Bool(featured)
	}

	list, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		respondUpstream(c, err, "blog posts")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *BlogHandler) Featured(c *gin.Context) {
	posts, err := h.svc.Featured(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "featured posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": posts})
}

// Detail 文章详情，附带渲染后的 HTML
func (h *BlogHandler) Detail(c *gin.Context) {
	post, err := h.svc.Detail(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondUpstream(c, err, "blog post")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *BlogHandler) Categories(c *gin.Context) {
	cats, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *BlogHandler) Tags(c *gin.Context) {
	tags, err := h.svc.Tags(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "tags")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *BlogHandler) Author(c *gin.Context) {
	author, err := h.svc.Author(c.Request.Context())
	if err != nil {
		respondUpstream(c, err, "author")
		return
	}
	if author == nil {
		RespondError(c, http.StatusNotFound, "author not found")
		return
	}
	c.JSON(http.StatusOK, author)
}
