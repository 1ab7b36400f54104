package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	reviewImageField = "image"
	blogCoverField   = "cover"
)

// ContentHandler manages reviews and blog posts.
type ContentHandler struct {
	content ContentStore
	cache   Invalidator
	logger  *zap.Logger
}

func NewContentHandler(content ContentStore, cache Invalidator, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{content: content, cache: cache, logger: logger}
}

func (h *ContentHandler) ListReviews(c *gin.Context) {
	reviews, err := h.content.ListReviews(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out := make([]gin.H, 0, len(reviews))
	for i := range reviews {
		out = append(out, reviewBody(&reviews[i]))
	}
	c.JSON(http.StatusOK, out)
}

// CreateReview handles the multipart POST /reviews. rating defaults to 5.
func (h *ContentHandler) CreateReview(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	review := &models.Review{Rating: 5}
	review.Name, _ = formValue(form, "name")
	review.Designation, _ = formValue(form, "designation")
	review.Message, _ = formValue(form, "message")
	if review.Name == "" || review.Message == "" {
		respondError(c, h.logger, invalid("name and message are required"))
		return
	}
	if raw, ok := formValue(form, "rating"); ok && raw != "" {
		rating, err := strconv.Atoi(raw)
		if err != nil || rating < 1 || rating > 5 {
			respondError(c, h.logger, invalid("rating must be between 1 and 5"))
			return
		}
		review.Rating = rating
	}
	images, err := media.ParseCreate(form, []string{reviewImageField})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images.Apply(map[string]*[]byte{reviewImageField: &review.Image})

	if err := h.content.CreateReview(c.Request.Context(), review); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusCreated, reviewBody(review))
}

func (h *ContentHandler) DeleteReview(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.content.DeleteReview(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

func (h *ContentHandler) ListBlogs(c *gin.Context) {
	blogs, total, err := h.content.ListBlogs(c.Request.Context(), pageFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs, "total": total})
}

func (h *ContentHandler) GetBlog(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	b, err := h.content.GetBlog(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, blogBody(b))
}

// CreateBlog handles the multipart POST /blogs. A taken slug answers 409.
func (h *ContentHandler) CreateBlog(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	b, err := blogFromForm(form.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images, err := media.ParseCreate(form, []string{blogCoverField})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images.Apply(map[string]*[]byte{blogCoverField: &b.Cover})

	if err := h.content.CreateBlog(c.Request.Context(), b); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusCreated, blogBody(b))
}

// UpdateBlog handles the multipart PUT /blogs/:id; cover_delete=true clears the cover.
func (h *ContentHandler) UpdateBlog(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	form, err := multipartForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	fields, err := blogFromForm(form.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images, err := media.ParseUpdate(form, []string{blogCoverField})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	b, err := h.content.UpdateBlog(c.Request.Context(), id, fields, images.Get(blogCoverField))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusOK, blogBody(b))
}

func (h *ContentHandler) DeleteBlog(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.content.DeleteBlog(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted"})
}

func blogFromForm(values map[string][]string) (*models.Blog, error) {
	first := func(key string) string {
		if v := values[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	b := &models.Blog{
		Title:   strings.TrimSpace(first("title")),
		Slug:    strings.TrimSpace(first("slug")),
		Author:  strings.TrimSpace(first("author")),
		Content: first("content"),
	}
	if err := requireFields(map[string]string{
		"title": b.Title, "slug": b.Slug, "content": b.Content,
	}, "title", "slug", "content"); err != nil {
		return nil, err
	}
	return b, nil
}

func blogBody(b *models.Blog) gin.H {
	return gin.H{
		"id":         b.ID,
		"title":      b.Title,
		"slug":       b.Slug,
		"author":     b.Author,
		"content":    b.Content,
		"cover":      media.NewPayload(b.Cover),
		"created_at": b.CreatedAt,
		"updated_at": b.UpdatedAt,
	}
}
