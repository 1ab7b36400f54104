package handlers

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"hl-portal/internal/blog"
	"hl-portal/internal/database"
	"hl-portal/internal/mailer"
	"hl-portal/internal/media"
	"hl-portal/internal/models"
	"hl-portal/internal/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const similarLimit = 3

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// leadingNumber matches the numeric prefix of free-text sizes such as "1,250 sqft".
var leadingNumber = regexp.MustCompile(`^\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

// PublicHandler serves the marketing site.
type PublicHandler struct {
	properties PropertyStore
	leads      LeadStore
	content    ContentStore
	searcher   Searcher
	notifier   mailer.Notifier
	logger     *zap.Logger
}

// PublicDeps are the collaborators of PublicHandler. Searcher may be nil.
type PublicDeps struct {
	Properties PropertyStore
	Leads      LeadStore
	Content    ContentStore
	Searcher   Searcher
	Notifier   mailer.Notifier
	Logger     *zap.Logger
}

func NewPublicHandler(d PublicDeps) *PublicHandler {
	notifier := d.Notifier
	if notifier == nil {
		notifier = mailer.Nop{}
	}
	return &PublicHandler{
		properties: d.Properties,
		leads:      d.Leads,
		content:    d.Content,
		searcher:   d.Searcher,
		notifier:   notifier,
		logger:     d.Logger,
	}
}

// ListProperties handles GET /properties.
func (h *PublicHandler) ListProperties(c *gin.Context) {
	properties, err := h.properties.ListPublic(c.Request.Context(), database.PublicFilter{
		Location:      c.Query("location"),
		ProjectStatus: c.Query("project_status"),
		FromHomepage:  strings.EqualFold(c.Query("from_homepage"), "true"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cardBodies(properties))
}

// PropertyDetail handles GET /sproperties?slug=.
// Properties without an amenity row or an agent are still returned.
func (h *PublicHandler) PropertyDetail(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		respondError(c, h.logger, invalid("slug is required"))
		return
	}
	detail, err := h.properties.Detail(c.Request.Context(), slug)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	property, err := publicDetailBody(&detail.Property)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	body := gin.H{"property": property, "amenities": nil, "agent": nil}
	if detail.Amenity != nil {
		body["amenities"] = detail.Amenity
	}
	if detail.Agent != nil {
		body["agent"] = agentBody(detail.Agent)
	}
	c.JSON(http.StatusOK, body)
}

// SimilarProperties handles GET /similer?slug=&flat_size=.
func (h *PublicHandler) SimilarProperties(c *gin.Context) {
	slug := strings.TrimSpace(c.Query("slug"))
	if slug == "" {
		respondError(c, h.logger, invalid("slug is required"))
		return
	}
	size, ok := parseFlatSize(c.Query("flat_size"))
	if !ok {
		respondError(c, h.logger, invalid("flat_size must be a number"))
		return
	}
	properties, err := h.properties.Similar(c.Request.Context(), slug, size, similarLimit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, cardBodies(properties))
}

func parseFlatSize(s string) (float64, bool) {
	m := leadingNumber.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	return f, err == nil
}

// PropertyImage handles GET /properties/:id/images/:field and serves raw bytes.
// The content hash doubles as ETag.
func (h *PublicHandler) PropertyImage(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	field := c.Param("field")
	if !media.IsPropertyField(field) {
		respondError(c, h.logger, invalid("unknown image field %q", field))
		return
	}
	p, err := h.properties.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	payload := media.NewPayload(p.Image(field))
	if payload == nil {
		respondError(c, h.logger, database.ErrNotFound)
		return
	}
	etag := `"` + payload.Hash + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "public, max-age=300")
	if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, payload.Type, payload.Data)
}

// Locations handles GET /locations.
func (h *PublicHandler) Locations(c *gin.Context) {
	locations, err := h.properties.Locations(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locations})
}

// Search handles GET /search?q=.
func (h *PublicHandler) Search(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Search is not available"})
		return
	}
	result, err := h.searcher.Search(search.FilterParams{
		Query:         c.Query("q"),
		Location:      c.Query("location"),
		ProjectStatus: c.Query("project_status"),
		Limit:         int64(queryInt(c, "limit", 0)),
		Offset:        int64(queryInt(c, "offset", 0)),
	})
	if err != nil {
		h.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Search is not available"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type visitRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Message      string `json:"message"`
	PropertyName string `json:"property_name"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func requireFields(fields map[string]string, order ...string) error {
	var missing []string
	for _, name := range order {
		if strings.TrimSpace(fields[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return invalid("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

func validEmail(email string) error {
	if !emailPattern.MatchString(strings.TrimSpace(email)) {
		return invalid("invalid email address")
	}
	return nil
}

// CreateVisit handles POST /visit. The notification email is best effort.
func (h *PublicHandler) CreateVisit(c *gin.Context) {
	var req visitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalid("invalid request body"))
		return
	}
	if err := requireFields(map[string]string{
		"name": req.Name, "email": req.Email, "phone": req.Phone,
	}, "name", "email", "phone"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := validEmail(req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}

	visit := &models.Visit{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		Phone:        strings.TrimSpace(req.Phone),
		Date:         req.Date,
		Time:         req.Time,
		Message:      req.Message,
		PropertyName: req.PropertyName,
	}
	if err := h.leads.CreateVisit(c.Request.Context(), visit); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.notifier.NotifyVisit(c.Request.Context(), visit); err != nil {
		h.logger.Warn("visit notification failed", zap.Int64("visit_id", visit.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Visit request received", "id": visit.ID})
}

// CreateContact handles POST /contact. The notification email is best effort.
func (h *PublicHandler) CreateContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalid("invalid request body"))
		return
	}
	if err := requireFields(map[string]string{
		"name": req.Name, "email": req.Email, "message": req.Message,
	}, "name", "email", "message"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := validEmail(req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}

	contact := &models.Contact{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := h.leads.CreateContact(c.Request.Context(), contact); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.notifier.NotifyContact(c.Request.Context(), contact); err != nil {
		h.logger.Warn("contact notification failed", zap.Int64("contact_id", contact.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message received", "id": contact.ID})
}

// Subscribe handles POST /newsletter. A repeated email is accepted with 200.
func (h *PublicHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalid("invalid request body"))
		return
	}
	if err := validEmail(req.Email); err != nil {
		respondError(c, h.logger, err)
		return
	}
	created, err := h.leads.Subscribe(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Already subscribed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed"})
}

// ListReviews handles GET /reviews.
func (h *PublicHandler) ListReviews(c *gin.Context) {
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

// ListBlogs handles GET /blogs with excerpts instead of full content.
func (h *PublicHandler) ListBlogs(c *gin.Context) {
	blogs, total, err := h.content.ListBlogs(c.Request.Context(), database.Page{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 0),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	items := make([]gin.H, 0, len(blogs))
	for _, b := range blogs {
		summary, err := blog.Summarize(b.Content, blog.DefaultExcerptRunes)
		if err != nil {
			h.logger.Warn("blog summary failed", zap.Int64("blog_id", b.ID), zap.Error(err))
		}
		items = append(items, gin.H{
			"id":              b.ID,
			"title":           b.Title,
			"slug":            b.Slug,
			"author":          b.Author,
			"excerpt":         summary.Excerpt,
			"first_image":     summary.FirstImage,
			"reading_minutes": summary.ReadingMinutes,
			"created_at":      b.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"blogs": items, "total": total})
}

// GetBlog handles GET /blogs/:slug.
func (h *PublicHandler) GetBlog(c *gin.Context) {
	b, err := h.content.GetBlogBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	summary, err := blog.Summarize(b.Content, blog.DefaultExcerptRunes)
	if err != nil {
		h.logger.Warn("blog summary failed", zap.Int64("blog_id", b.ID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{
		"id":              b.ID,
		"title":           b.Title,
		"slug":            b.Slug,
		"author":          b.Author,
		"content":         b.Content,
		"cover":           media.NewPayload(b.Cover),
		"excerpt":         summary.Excerpt,
		"reading_minutes": summary.ReadingMinutes,
		"created_at":      b.CreatedAt,
		"updated_at":      b.UpdatedAt,
	})
}
