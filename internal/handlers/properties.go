package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"hl-portal/internal/auth"
	"hl-portal/internal/database"
	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// PropertyHandler is the dashboard CRUD over properties and their amenities.
type PropertyHandler struct {
	properties PropertyStore
	amenities  AmenityStore
	indexer    Indexer
	cache      Invalidator
	logger     *zap.Logger
}

// NewPropertyHandler creates a property handler. indexer and cache may be nil.
func NewPropertyHandler(properties PropertyStore, amenities AmenityStore, indexer Indexer, cache Invalidator, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		amenities:  amenities,
		indexer:    indexer,
		cache:      cache,
		logger:     logger,
	}
}

// List handles GET /properties?page=&pageSize=&user_id=&project_status=&location=.
func (h *PropertyHandler) List(c *gin.Context) {
	filter := database.ListFilter{
		Page:          queryInt(c, "page", 1),
		PageSize:      queryInt(c, "pageSize", 0),
		ProjectStatus: c.Query("project_status"),
		Location:      c.Query("location"),
	}
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" && raw != database.NoFilter {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(c, h.logger, invalid("invalid user_id"))
			return
		}
		filter.UserID = &id
	}
	filter = filter.Normalize()

	properties, total, err := h.properties.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	body, err := propertyBodies(properties, []string{media.ThumbnailField})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"properties": body,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
	})
}

// Get handles GET /properties/:id with every image column.
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	p, err := h.properties.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.respondProperty(c, http.StatusOK, p)
}

// Create handles the multipart POST /properties. img_thub is required.
func (h *PropertyHandler) Create(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	p := &models.Property{}
	var missing []string
	for _, column := range models.TextColumns {
		value, _ := formValue(form, column)
		p.SetText(column, value)
	}
	for _, column := range models.RequiredTextColumns {
		if value, _ := formValue(form, column); value == "" {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		respondError(c, h.logger, invalid("missing required fields: %s", strings.Join(missing, ", ")))
		return
	}
	if p.HomeSerial, err = optionalInt(form, "home_serial"); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p.AgentID, err = optionalID(form, "agent_id"); err != nil {
		respondError(c, h.logger, err)
		return
	}

	images, err := media.ParseCreate(form, media.PropertyFields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if images.Get(media.ThumbnailField).Action != media.Replace {
		respondError(c, h.logger, invalid("%s is required", media.ThumbnailField))
		return
	}
	images.Apply(p.Images())

	if claims, ok := auth.CurrentClaims(c); ok {
		uid := claims.UserID
		p.UserID = &uid
	}

	created, err := h.properties.Create(c.Request.Context(), p)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("property created", zap.Int64("property_id", created.ID), zap.String("slug", created.Slug))
	h.afterWrite(c.Request.Context(), created)
	h.respondProperty(c, http.StatusCreated, created)
}

// Update handles the multipart PUT /properties/:id. Text fields that are not
// sent stay as stored; images follow the Keep/Replace/Delete form rules.
func (h *PropertyHandler) Update(c *gin.Context) {
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

	fields, err := updateFields(form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images, err := media.ParseUpdate(form, media.PropertyFields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if len(fields) == 0 && !images.Changed() {
		current, err := h.properties.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		h.respondProperty(c, http.StatusOK, current)
		return
	}

	updated, err := h.properties.Update(c.Request.Context(), id, fields, images)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.afterWrite(c.Request.Context(), updated)
	h.respondProperty(c, http.StatusOK, updated)
}

// updateFields collects the text and numeric columns present in an edit form.
func updateFields(form *multipart.Form) (map[string]interface{}, error) {
	fields := make(map[string]interface{})
	required := make(map[string]bool, len(models.RequiredTextColumns))
	for _, column := range models.RequiredTextColumns {
		required[column] = true
	}
	for _, column := range models.TextColumns {
		value, ok := formValue(form, column)
		if !ok {
			continue
		}
		if value == "" && required[column] {
			return nil, invalid("%s cannot be empty", column)
		}
		fields[column] = value
	}
	if _, ok := formValue(form, "home_serial"); ok {
		serial, err := optionalInt(form, "home_serial")
		if err != nil {
			return nil, err
		}
		fields["home_serial"] = serial
	}
	if _, ok := formValue(form, "agent_id"); ok {
		agentID, err := optionalID(form, "agent_id")
		if err != nil {
			return nil, err
		}
		fields["agent_id"] = agentID
	}
	return fields, nil
}

// Delete handles DELETE /properties/:id. A property without amenities is deleted too.
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.properties.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Info("property deleted", zap.Int64("property_id", id))
	if h.indexer != nil {
		if err := h.indexer.DeleteProperty(id); err != nil {
			h.logger.Warn("search delete failed", zap.Int64("property_id", id), zap.Error(err))
		}
	}
	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted"})
}

type swapRequest struct {
	A database.SerialAssignment `json:"a"`
	B database.SerialAssignment `json:"b"`
}

// SwapSerials handles POST /properties/swap-serial. Both serials change or neither does.
func (h *PropertyHandler) SwapSerials(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, invalid("body must be {a: {id, home_serial}, b: {id, home_serial}}"))
		return
	}
	if req.A.ID == req.B.ID {
		respondError(c, h.logger, invalid("cannot swap a property with itself"))
		return
	}
	if err := h.properties.SwapSerials(c.Request.Context(), req.A, req.B); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Home serials updated"})
}

// GetAmenities handles GET /properties/:id/amenities. A property that has no
// amenity row yet gets an all-unset record.
func (h *PropertyHandler) GetAmenities(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amenity, err := h.amenities.Get(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		amenity, err = &models.Amenity{ID: id}, nil
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, amenity)
}

// PutAmenities handles PUT /properties/:id/amenities with a JSON or form body.
// Every column is written; columns left out become unset.
func (h *PropertyHandler) PutAmenities(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	var amenity *models.Amenity
	switch c.ContentType() {
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		amenity, err = amenityFromForm(c)
	default:
		amenity = &models.Amenity{}
		if bindErr := c.ShouldBindJSON(amenity); bindErr != nil {
			err = invalid("invalid amenities: %v", bindErr)
		}
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	amenity.ID = id
	if err := h.amenities.Upsert(c.Request.Context(), amenity); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, amenity)
}

// amenityFromForm reads counts as integers and flags in their stored 0/1 encoding.
func amenityFromForm(c *gin.Context) (*models.Amenity, error) {
	a := &models.Amenity{}
	counts := map[string]**int{
		"bedrooms":  &a.Bedrooms,
		"bathrooms": &a.Bathrooms,
		"balconies": &a.Balconies,
	}
	for column, dst := range counts {
		raw := strings.TrimSpace(c.PostForm(column))
		if raw == "" || strings.EqualFold(raw, "null") {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, invalid("%s must be an integer", column)
		}
		*dst = &n
	}
	for column, dst := range a.Flags() {
		flag, err := models.ParseAmenityFlag(c.PostForm(column))
		if err != nil {
			return nil, invalid("%s must be 0, 1 or empty", column)
		}
		*dst = flag
	}
	return a, nil
}

// DeleteAmenities handles DELETE /properties/:id/amenities and resets every amenity to unset.
func (h *PropertyHandler) DeleteAmenities(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.amenities.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Amenities cleared"})
}

func (h *PropertyHandler) respondProperty(c *gin.Context, status int, p *models.Property) {
	body, err := propertyBody(p, media.PropertyFields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(status, body)
}

// afterWrite mirrors a saved property into search and drops cached pages.
// Failures are logged; the database write already succeeded.
func (h *PropertyHandler) afterWrite(ctx context.Context, p *models.Property) {
	if h.indexer != nil {
		if err := h.indexer.IndexProperty(p); err != nil {
			h.logger.Warn("search index failed", zap.Int64("property_id", p.ID), zap.Error(err))
		}
	}
	h.invalidate(ctx)
}

func (h *PropertyHandler) invalidate(ctx context.Context) {
	invalidateCache(ctx, h.cache, h.logger)
}

func invalidateCache(ctx context.Context, cache Invalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

// formValue returns the trimmed first value of key and whether it was sent.
func formValue(form *multipart.Form, key string) (string, bool) {
	if form == nil {
		return "", false
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

// optionalInt parses a nullable integer field; "", "null" and absence mean NULL.
func optionalInt(form *multipart.Form, key string) (*int, error) {
	value, _ := formValue(form, key)
	if value == "" || strings.EqualFold(value, "null") {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, invalid("%s must be an integer", key)
	}
	return &n, nil
}

func optionalID(form *multipart.Form, key string) (*int64, error) {
	value, _ := formValue(form, key)
	if value == "" || strings.EqualFold(value, "null") {
		return nil, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil || n <= 0 {
		return nil, invalid("%s must be a positive integer", key)
	}
	return &n, nil
}
