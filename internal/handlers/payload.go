package handlers

import (
	"encoding/json"
	"strconv"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"github.com/gin-gonic/gin"
)

// propertyBody is the JSON form of a property: its text columns plus one
// {type, data, hash} payload (or null) per requested image column.
func propertyBody(p *models.Property, imageColumns []string) (gin.H, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	body := gin.H{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}
	for column, payload := range media.Payloads(p.Images(), imageColumns) {
		body[column] = payload
	}
	return body, nil
}

func propertyBodies(properties []models.Property, imageColumns []string) ([]gin.H, error) {
	out := make([]gin.H, 0, len(properties))
	for i := range properties {
		body, err := propertyBody(&properties[i], imageColumns)
		if err != nil {
			return nil, err
		}
		out = append(out, body)
	}
	return out, nil
}

// cardBody is a public listing entry. It carries only the columns the listing
// queries select, see models.PublicColumns.
func cardBody(p *models.Property) gin.H {
	return gin.H{
		"id":                 p.ID,
		"name":               p.Name,
		"slug":               p.Slug,
		"home_serial":        p.HomeSerial,
		"address":            p.Address,
		"land_area":          p.LandArea,
		"flat_size":          p.FlatSize,
		"building_type":      p.BuildingType,
		"project_status":     p.ProjectStatus,
		"location":           p.Location,
		media.ThumbnailField: media.NewPayload(p.ImgThub),
	}
}

func cardBodies(properties []models.Property) []gin.H {
	out := make([]gin.H, 0, len(properties))
	for i := range properties {
		out = append(out, cardBody(&properties[i]))
	}
	return out
}

// publicDetailBody is the property page body. The owning dashboard user stays internal.
func publicDetailBody(p *models.Property) (gin.H, error) {
	body, err := propertyBody(p, media.PropertyFields)
	if err != nil {
		return nil, err
	}
	delete(body, "user_id")
	return body, nil
}

func agentBody(a *models.Agent) gin.H {
	return gin.H{
		"id":           a.ID,
		"name":         a.Name,
		"phone_number": a.Phone,
		"image":        media.NewPayload(a.Image),
	}
}

func reviewBody(r *models.Review) gin.H {
	return gin.H{
		"id":          r.ID,
		"name":        r.Name,
		"designation": r.Designation,
		"rating":      r.Rating,
		"message":     r.Message,
		"image":       media.NewPayload(r.Image),
		"created_at":  r.CreatedAt,
	}
}

func parseID(c *gin.Context, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, invalid("invalid %s", param)
	}
	return id, nil
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
