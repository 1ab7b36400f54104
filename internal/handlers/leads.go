package handlers

import (
	"fmt"
	"net/http"
	"time"

	"hl-portal/internal/database"
	"hl-portal/internal/export"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LeadHandler serves visits, contact messages and subscribers to sales.
type LeadHandler struct {
	leads  LeadStore
	logger *zap.Logger
	now    func() time.Time
}

func NewLeadHandler(leads LeadStore, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{leads: leads, logger: logger, now: time.Now}
}

func pageFrom(c *gin.Context) database.Page {
	return database.Page{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 0),
	}
}

func (h *LeadHandler) ListVisits(c *gin.Context) {
	visits, total, err := h.leads.ListVisits(c.Request.Context(), pageFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"visits": visits, "total": total})
}

func (h *LeadHandler) DeleteVisit(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.leads.DeleteVisit(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Visit deleted"})
}

// ExportVisits handles GET /visits/export and downloads every visit as xlsx.
func (h *LeadHandler) ExportVisits(c *gin.Context) {
	visits, err := h.leads.VisitsSince(c.Request.Context(), time.Time{})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	data, err := export.Visits(visits)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	filename := fmt.Sprintf("visits-%s.xlsx", h.now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, data)
}

func (h *LeadHandler) ListContacts(c *gin.Context) {
	contacts, total, err := h.leads.ListContacts(c.Request.Context(), pageFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "total": total})
}

func (h *LeadHandler) DeleteContact(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.leads.DeleteContact(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact deleted"})
}

func (h *LeadHandler) ListSubscribers(c *gin.Context) {
	subscribers, err := h.leads.ListSubscribers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": subscribers, "total": len(subscribers)})
}
