package handlers

import (
	"context"
	"net/http"
	"time"

	"hl-portal/internal/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves dashboard statistics and maintenance triggers
type AdminHandler struct {
	properties PropertyStore
	leads      LeadStore
	reindexer  Reindexer
	cache      Invalidator
	logger     *zap.Logger
	now        func() time.Time
}

// NewAdminHandler creates a new admin handler. reindexer and cache may be nil.
func NewAdminHandler(properties PropertyStore, leads LeadStore, reindexer Reindexer, cache Invalidator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		properties: properties,
		leads:      leads,
		reindexer:  reindexer,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
	}
}

// GetStats returns the dashboard counters
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	_, propertyTotal, err := h.properties.List(ctx, database.ListFilter{PageSize: 1})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// Recent leads (last 24 hours)
	recentVisits, err := h.leads.VisitsSince(ctx, h.now().Add(-24*time.Hour))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	_, visitTotal, err := h.leads.ListVisits(ctx, database.Page{PageSize: 1})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	_, contactTotal, err := h.leads.ListContacts(ctx, database.Page{PageSize: 1})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	subscribers, err := h.leads.ListSubscribers(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": gin.H{"total": propertyTotal},
		"visits": gin.H{
			"total":    visitTotal,
			"last_24h": len(recentVisits),
		},
		"contacts":    gin.H{"total": contactTotal},
		"subscribers": gin.H{"total": len(subscribers)},
	})
}

// TriggerReindex rebuilds the search index in the background
func (h *AdminHandler) TriggerReindex(c *gin.Context) {
	if h.reindexer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Search is not configured"})
		return
	}

	h.logger.Info("manual reindex requested", zap.String("request_id", c.GetString(requestIDKey)))

	// Run in goroutine to avoid blocking
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if err := h.reindexer.RunReindex(ctx); err != nil {
			h.logger.Error("manual reindex failed", zap.Error(err))
			return
		}
		invalidateCache(ctx, h.cache, h.logger)
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Reindex started",
		"status":  "running",
	})
}

// FlushCache drops every cached public response
func (h *AdminHandler) FlushCache(c *gin.Context) {
	if h.cache == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Cache is disabled"})
		return
	}
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cache flushed"})
}
