package handlers

import (
	"mime/multipart"
	"net/http"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const agentImageField = "image"

// AgentHandler manages the agents shown on property pages.
type AgentHandler struct {
	agents AgentStore
	cache  Invalidator
	logger *zap.Logger
}

func NewAgentHandler(agents AgentStore, cache Invalidator, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{agents: agents, cache: cache, logger: logger}
}

func (h *AgentHandler) List(c *gin.Context) {
	agents, err := h.agents.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	out := make([]gin.H, 0, len(agents))
	for i := range agents {
		out = append(out, agentBody(&agents[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *AgentHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	agent, err := h.agents.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, agentBody(agent))
}

// Create handles the multipart POST /agents. The image is optional.
func (h *AgentHandler) Create(c *gin.Context) {
	form, err := multipartForm(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	agent, err := agentFromForm(form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images, err := media.ParseCreate(form, []string{agentImageField})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images.Apply(map[string]*[]byte{agentImageField: &agent.Image})

	if err := h.agents.Create(c.Request.Context(), agent); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusCreated, agentBody(agent))
}

// Update handles the multipart PUT /agents/:id; image_delete=true clears the photo.
func (h *AgentHandler) Update(c *gin.Context) {
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
	fields, err := agentFromForm(form)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	images, err := media.ParseUpdate(form, []string{agentImageField})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	agent, err := h.agents.Update(c.Request.Context(), id, fields.Name, fields.Phone, images.Get(agentImageField))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusOK, agentBody(agent))
}

// Delete handles DELETE /agents/:id; properties of the agent keep existing without one.
func (h *AgentHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.agents.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	invalidateCache(c.Request.Context(), h.cache, h.logger)
	c.JSON(http.StatusOK, gin.H{"message": "Agent deleted"})
}

func agentFromForm(form *multipart.Form) (*models.Agent, error) {
	name, _ := formValue(form, "name")
	if name == "" {
		return nil, invalid("name is required")
	}
	phone, _ := formValue(form, "phone_number")
	return &models.Agent{Name: name, Phone: phone}, nil
}
