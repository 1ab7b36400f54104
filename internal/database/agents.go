package database

import (
	"context"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"gorm.io/gorm"
)

// AgentStore is the repository for sales agents.
type AgentStore struct {
	db *gorm.DB
}

func NewAgentStore(db *gorm.DB) *AgentStore {
	return &AgentStore{db: db}
}

func (s *AgentStore) List(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	if err := s.db.WithContext(ctx).Order("name, id").Find(&agents).Error; err != nil {
		return nil, classify("list agents", err)
	}
	return agents, nil
}

func (s *AgentStore) Get(ctx context.Context, id int64) (*models.Agent, error) {
	var a models.Agent
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, classify("get agent", err)
	}
	return &a, nil
}

func (s *AgentStore) Create(ctx context.Context, a *models.Agent) error {
	return classify("create agent", s.db.WithContext(ctx).Create(a).Error)
}

// Update writes name and phone, and applies image per its Keep/Replace/Delete action.
func (s *AgentStore) Update(ctx context.Context, id int64, name, phone string, image media.Update) (*models.Agent, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	columns := map[string]interface{}{"name": name, "phone_number": phone}
	for column, v := range (media.Updates{"image": image}).Columns() {
		columns[column] = v
	}
	if err := db.Model(&models.Agent{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return nil, classify("update agent", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the agent and detaches it from its properties.
func (s *AgentStore) Delete(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Property{}).Where("agent_id = ?", id).
			Update("agent_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Agent{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return classify("delete agent", err)
}
