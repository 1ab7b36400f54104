package database

import (
	"context"

	"hl-portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AmenityStore reads and writes the amenity row that shares a property's id.
type AmenityStore struct {
	db *gorm.DB
}

func NewAmenityStore(db *gorm.DB) *AmenityStore {
	return &AmenityStore{db: db}
}

func (s *AmenityStore) Get(ctx context.Context, propertyID int64) (*models.Amenity, error) {
	var a models.Amenity
	if err := s.db.WithContext(ctx).First(&a, propertyID).Error; err != nil {
		return nil, classify("get amenities", err)
	}
	return &a, nil
}

// Upsert writes every column of a, keyed by the property id.
// The property must exist.
func (s *AmenityStore) Upsert(ctx context.Context, a *models.Amenity) error {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Property{}).Where("id = ?", a.ID).Count(&count).Error; err != nil {
		return classify("find property", err)
	}
	if count == 0 {
		return classify("find property", gorm.ErrRecordNotFound)
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(a).Error
	return classify("upsert amenities", err)
}

func (s *AmenityStore) Delete(ctx context.Context, propertyID int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", propertyID).Delete(&models.Amenity{})
	if res.Error != nil {
		return classify("delete amenities", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete amenities", gorm.ErrRecordNotFound)
	}
	return nil
}
