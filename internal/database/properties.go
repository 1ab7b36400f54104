package database

import (
	"context"
	"errors"
	"strings"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoFilter is the dashboard's "no filter" value for select inputs.
const NoFilter = "default"

// HomepageLimit caps the listing shown on the landing page.
const HomepageLimit = 9

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// serialOrder puts NULL home_serial rows after every numbered one.
const serialOrder = "CASE WHEN home_serial IS NULL THEN 1 ELSE 0 END, home_serial ASC, id ASC"

// flatSizeDistance reads the leading number of flat_size the way the handler
// parses the request value: thousands separators are dropped first.
const flatSizeDistance = "ABS(CAST(REPLACE(flat_size, ',', '') AS DECIMAL(12,2)) - ?), id"

// ListFilter selects a page of the admin property table.
type ListFilter struct {
	Page          int
	PageSize      int
	UserID        *int64
	ProjectStatus string
	Location      string
}

// Normalize clamps paging values and folds the "default" sentinel to empty.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	f.ProjectStatus = filterValue(f.ProjectStatus)
	f.Location = filterValue(f.Location)
	return f
}

// PublicFilter selects the marketing-site listing.
type PublicFilter struct {
	Location      string
	ProjectStatus string
	FromHomepage  bool
}

// SerialAssignment is one side of a home_serial reorder.
type SerialAssignment struct {
	ID         int64 `json:"id" binding:"required"`
	HomeSerial *int  `json:"home_serial"`
}

// PropertyDetail is a property with its optional amenity row and agent.
type PropertyDetail struct {
	Property models.Property
	Amenity  *models.Amenity
	Agent    *models.Agent
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, NoFilter) {
		return ""
	}
	return v
}

// PropertyStore is the MySQL repository for properties.
type PropertyStore struct {
	db *gorm.DB
}

func NewPropertyStore(db *gorm.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) scoped(ctx context.Context, userID *int64, status, location string) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Property{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if status != "" {
		q = q.Where("project_status = ?", status)
	}
	if location != "" {
		q = q.Where("location = ?", location)
	}
	return q
}

// List returns one page of properties and the number of rows matching the same filters.
func (s *PropertyStore) List(ctx context.Context, f ListFilter) ([]models.Property, int64, error) {
	f = f.Normalize()

	var total int64
	if err := s.scoped(ctx, f.UserID, f.ProjectStatus, f.Location).Count(&total).Error; err != nil {
		return nil, 0, classify("count properties", err)
	}

	properties := make([]models.Property, 0, f.PageSize)
	err := s.scoped(ctx, f.UserID, f.ProjectStatus, f.Location).
		Select(models.ListColumns).
		Order(serialOrder).
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&properties).Error
	if err != nil {
		return nil, 0, classify("list properties", err)
	}
	return properties, total, nil
}

// ListPublic returns the reduced listing for the marketing site.
func (s *PropertyStore) ListPublic(ctx context.Context, f PublicFilter) ([]models.Property, error) {
	q := s.scoped(ctx, nil, filterValue(f.ProjectStatus), filterValue(f.Location)).
		Select(models.PublicColumns).
		Order(serialOrder)
	if f.FromHomepage {
		q = q.Limit(HomepageLimit)
	}

	var properties []models.Property
	if err := q.Find(&properties).Error; err != nil {
		return nil, classify("list public properties", err)
	}
	return properties, nil
}

// All returns every property without image blobs, for search indexing.
func (s *PropertyStore) All(ctx context.Context) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.WithContext(ctx).
		Select(models.IndexColumns).
		Order(serialOrder).
		Find(&properties).Error
	if err != nil {
		return nil, classify("load properties", err)
	}
	return properties, nil
}

// Get returns one property with every image column.
func (s *PropertyStore) Get(ctx context.Context, id int64) (*models.Property, error) {
	var p models.Property
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, classify("get property", err)
	}
	return &p, nil
}

// GetBySlug returns one property by its public slug.
func (s *PropertyStore) GetBySlug(ctx context.Context, slug string) (*models.Property, error) {
	var p models.Property
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, classify("get property by slug", err)
	}
	return &p, nil
}

// Create inserts p and reads it back inside one transaction.
// Any failure rolls the insert back; a taken slug yields ErrDuplicate.
func (s *PropertyStore) Create(ctx context.Context, p *models.Property) (*models.Property, error) {
	var created models.Property
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.First(&created, p.ID).Error
	})
	if err != nil {
		return nil, classify("create property", err)
	}
	return &created, nil
}

// Update applies the given text columns and image updates to one property.
// Image columns not mentioned, or marked Keep, are left untouched.
func (s *PropertyStore) Update(ctx context.Context, id int64, fields map[string]interface{}, images media.Updates) (*models.Property, error) {
	db := s.db.WithContext(ctx)

	var existing models.Property
	if err := db.Select("id").First(&existing, id).Error; err != nil {
		return nil, classify("find property", err)
	}

	columns := images.Columns()
	for k, v := range fields {
		columns[k] = v
	}
	if len(columns) > 0 {
		if err := db.Model(&models.Property{}).Where("id = ?", id).Updates(columns).Error; err != nil {
			return nil, classify("update property", err)
		}
	}
	return s.Get(ctx, id)
}

// Delete removes the amenity row (if any) and then the property.
func (s *PropertyStore) Delete(ctx context.Context, id int64) error {
	db := s.db.WithContext(ctx)

	if err := db.Where("id = ?", id).Delete(&models.Amenity{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return classify("delete amenities", err)
	}

	res := db.Where("id = ?", id).Delete(&models.Property{})
	if res.Error != nil {
		return classify("delete property", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete property", gorm.ErrRecordNotFound)
	}
	return nil
}

// SwapSerials assigns both home_serials in one transaction, so a reorder
// never leaves two listings sharing a serial.
func (s *PropertyStore) SwapSerials(ctx context.Context, a, b SerialAssignment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&models.Property{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", []int64{a.ID, b.ID}).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) != 2 {
			return gorm.ErrRecordNotFound
		}
		for _, side := range []SerialAssignment{a, b} {
			if err := tx.Model(&models.Property{}).Where("id = ?", side.ID).
				Update("home_serial", side.HomeSerial).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return classify("swap home serials", err)
}

// Detail loads the public property page by slug. Amenity and agent are optional:
// a property without either is still returned.
func (s *PropertyStore) Detail(ctx context.Context, slug string) (*PropertyDetail, error) {
	p, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	detail := &PropertyDetail{Property: *p}
	db := s.db.WithContext(ctx)

	var amenity models.Amenity
	switch err := db.First(&amenity, p.ID).Error; {
	case err == nil:
		detail.Amenity = &amenity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, classify("get amenities", err)
	}

	if p.AgentID != nil {
		var agent models.Agent
		switch err := db.First(&agent, *p.AgentID).Error; {
		case err == nil:
			detail.Agent = &agent
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, classify("get agent", err)
		}
	}
	return detail, nil
}

// Similar returns up to limit other properties nearest in flat size.
// Ties fall back to id order so results are stable.
func (s *PropertyStore) Similar(ctx context.Context, slug string, flatSize float64, limit int) ([]models.Property, error) {
	if limit <= 0 {
		limit = 3
	}
	var properties []models.Property
	err := s.db.WithContext(ctx).
		Select(models.PublicColumns).
		Where("slug <> ?", slug).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                flatSizeDistance,
			Vars:               []interface{}{flatSize},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&properties).Error
	if err != nil {
		return nil, classify("similar properties", err)
	}
	return properties, nil
}

// Locations returns the distinct non-empty locations, for filter menus.
func (s *PropertyStore) Locations(ctx context.Context) ([]string, error) {
	var locations []string
	err := s.db.WithContext(ctx).Model(&models.Property{}).
		Where("location <> ''").
		Distinct().
		Order("location").
		Pluck("location", &locations).Error
	if err != nil {
		return nil, classify("list locations", err)
	}
	return locations, nil
}
