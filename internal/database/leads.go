package database

import (
	"context"
	"errors"
	"time"

	"hl-portal/internal/models"

	"gorm.io/gorm"
)

// Page selects a slice of a newest-first lead table.
type Page struct {
	Page     int
	PageSize int
}

func (p Page) normalize() Page {
	f := ListFilter{Page: p.Page, PageSize: p.PageSize}.Normalize()
	return Page{Page: f.Page, PageSize: f.PageSize}
}

func (p Page) offset() int {
	return (p.Page - 1) * p.PageSize
}

// LeadStore keeps visits, contact messages and newsletter subscriptions.
type LeadStore struct {
	db *gorm.DB
}

func NewLeadStore(db *gorm.DB) *LeadStore {
	return &LeadStore{db: db}
}

func (s *LeadStore) CreateVisit(ctx context.Context, v *models.Visit) error {
	return classify("create visit", s.db.WithContext(ctx).Create(v).Error)
}

func (s *LeadStore) ListVisits(ctx context.Context, p Page) ([]models.Visit, int64, error) {
	p = p.normalize()
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Visit{}).Count(&total).Error; err != nil {
		return nil, 0, classify("count visits", err)
	}
	var visits []models.Visit
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").
		Offset(p.offset()).Limit(p.PageSize).Find(&visits).Error
	if err != nil {
		return nil, 0, classify("list visits", err)
	}
	return visits, total, nil
}

// VisitsSince returns visits created at or after since, oldest first.
func (s *LeadStore) VisitsSince(ctx context.Context, since time.Time) ([]models.Visit, error) {
	var visits []models.Visit
	err := s.db.WithContext(ctx).Where("created_at >= ?", since).
		Order("created_at, id").Find(&visits).Error
	if err != nil {
		return nil, classify("visits since", err)
	}
	return visits, nil
}

func (s *LeadStore) DeleteVisit(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "delete visit", &models.Visit{}, id)
}

func (s *LeadStore) CreateContact(ctx context.Context, c *models.Contact) error {
	return classify("create contact", s.db.WithContext(ctx).Create(c).Error)
}

func (s *LeadStore) ListContacts(ctx context.Context, p Page) ([]models.Contact, int64, error) {
	p = p.normalize()
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Contact{}).Count(&total).Error; err != nil {
		return nil, 0, classify("count contacts", err)
	}
	var contacts []models.Contact
	err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").
		Offset(p.offset()).Limit(p.PageSize).Find(&contacts).Error
	if err != nil {
		return nil, 0, classify("list contacts", err)
	}
	return contacts, total, nil
}

func (s *LeadStore) DeleteContact(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "delete contact", &models.Contact{}, id)
}

// Subscribe adds email to the newsletter. Subscribing twice is not an error;
// created reports whether a new row was written.
func (s *LeadStore) Subscribe(ctx context.Context, email string) (created bool, err error) {
	err = s.db.WithContext(ctx).Create(&models.Newsletter{Email: email}).Error
	if err == nil {
		return true, nil
	}
	err = classify("subscribe", err)
	if errors.Is(err, ErrDuplicate) {
		return false, nil
	}
	return false, err
}

func (s *LeadStore) ListSubscribers(ctx context.Context) ([]models.Newsletter, error) {
	var subs []models.Newsletter
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&subs).Error; err != nil {
		return nil, classify("list subscribers", err)
	}
	return subs, nil
}

func (s *LeadStore) deleteRow(ctx context.Context, op string, model interface{}, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return classify(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return classify(op, gorm.ErrRecordNotFound)
	}
	return nil
}
