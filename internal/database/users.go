package database

import (
	"context"

	"hl-portal/internal/models"

	"gorm.io/gorm"
)

// UserStore is the repository for dashboard accounts.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, classify("list users", err)
	}
	return users, nil
}

func (s *UserStore) Get(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, classify("get user", err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, classify("get user by email", err)
	}
	return &u, nil
}

// Create inserts u. u.Password must already be hashed.
func (s *UserStore) Create(ctx context.Context, u *models.User) error {
	return classify("create user", s.db.WithContext(ctx).Create(u).Error)
}

// Update changes name and role. An empty passwordHash leaves the password as is.
func (s *UserStore) Update(ctx context.Context, id int64, name string, role models.Role, passwordHash string) (*models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	columns := map[string]interface{}{"name": name, "role": role}
	if passwordHash != "" {
		columns["password"] = passwordHash
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return nil, classify("update user", err)
	}
	return s.Get(ctx, id)
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return classify("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete user", gorm.ErrRecordNotFound)
	}
	return nil
}
