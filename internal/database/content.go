package database

import (
	"context"

	"hl-portal/internal/media"
	"hl-portal/internal/models"

	"gorm.io/gorm"
)

// blogListColumns leaves the cover blob out of the index page.
var blogListColumns = []string{"id", "title", "slug", "author", "content", "created_at", "updated_at"}

// ContentStore holds reviews and blog posts.
type ContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

func (s *ContentStore) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&reviews).Error; err != nil {
		return nil, classify("list reviews", err)
	}
	return reviews, nil
}

func (s *ContentStore) CreateReview(ctx context.Context, r *models.Review) error {
	return classify("create review", s.db.WithContext(ctx).Create(r).Error)
}

func (s *ContentStore) DeleteReview(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Review{})
	if res.Error != nil {
		return classify("delete review", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete review", gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *ContentStore) ListBlogs(ctx context.Context, p Page) ([]models.Blog, int64, error) {
	p = p.normalize()
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, classify("count blogs", err)
	}
	var blogs []models.Blog
	err := s.db.WithContext(ctx).Select(blogListColumns).Order("created_at DESC, id DESC").
		Offset(p.offset()).Limit(p.PageSize).Find(&blogs).Error
	if err != nil {
		return nil, 0, classify("list blogs", err)
	}
	return blogs, total, nil
}

func (s *ContentStore) GetBlog(ctx context.Context, id int64) (*models.Blog, error) {
	var b models.Blog
	if err := s.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, classify("get blog", err)
	}
	return &b, nil
}

func (s *ContentStore) GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	if err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&b).Error; err != nil {
		return nil, classify("get blog by slug", err)
	}
	return &b, nil
}

func (s *ContentStore) CreateBlog(ctx context.Context, b *models.Blog) error {
	return classify("create blog", s.db.WithContext(ctx).Create(b).Error)
}

// UpdateBlog rewrites the text columns and applies cover per its action.
func (s *ContentStore) UpdateBlog(ctx context.Context, id int64, b *models.Blog, cover media.Update) (*models.Blog, error) {
	if _, err := s.GetBlog(ctx, id); err != nil {
		return nil, err
	}
	columns := map[string]interface{}{
		"title":   b.Title,
		"slug":    b.Slug,
		"author":  b.Author,
		"content": b.Content,
	}
	for column, v := range (media.Updates{"cover": cover}).Columns() {
		columns[column] = v
	}
	if err := s.db.WithContext(ctx).Model(&models.Blog{}).Where("id = ?", id).Updates(columns).Error; err != nil {
		return nil, classify("update blog", err)
	}
	return s.GetBlog(ctx, id)
}

func (s *ContentStore) DeleteBlog(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Blog{})
	if res.Error != nil {
		return classify("delete blog", res.Error)
	}
	if res.RowsAffected == 0 {
		return classify("delete blog", gorm.ErrRecordNotFound)
	}
	return nil
}
