package handlers

import (
	"context"
	"time"

	"hl-portal/internal/database"
	"hl-portal/internal/media"
	"hl-portal/internal/models"
	"hl-portal/internal/search"
)

// PropertyStore is the property repository used by the handlers.
// *database.PropertyStore implements it.
type PropertyStore interface {
	List(ctx context.Context, f database.ListFilter) ([]models.Property, int64, error)
	ListPublic(ctx context.Context, f database.PublicFilter) ([]models.Property, error)
	Get(ctx context.Context, id int64) (*models.Property, error)
	Create(ctx context.Context, p *models.Property) (*models.Property, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}, images media.Updates) (*models.Property, error)
	Delete(ctx context.Context, id int64) error
	SwapSerials(ctx context.Context, a, b database.SerialAssignment) error
	Detail(ctx context.Context, slug string) (*database.PropertyDetail, error)
	Similar(ctx context.Context, slug string, flatSize float64, limit int) ([]models.Property, error)
	Locations(ctx context.Context) ([]string, error)
}

type AmenityStore interface {
	Get(ctx context.Context, propertyID int64) (*models.Amenity, error)
	Upsert(ctx context.Context, a *models.Amenity) error
	Delete(ctx context.Context, propertyID int64) error
}

type AgentStore interface {
	List(ctx context.Context) ([]models.Agent, error)
	Get(ctx context.Context, id int64) (*models.Agent, error)
	Create(ctx context.Context, a *models.Agent) error
	Update(ctx context.Context, id int64, name, phone string, image media.Update) (*models.Agent, error)
	Delete(ctx context.Context, id int64) error
}

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, id int64, name string, role models.Role, passwordHash string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type LeadStore interface {
	CreateVisit(ctx context.Context, v *models.Visit) error
	ListVisits(ctx context.Context, p database.Page) ([]models.Visit, int64, error)
	VisitsSince(ctx context.Context, since time.Time) ([]models.Visit, error)
	DeleteVisit(ctx context.Context, id int64) error
	CreateContact(ctx context.Context, c *models.Contact) error
	ListContacts(ctx context.Context, p database.Page) ([]models.Contact, int64, error)
	DeleteContact(ctx context.Context, id int64) error
	Subscribe(ctx context.Context, email string) (bool, error)
	ListSubscribers(ctx context.Context) ([]models.Newsletter, error)
}

type ContentStore interface {
	ListReviews(ctx context.Context) ([]models.Review, error)
	CreateReview(ctx context.Context, r *models.Review) error
	DeleteReview(ctx context.Context, id int64) error
	ListBlogs(ctx context.Context, p database.Page) ([]models.Blog, int64, error)
	GetBlog(ctx context.Context, id int64) (*models.Blog, error)
	GetBlogBySlug(ctx context.Context, slug string) (*models.Blog, error)
	CreateBlog(ctx context.Context, b *models.Blog) error
	UpdateBlog(ctx context.Context, id int64, b *models.Blog, cover media.Update) (*models.Blog, error)
	DeleteBlog(ctx context.Context, id int64) error
}

// Indexer mirrors property writes into the search index. *search.SearchClient implements it.
type Indexer interface {
	IndexProperty(p *models.Property) error
	DeleteProperty(id int64) error
}

// Searcher runs public full-text queries.
type Searcher interface {
	Search(params search.FilterParams) (*search.SearchResult, error)
}

// Invalidator drops cached public responses. *cache.Cache implements it.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Reindexer rebuilds the search index on demand. *scheduler.Scheduler implements it.
type Reindexer interface {
	RunReindex(ctx context.Context) error
}

var (
	_ PropertyStore = (*database.PropertyStore)(nil)
	_ AmenityStore  = (*database.AmenityStore)(nil)
	_ AgentStore    = (*database.AgentStore)(nil)
	_ UserStore     = (*database.UserStore)(nil)
	_ LeadStore     = (*database.LeadStore)(nil)
	_ ContentStore  = (*database.ContentStore)(nil)
	_ Indexer       = (*search.SearchClient)(nil)
	_ Searcher      = (*search.SearchClient)(nil)
)
