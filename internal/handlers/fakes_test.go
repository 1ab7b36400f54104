package handlers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"hl-portal/internal/database"
	"hl-portal/internal/media"
	"hl-portal/internal/models"
	"hl-portal/internal/search"
)

type memProperties struct {
	mu     sync.Mutex
	rows   map[int64]*models.Property
	nextID int64
	swaps  [][2]database.SerialAssignment
}

func newMemProperties() *memProperties {
	return &memProperties{rows: make(map[int64]*models.Property)}
}

func (m *memProperties) add(p models.Property) *models.Property {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	p.ID = m.nextID
	m.rows[p.ID] = &p
	cp := p
	return &cp
}

func (m *memProperties) sorted() []models.Property {
	out := make([]models.Property, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memProperties) List(_ context.Context, f database.ListFilter) ([]models.Property, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted()
	return all, int64(len(all)), nil
}

func (m *memProperties) ListPublic(_ context.Context, f database.PublicFilter) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Property
	for _, p := range m.sorted() {
		if f.Location != "" && f.Location != database.NoFilter && p.Location != f.Location {
			continue
		}
		if f.ProjectStatus != "" && f.ProjectStatus != database.NoFilter && p.ProjectStatus != f.ProjectStatus {
			continue
		}
		out = append(out, p)
	}
	if f.FromHomepage && len(out) > database.HomepageLimit {
		out = out[:database.HomepageLimit]
	}
	return out, nil
}

func (m *memProperties) Get(_ context.Context, id int64) (*models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get property: %w", database.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (m *memProperties) Create(_ context.Context, p *models.Property) (*models.Property, error) {
	m.mu.Lock()
	for _, existing := range m.rows {
		if existing.Slug == p.Slug {
			m.mu.Unlock()
			return nil, fmt.Errorf("create property: %w", database.ErrDuplicate)
		}
	}
	m.mu.Unlock()
	return m.add(*p), nil
}

func (m *memProperties) Update(_ context.Context, id int64, fields map[string]interface{}, images media.Updates) (*models.Property, error) {
	m.mu.Lock()
	p, ok := m.rows[id]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("find property: %w", database.ErrNotFound)
	}
	for column, v := range fields {
		switch v := v.(type) {
		case string:
			p.SetText(column, v)
		case *int:
			p.HomeSerial = v
		case *int64:
			p.AgentID = v
		}
	}
	images.Apply(p.Images())
	m.mu.Unlock()
	return m.Get(context.Background(), id)
}

func (m *memProperties) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete property: %w", database.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memProperties) SwapSerials(_ context.Context, a, b database.SerialAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pa, okA := m.rows[a.ID]
	pb, okB := m.rows[b.ID]
	if !okA || !okB {
		return fmt.Errorf("swap home serials: %w", database.ErrNotFound)
	}
	pa.HomeSerial, pb.HomeSerial = a.HomeSerial, b.HomeSerial
	m.swaps = append(m.swaps, [2]database.SerialAssignment{a, b})
	return nil
}

func (m *memProperties) Detail(ctx context.Context, slug string) (*database.PropertyDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.Slug == slug {
			return &database.PropertyDetail{Property: *p}, nil
		}
	}
	return nil, fmt.Errorf("get property by slug: %w", database.ErrNotFound)
}

func (m *memProperties) Similar(_ context.Context, slug string, flatSize float64, limit int) ([]models.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Property
	for _, p := range m.sorted() {
		if p.Slug != slug && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProperties) Locations(context.Context) ([]string, error) {
	return []string{"Gulshan"}, nil
}

type memAmenities struct {
	rows map[int64]models.Amenity
}

func (m *memAmenities) Get(_ context.Context, id int64) (*models.Amenity, error) {
	a, ok := m.rows[id]
	if !ok {
		return nil, fmt.Errorf("get amenities: %w", database.ErrNotFound)
	}
	return &a, nil
}

func (m *memAmenities) Upsert(_ context.Context, a *models.Amenity) error {
	if m.rows == nil {
		m.rows = make(map[int64]models.Amenity)
	}
	m.rows[a.ID] = *a
	return nil
}

func (m *memAmenities) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("delete amenities: %w", database.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

type memLeads struct {
	mu          sync.Mutex
	visits      []models.Visit
	contacts    []models.Contact
	subscribers map[string]bool
}

func (m *memLeads) CreateVisit(_ context.Context, v *models.Visit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v.ID = int64(len(m.visits) + 1)
	v.CreatedAt = time.Now()
	m.visits = append(m.visits, *v)
	return nil
}

func (m *memLeads) ListVisits(context.Context, database.Page) ([]models.Visit, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visits, int64(len(m.visits)), nil
}

func (m *memLeads) VisitsSince(_ context.Context, since time.Time) ([]models.Visit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Visit
	for _, v := range m.visits {
		if !v.CreatedAt.Before(since) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memLeads) DeleteVisit(context.Context, int64) error { return nil }

func (m *memLeads) CreateContact(_ context.Context, c *models.Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = int64(len(m.contacts) + 1)
	m.contacts = append(m.contacts, *c)
	return nil
}

func (m *memLeads) ListContacts(context.Context, database.Page) ([]models.Contact, int64, error) {
	return m.contacts, int64(len(m.contacts)), nil
}

func (m *memLeads) DeleteContact(context.Context, int64) error { return nil }

func (m *memLeads) Subscribe(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribers == nil {
		m.subscribers = make(map[string]bool)
	}
	if m.subscribers[email] {
		return false, nil
	}
	m.subscribers[email] = true
	return true, nil
}

func (m *memLeads) ListSubscribers(context.Context) ([]models.Newsletter, error) {
	var out []models.Newsletter
	for email := range m.subscribers {
		out = append(out, models.Newsletter{Email: email})
	}
	return out, nil
}

type memContent struct {
	blogs []models.Blog
}

func (m *memContent) ListReviews(context.Context) ([]models.Review, error) { return nil, nil }
func (m *memContent) CreateReview(context.Context, *models.Review) error { return nil }
func (m *memContent) DeleteReview(context.Context, int64) error { return nil }

func (m *memContent) ListBlogs(context.Context, database.Page) ([]models.Blog, int64, error) {
	return m.blogs, int64(len(m.blogs)), nil
}

func (m *memContent) GetBlog(_ context.Context, id int64) (*models.Blog, error) {
	for i := range m.blogs {
		if m.blogs[i].ID == id {
			return &m.blogs[i], nil
		}
	}
	return nil, fmt.Errorf("get blog: %w", database.ErrNotFound)
}

func (m *memContent) GetBlogBySlug(_ context.Context, slug string) (*models.Blog, error) {
	for i := range m.blogs {
		if m.blogs[i].Slug == slug {
			return &m.blogs[i], nil
		}
	}
	return nil, fmt.Errorf("get blog by slug: %w", database.ErrNotFound)
}

func (m *memContent) CreateBlog(_ context.Context, b *models.Blog) error {
	b.ID = int64(len(m.blogs) + 1)
	m.blogs = append(m.blogs, *b)
	return nil
}

func (m *memContent) UpdateBlog(ctx context.Context, id int64, b *models.Blog, cover media.Update) (*models.Blog, error) {
	return m.GetBlog(ctx, id)
}

func (m *memContent) DeleteBlog(context.Context, int64) error { return nil }

type memUsers struct {
	rows []models.User
}

func (m *memUsers) List(context.Context) ([]models.User, error) { return m.rows, nil }

func (m *memUsers) Get(_ context.Context, id int64) (*models.User, error) {
	for i := range m.rows {
		if m.rows[i].ID == id {
			return &m.rows[i], nil
		}
	}
	return nil, fmt.Errorf("get user: %w", database.ErrNotFound)
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for i := range m.rows {
		if m.rows[i].Email == email {
			return &m.rows[i], nil
		}
	}
	return nil, fmt.Errorf("get user by email: %w", database.ErrNotFound)
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	for _, existing := range m.rows {
		if existing.Email == u.Email {
			return fmt.Errorf("create user: %w", database.ErrDuplicate)
		}
	}
	u.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, *u)
	return nil
}

func (m *memUsers) Update(ctx context.Context, id int64, name string, role models.Role, hash string) (*models.User, error) {
	return m.Get(ctx, id)
}

func (m *memUsers) Delete(context.Context, int64) error { return nil }

type memAgents struct{}

func (memAgents) List(context.Context) ([]models.Agent, error) { return nil, nil }
func (memAgents) Get(context.Context, int64) (*models.Agent, error) {
	return nil, fmt.Errorf("get agent: %w", database.ErrNotFound)
}
func (memAgents) Create(_ context.Context, a *models.Agent) error { a.ID = 1; return nil }
func (memAgents) Update(_ context.Context, id int64, name, phone string, image media.Update) (*models.Agent, error) {
	return &models.Agent{ID: id, Name: name, Phone: phone}, nil
}
func (memAgents) Delete(context.Context, int64) error { return nil }

type recordingIndexer struct {
	mu      sync.Mutex
	indexed []int64
	deleted []int64
}

func (r *recordingIndexer) IndexProperty(p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed = append(r.indexed, p.ID)
	return nil
}

func (r *recordingIndexer) DeleteProperty(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted = append(r.deleted, id)
	return nil
}

type failingNotifier struct {
	calls int
}

func (f *failingNotifier) NotifyVisit(context.Context, *models.Visit) error {
	f.calls++
	return fmt.Errorf("smtp: connection refused")
}

func (f *failingNotifier) NotifyContact(context.Context, *models.Contact) error {
	f.calls++
	return fmt.Errorf("smtp: connection refused")
}

func (f *failingNotifier) SendDigest(context.Context, time.Time, []models.Visit) error { return nil }

type stubSearcher struct {
	params search.FilterParams
}

func (s *stubSearcher) Search(params search.FilterParams) (*search.SearchResult, error) {
	s.params = params
	return &search.SearchResult{Hits: []search.Document{{ID: 1, Name: "Villa"}}, TotalHits: 1}, nil
}
