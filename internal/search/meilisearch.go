// Package search keeps a Meilisearch index of property listings for the public site.
package search

import (
	"encoding/json"
	"fmt"
	"strconv"

	"hl-portal/internal/models"

	"github.com/meilisearch/meilisearch-go"
)

// IndexName is the Meilisearch index uid.
const IndexName = "properties"

// Document is the indexed form of a property. Image blobs are never indexed.
type Document struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	HomeSerial    *int   `json:"home_serial"`
	Address       string `json:"address"`
	LandArea      string `json:"land_area"`
	FlatSize      string `json:"flat_size"`
	BuildingType  string `json:"building_type"`
	ProjectStatus string `json:"project_status"`
	Location      string `json:"location"`
	Description   string `json:"description,omitempty"`
}

// ToDocument converts a property to its index document.
func ToDocument(p *models.Property) Document {
	return Document{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		HomeSerial:    p.HomeSerial,
		Address:       p.Address,
		LandArea:      p.LandArea,
		FlatSize:      p.FlatSize,
		BuildingType:  p.BuildingType,
		ProjectStatus: p.ProjectStatus,
		Location:      p.Location,
		Description:   p.Description,
	}
}

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  IndexName,
	}
}

// InitIndex creates the index and its settings. It is safe to call on every start.
func (s *SearchClient) InitIndex() error {
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "id",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"name",
		"location",
		"address",
		"project_status",
		"building_type",
		"description",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"location",
		"project_status",
		"building_type",
	})
	if err != nil {
		return err
	}

	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"home_serial",
		"id",
	})
	return err
}

// IndexProperty adds or replaces one property document.
func (s *SearchClient) IndexProperty(property *models.Property) error {
	_, err := s.client.Index(s.index).AddDocuments([]Document{ToDocument(property)}, "id")
	return err
}

// IndexProperties adds or replaces many property documents.
func (s *SearchClient) IndexProperties(properties []models.Property) error {
	if len(properties) == 0 {
		return nil
	}
	docs := make([]Document, 0, len(properties))
	for i := range properties {
		docs = append(docs, ToDocument(&properties[i]))
	}
	_, err := s.client.Index(s.index).AddDocuments(docs, "id")
	return err
}

// DeleteProperty removes one document.
func (s *SearchClient) DeleteProperty(id int64) error {
	_, err := s.client.Index(s.index).DeleteDocument(strconv.FormatInt(id, 10))
	return err
}

// Reindex replaces the whole index with properties.
func (s *SearchClient) Reindex(properties []models.Property) error {
	if _, err := s.client.Index(s.index).DeleteAllDocuments(); err != nil {
		return fmt.Errorf("clear index: %w", err)
	}
	return s.IndexProperties(properties)
}

// SearchResult holds one page of hits.
type SearchResult struct {
	Hits      []Document `json:"hits"`
	TotalHits int64      `json:"total"`
}

// Search runs a full-text query with optional location/status filters.
func (s *SearchClient) Search(params FilterParams) (*SearchResult, error) {
	req := params.request()
	res, err := s.client.Index(s.index).Search(params.Query, req)
	if err != nil {
		return nil, err
	}
	hits, err := decodeHits(res.Hits)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Hits: hits, TotalHits: res.EstimatedTotalHits}, nil
}

// decodeHits converts raw hit maps to documents.
func decodeHits(raw []interface{}) ([]Document, error) {
	docs := make([]Document, 0, len(raw))
	for _, hit := range raw {
		b, err := json.Marshal(hit)
		if err != nil {
			return nil, fmt.Errorf("encode hit: %w", err)
		}
		var doc Document
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("decode hit: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
