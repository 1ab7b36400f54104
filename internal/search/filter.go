package search

import (
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// FilterParams is a public search request.
type FilterParams struct {
	Query         string
	Location      string
	ProjectStatus string
	Limit         int64
	Offset        int64
}

// Filter builds the Meilisearch filter expression. Empty and "default" values are skipped.
func (p FilterParams) Filter() string {
	var filters []string
	if v := filterValue(p.Location); v != "" {
		filters = append(filters, fmt.Sprintf("location = %s", quote(v)))
	}
	if v := filterValue(p.ProjectStatus); v != "" {
		filters = append(filters, fmt.Sprintf("project_status = %s", quote(v)))
	}
	return strings.Join(filters, " AND ")
}

func (p FilterParams) request() *meilisearch.SearchRequest {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	req := &meilisearch.SearchRequest{
		Limit:  limit,
		Offset: p.Offset,
	}
	if f := p.Filter(); f != "" {
		req.Filter = f
	}
	return req
}

func filterValue(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "default") {
		return ""
	}
	return v
}

// quote wraps v in double quotes, escaping quotes and backslashes inside it.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
