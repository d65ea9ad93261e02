package token

import "strings"

const (
	// DefaultPerPage is the page size applied when the caller sends none.
	DefaultPerPage = 20
	// MaxPerPage caps the page size regardless of what the caller asks for.
	MaxPerPage = 100

	defaultOrderColumn = "created_at"
)

// orderColumns whitelists the sortable columns. Keys are the wire names,
// values the storage columns.
var orderColumns = map[string]string{
	"created_at":   "created_at",
	"expires_at":   "expires_at",
	"last_used_at": "last_used_at",
	"nome":         "nome",
	"status":       "status",
}

// ListFilter describes a token listing request. Call Normalize before
// handing it to a store.
type ListFilter struct {
	Page    int
	PerPage int
	Search  string
	Status  string
	OrderBy string
	Order   string
}

// Normalize clamps pagination, drops unknown status values and restricts
// ordering to the column whitelist. Unknown values are ignored, not rejected.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	f.Search = strings.TrimSpace(f.Search)

	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if f.Status != StatusActive && f.Status != StatusRevoked {
		f.Status = ""
	}

	f.OrderBy = strings.ToLower(strings.TrimSpace(f.OrderBy))
	if _, ok := orderColumns[f.OrderBy]; !ok {
		f.OrderBy = defaultOrderColumn
	}
	if strings.ToLower(strings.TrimSpace(f.Order)) == "asc" {
		f.Order = "asc"
	} else {
		f.Order = "desc"
	}
	return f
}

func (f ListFilter) offset() int {
	return (f.Page - 1) * f.PerPage
}

// Pagination is the metadata returned next to every page.
type Pagination struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPagination derives page metadata from the exact count of the filtered
// set, independent of how many rows the page itself returned.
func NewPagination(page, perPage, total int) Pagination {
	totalPages := 0
	if total > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1 && total > 0,
	}
}
