package token

import "testing"

func TestNormalizeClampsPagination(t *testing.T) {
	cases := []struct {
		name    string
		in      ListFilter
		page    int
		perPage int
	}{
		{"defaults", ListFilter{}, 1, DefaultPerPage},
		{"page zero", ListFilter{Page: 0, PerPage: 10}, 1, 10},
		{"negative page", ListFilter{Page: -3}, 1, DefaultPerPage},
		{"per page over cap", ListFilter{Page: 2, PerPage: 101}, 2, MaxPerPage},
		{"per page at cap", ListFilter{Page: 2, PerPage: 100}, 2, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if got.Page != tc.page || got.PerPage != tc.perPage {
				t.Fatalf("got page=%d perPage=%d, want page=%d perPage=%d",
					got.Page, got.PerPage, tc.page, tc.perPage)
			}
		})
	}
}

func TestNormalizeDropsUnknownStatus(t *testing.T) {
	if got := (ListFilter{Status: "pending"}).Normalize(); got.Status != "" {
		t.Fatalf("unknown status should be ignored, got %q", got.Status)
	}
	if got := (ListFilter{Status: " Revoked "}).Normalize(); got.Status != StatusRevoked {
		t.Fatalf("expected revoked, got %q", got.Status)
	}
	if got := (ListFilter{Status: "active"}).Normalize(); got.Status != StatusActive {
		t.Fatalf("expected active, got %q", got.Status)
	}
}

func TestNormalizeRestrictsOrdering(t *testing.T) {
	got := ListFilter{OrderBy: "jti; drop table access_tokens", Order: "sideways"}.Normalize()
	if got.OrderBy != "created_at" {
		t.Fatalf("unexpected order column: %q", got.OrderBy)
	}
	if got.Order != "desc" {
		t.Fatalf("unexpected order direction: %q", got.Order)
	}

	got = ListFilter{OrderBy: "nome", Order: "ASC"}.Normalize()
	if got.OrderBy != "nome" || got.Order != "asc" {
		t.Fatalf("expected nome/asc, got %q/%q", got.OrderBy, got.Order)
	}
}

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name            string
		page, per, tot  int
		totalPages      int
		hasNext, hasPrev bool
	}{
		{"empty set", 1, 20, 0, 0, false, false},
		{"single page", 1, 20, 5, 1, false, false},
		{"first of many", 1, 20, 95, 5, true, false},
		{"middle", 3, 20, 95, 5, true, true},
		{"last", 5, 20, 95, 5, false, true},
		{"exact division", 2, 10, 20, 2, false, true},
		{"page beyond range", 9, 20, 30, 2, false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPagination(tc.page, tc.per, tc.tot)
			if p.TotalPages != tc.totalPages {
				t.Fatalf("total_pages = %d, want %d", p.TotalPages, tc.totalPages)
			}
			if p.HasNext != tc.hasNext || p.HasPrev != tc.hasPrev {
				t.Fatalf("has_next=%v has_prev=%v, want %v/%v", p.HasNext, p.HasPrev, tc.hasNext, tc.hasPrev)
			}
			if p.Total != tc.tot || p.Page != tc.page || p.PerPage != tc.per {
				t.Fatalf("echoed fields wrong: %+v", p)
			}
		})
	}
}
