package event

import (
	"context"
	"testing"
	"time"
)

func TestMemStoreListByTenant(t *testing.T) {
	store := NewMemStore()
	now := time.Now().UTC()
	soon := now.Add(24 * time.Hour)
	later := now.Add(72 * time.Hour)

	store.Put(Event{ID: "ev-late", Tenant: "acme.com", Title: "later", Deadline: &later})
	store.Put(Event{ID: "ev-undated", Tenant: "acme.com", Title: "no deadline"})
	store.Put(Event{ID: "ev-soon", Tenant: "acme.com", Title: "soon", Deadline: &soon})
	store.Put(Event{ID: "ev-other", Tenant: "other.com", Title: "foreign", Deadline: &soon})

	got, err := store.ListByTenant(context.Background(), "acme.com")
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}

	// deadline ascending, undated events last
	wantOrder := []string{"ev-soon", "ev-late", "ev-undated"}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestMemStoreReturnsCopies(t *testing.T) {
	store := NewMemStore()
	store.Put(Event{ID: "ev-1", Tenant: "acme.com", Title: "original"})

	first, err := store.ListByTenant(context.Background(), "acme.com")
	if err != nil {
		t.Fatalf("ListByTenant: %v", err)
	}
	first[0].Title = "mutated"

	second, _ := store.ListByTenant(context.Background(), "acme.com")
	if second[0].Title != "original" {
		t.Fatal("stored event mutated through returned pointer")
	}
}
