package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/driftlab/refdag/pkg/graphio"
)

func TestNewRecord(t *testing.T) {
	doc := &graphio.Document{Name: "deps"}
	a := NewRecord(doc)
	b := NewRecord(doc)

	if a.ID == "" || b.ID == "" {
		t.Fatal("NewRecord() produced empty ID")
	}
	if a.ID == b.ID {
		t.Error("NewRecord() IDs must be unique")
	}
	if a.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if a.Document != doc {
		t.Error("Document not carried")
	}
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	rec := NewRecord(&graphio.Document{Name: "deps"})

	if err := m.Put(ctx, rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := m.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Document.Name != "deps" {
		t.Errorf("Document.Name = %q, want deps", got.Document.Name)
	}

	if err := m.Delete(ctx, rec.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
	}
	if err := m.Delete(ctx, rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(absent) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryGetAbsent(t *testing.T) {
	m := NewMemory()
	if _, err := m.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(absent) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Now().UTC()
	old := &Record{ID: "old", CreatedAt: base.Add(-time.Hour), Document: &graphio.Document{}}
	mid := &Record{ID: "mid", CreatedAt: base.Add(-time.Minute), Document: &graphio.Document{}}
	latest := &Record{ID: "new", CreatedAt: base, Document: &graphio.Document{}}
	for _, rec := range []*Record{old, latest, mid} {
		if err := m.Put(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{"new", "mid", "old"}
	if len(list) != len(want) {
		t.Fatalf("len(list) = %d, want %d", len(list), len(want))
	}
	for i, id := range want {
		if list[i].ID != id {
			t.Errorf("list[%d].ID = %q, want %q", i, list[i].ID, id)
		}
	}
}

func TestMemoryPutReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	rec := NewRecord(&graphio.Document{Name: "v1"})
	if err := m.Put(ctx, rec); err != nil {
		t.Fatal(err)
	}

	updated := *rec
	updated.Document = &graphio.Document{Name: "v2"}
	if err := m.Put(ctx, &updated); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get(ctx, rec.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Document.Name != "v2" {
		t.Errorf("Document.Name = %q, want v2", got.Document.Name)
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("len(list) = %d, want 1", len(list))
	}
}
