package store_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"pcsurvey/internal/config"
	"pcsurvey/internal/store"
	"pcsurvey/internal/testsupport"
)

func TestUpsertMergesTopLevelKeys(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.Upsert(ctx, "survey", "jane@example.org", store.Document{
		"name":   "Jane Doe",
		"Topics": []string{"Caches", "GPUs"},
	}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(ctx, "survey", "jane@example.org", store.Document{
		"meeting_country": "France",
		"_id":             "ignored",
	}); err != nil {
		t.Fatalf("Upsert merge: %v", err)
	}

	doc, found, err := s.Get(ctx, "survey", "jane@example.org")
	if err != nil || !found {
		t.Fatalf("Get: found=%v err=%v", found, err)
	}
	if doc["name"] != "Jane Doe" || doc["meeting_country"] != "France" {
		t.Fatalf("expected merged document, got %v", doc)
	}
	if doc[store.IDField] != "jane@example.org" {
		t.Fatalf("unexpected id %v", doc[store.IDField])
	}

	if _, found, err := s.Get(ctx, "other", "jane@example.org"); err != nil || found {
		t.Fatalf("expected collections to be separate: found=%v err=%v", found, err)
	}
}

func TestFindAndDistinct(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	docs := map[string]store.Document{
		"a": {"name": "Jane Doe", "meeting_country": "France", "Topics": []string{"Caches", "GPUs"}},
		"b": {"name": "John Roe", "meeting_country": "Japan", "Topics": []string{"GPUs"}},
		"c": {"name": "Ann Poe", "meeting_country": "France", "Topics": []string{}},
	}
	for id, doc := range docs {
		if err := s.Upsert(ctx, "survey", id, doc); err != nil {
			t.Fatalf("Upsert %s: %v", id, err)
		}
	}

	found, err := s.Find(ctx, "survey", map[string]string{"meeting_country": "France"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 || found[0][store.IDField] != "a" || found[1][store.IDField] != "c" {
		t.Fatalf("unexpected France documents %v", found)
	}

	found, err = s.Find(ctx, "survey", map[string]string{"Topics": "GPUs", "meeting_country": "Japan"})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 1 || found[0]["name"] != "John Roe" {
		t.Fatalf("unexpected array match %v", found)
	}

	all, err := s.Find(ctx, "survey", nil)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected all documents, got %d err=%v", len(all), err)
	}

	values, err := s.Distinct(ctx, "survey", "Topics")
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if strings.Join(values, "|") != "Caches|GPUs" {
		t.Fatalf("unexpected distinct topics %v", values)
	}
}

func TestOpenHoldsFileLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenStore(t, cfg)

	_, err := store.Open(context.Background(), cfg)
	if !errors.Is(err, store.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := store.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("reopen after close: %v", err)
	}
	defer second.Close()
	if second.Path() != cfg.StorePath() || second.Driver() != store.DriverSQLite {
		t.Fatalf("unexpected store %q %q", second.Path(), second.Driver())
	}
}

func TestReopenKeepsDocuments(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStorePath("custom.db"))
	ctx := context.Background()

	s, err := store.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Upsert(ctx, "survey", "a", store.Document{"name": "Jane Doe"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s = testsupport.MustOpenStore(t, cfg)
	doc, found, err := s.Get(ctx, "survey", "a")
	if err != nil || !found || doc["name"] != "Jane Doe" {
		t.Fatalf("expected document after reopen: %v found=%v err=%v", doc, found, err)
	}
}

func TestUpsertRequiresID(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if err := s.Upsert(context.Background(), "survey", " ", store.Document{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = store.DriverPostgres
	if _, err := store.Open(context.Background(), &cfg); err == nil {
		t.Fatal("expected dsn error")
	}
}
