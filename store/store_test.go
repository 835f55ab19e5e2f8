package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	rec, err := NewRecord(KindSummary, "内容", map[string]any{"plan": map[string]any{"title": "T"}})
	if err != nil {
		t.Fatalf("NewRecord: %v", err)
	}
	if rec.ID == "" || rec.ID == NewID() {
		t.Fatalf("unexpected id %q", rec.ID)
	}
	if rec.Kind != KindSummary || rec.CreatedAt.IsZero() {
		t.Fatalf("unexpected record %+v", rec)
	}
	var data map[string]any
	if err := json.Unmarshal(rec.Data, &data); err != nil {
		t.Fatalf("data not json: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	rec := Record{ID: "a", Kind: KindArticle, Title: "T", Markdown: "# T"}
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, "a")
	if err != nil || got.Markdown != "# T" {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewMemoryStore(time.Hour)
	s.now = func() time.Time { return now }
	_ = s.Save(ctx, Record{ID: "a"})

	now = now.Add(59 * time.Minute)
	if _, err := s.Get(ctx, "a"); err != nil {
		t.Fatalf("record expired too early: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("expired record should be dropped")
	}
}

// 需要本地 Redis：REDIS_ADDR=localhost:6379 go test ./store
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(ctx, RedisConfig{Addr: addr, Prefix: "ai_writer:test:", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	rec, _ := NewRecord(KindArticle, "主题", map[string]string{"k": "v"})
	rec.Markdown = "# 标题"
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Markdown != rec.Markdown || string(got.Data) != string(rec.Data) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if _, err := s.Get(ctx, NewID()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStoreDefaultPrefix(t *testing.T) {
	s := newRedisStore(nil, RedisConfig{})
	if s.key("x") != DefaultRedisPrefix+"x" {
		t.Fatalf("key = %q", s.key("x"))
	}
}
