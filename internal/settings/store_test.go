package settings

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/marcin-skalski/ticketboard/internal/board"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("storage unavailable")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("storage unavailable")
}

func TestLoadDefaultsOnEmptyStore(t *testing.T) {
	s := NewStore(NewMemoryKV(), testLogger())
	got := s.Load(context.Background())
	if got != board.DefaultSettings() {
		t.Fatalf("Load = %+v, want defaults", got)
	}
}

func TestSaveThenLoad(t *testing.T) {
	ctx := context.Background()
	s := NewStore(NewMemoryKV(), testLogger())

	if err := s.Save(ctx, map[string]string{KeyGrouping: "user"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got := s.Load(ctx)
	if got.Grouping != board.GroupByUser {
		t.Fatalf("grouping = %q, want user", got.Grouping)
	}
	if got.Ordering != board.OrderByPriority {
		t.Fatalf("ordering = %q, want default priority", got.Ordering)
	}

	if err := s.SaveSettings(ctx, board.Settings{Grouping: board.GroupByPriority, Ordering: board.OrderByTitle}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}
	got = s.Load(ctx)
	if got.Grouping != board.GroupByPriority || got.Ordering != board.OrderByTitle {
		t.Fatalf("Load = %+v", got)
	}
}

func TestLoadIgnoresEmptyAndInvalidValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Set(ctx, KeyGrouping, "")
	_ = kv.Set(ctx, KeyOrdering, "newest")

	got := NewStore(kv, testLogger()).Load(ctx)
	if got != board.DefaultSettings() {
		t.Fatalf("Load = %+v, want defaults", got)
	}
}

func TestSaveDoesNotValidate(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	if err := NewStore(kv, testLogger()).Save(ctx, map[string]string{KeyOrdering: "newest"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v, ok, _ := kv.Get(ctx, KeyOrdering); !ok || v != "newest" {
		t.Fatalf("stored = %q, %v", v, ok)
	}
}

func TestLoadSurvivesBackendErrors(t *testing.T) {
	s := NewStore(failingKV{}, testLogger())
	if got := s.Load(context.Background()); got != board.DefaultSettings() {
		t.Fatalf("Load = %+v, want defaults", got)
	}
	if err := s.Save(context.Background(), map[string]string{KeyGrouping: "user"}); err == nil {
		t.Fatal("expected Save error")
	}
}

func TestFileKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	kv := NewFileKV(path)

	if _, ok, err := kv.Get(ctx, KeyGrouping); err != nil || ok {
		t.Fatalf("Get on missing file = %v, %v", ok, err)
	}
	if err := kv.Set(ctx, KeyGrouping, "priority"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := kv.Set(ctx, KeyOrdering, "title"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened := NewStore(NewFileKV(path), testLogger())
	got := reopened.Load(ctx)
	if got.Grouping != board.GroupByPriority || got.Ordering != board.OrderByTitle {
		t.Fatalf("Load after reopen = %+v", got)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only settings file, found %d entries", len(entries))
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("grouping: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	kv := NewFileKV(path)
	if _, _, err := kv.Get(context.Background(), KeyGrouping); err == nil {
		t.Fatal("expected parse error")
	}
	if got := NewStore(kv, testLogger()).Load(context.Background()); got != board.DefaultSettings() {
		t.Fatalf("Load = %+v, want defaults", got)
	}
}

func TestDefaultPathHonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath: %v", err)
	}
	if want := "/tmp/xdg/ticketboard/settings.yaml"; got != want {
		t.Fatalf("DefaultPath = %q, want %q", got, want)
	}
}

func TestRedisKV(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	s := NewStore(NewRedisKV(client, "ticketboard:"), testLogger())

	if got := s.Load(ctx); got != board.DefaultSettings() {
		t.Fatalf("Load on empty redis = %+v", got)
	}
	if err := s.Save(ctx, map[string]string{KeyGrouping: "user", KeyOrdering: "title"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if v, err := mr.Get("ticketboard:grouping"); err != nil || v != "user" {
		t.Fatalf("redis grouping = %q, %v", v, err)
	}
	got := s.Load(ctx)
	if got.Grouping != board.GroupByUser || got.Ordering != board.OrderByTitle {
		t.Fatalf("Load = %+v", got)
	}

	mr.Close()
	if got := s.Load(ctx); got != board.DefaultSettings() {
		t.Fatalf("Load with redis down = %+v, want defaults", got)
	}
}
