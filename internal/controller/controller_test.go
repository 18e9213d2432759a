package controller

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/marcin-skalski/ticketboard/internal/board"
	"github.com/marcin-skalski/ticketboard/internal/settings"
	"github.com/marcin-skalski/ticketboard/internal/source"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type stubSource struct {
	fetchFn func(ctx context.Context) (*source.Payload, error)
}

func (s *stubSource) Fetch(ctx context.Context) (*source.Payload, error) {
	return s.fetchFn(ctx)
}

func payload() *source.Payload {
	return &source.Payload{
		Tickets: []board.Ticket{
			{ID: "1", Title: "B", Status: "Todo", Priority: 4, UserID: "u1"},
			{ID: "2", Title: "A", Status: "Todo", Priority: 4, UserID: "u2"},
			{ID: "3", Title: "C", Status: "Done", Priority: 1, UserID: "u1"},
		},
		Users: []board.User{
			{ID: "u1", Name: "Anoop Sharma", Available: true},
			{ID: "u2", Name: "Yogesh"},
		},
	}
}

func okSource() *stubSource {
	return &stubSource{fetchFn: func(context.Context) (*source.Payload, error) {
		return payload(), nil
	}}
}

func groupIDs(g board.Grid, key string) []string {
	tickets, _ := g.Get(key)
	out := make([]string, len(tickets))
	for i, t := range tickets {
		out[i] = t.ID
	}
	return out
}

func TestStartLoadsSettingsAndBuildsGrid(t *testing.T) {
	ctx := context.Background()
	kv := settings.NewMemoryKV()
	_ = kv.Set(ctx, settings.KeyOrdering, "title")

	c := New(okSource(), settings.NewStore(kv, testLogger()), testLogger())
	if !c.Snapshot().Loading {
		t.Fatal("expected loading before start")
	}

	c.Start(ctx)
	c.Wait()

	snap := c.Snapshot()
	if snap.Loading {
		t.Fatal("still loading after successful fetch")
	}
	if snap.Settings.Grouping != board.GroupByStatus || snap.Settings.Ordering != board.OrderByTitle {
		t.Fatalf("settings = %+v", snap.Settings)
	}
	if got := snap.Grid.Keys(); !reflect.DeepEqual(got, []string{"Todo", "Done"}) {
		t.Fatalf("keys = %v", got)
	}
	if got := groupIDs(snap.Grid, "Todo"); !reflect.DeepEqual(got, []string{"2", "1"}) {
		t.Fatalf("Todo = %v", got)
	}
	if u, err := snap.Users.Resolve("u1"); err != nil || u.Name != "Anoop Sharma" {
		t.Fatalf("user lookup = %+v, %v", u, err)
	}
}

func TestFetchFailureStaysLoading(t *testing.T) {
	src := &stubSource{fetchFn: func(context.Context) (*source.Payload, error) {
		return nil, errors.New("connection refused")
	}}
	c := New(src, settings.NewStore(settings.NewMemoryKV(), testLogger()), testLogger())
	c.Start(context.Background())
	c.Wait()

	snap := c.Snapshot()
	if !snap.Loading {
		t.Fatal("expected loading after failed fetch")
	}
	if len(snap.Grid.Groups) != 0 {
		t.Fatalf("grid = %#v", snap.Grid)
	}

	// Changing settings without tickets keeps the board loading.
	if err := c.ChangeGrouping("user"); err != nil {
		t.Fatalf("ChangeGrouping: %v", err)
	}
	if !c.Snapshot().Loading {
		t.Fatal("expected loading with no tickets")
	}
}

func TestChangeGroupingPersistsAndRebuilds(t *testing.T) {
	ctx := context.Background()
	kv := settings.NewMemoryKV()
	c := New(okSource(), settings.NewStore(kv, testLogger()), testLogger())
	c.Start(ctx)
	c.Wait()

	if err := c.ChangeGrouping("user"); err != nil {
		t.Fatalf("ChangeGrouping: %v", err)
	}
	snap := c.Snapshot()
	if snap.Loading {
		t.Fatal("expected ready after synchronous rebuild")
	}
	if got := snap.Grid.Keys(); !reflect.DeepEqual(got, []string{"u1", "u2"}) {
		t.Fatalf("keys = %v", got)
	}
	if v, ok, _ := kv.Get(ctx, settings.KeyGrouping); !ok || v != "user" {
		t.Fatalf("persisted grouping = %q, %v", v, ok)
	}
	if _, ok, _ := kv.Get(ctx, settings.KeyOrdering); ok {
		t.Fatal("ordering should not be written by ChangeGrouping")
	}

	if err := c.ChangeOrdering("title"); err != nil {
		t.Fatalf("ChangeOrdering: %v", err)
	}
	if got := groupIDs(c.Snapshot().Grid, "u1"); !reflect.DeepEqual(got, []string{"1", "3"}) {
		t.Fatalf("u1 = %v", got)
	}
	if v, _, _ := kv.Get(ctx, settings.KeyOrdering); v != "title" {
		t.Fatalf("persisted ordering = %q", v)
	}
}

func TestChangesCommute(t *testing.T) {
	build := func(first, second func(*Controller) error) Snapshot {
		c := New(okSource(), settings.NewStore(settings.NewMemoryKV(), testLogger()), testLogger())
		c.Start(context.Background())
		c.Wait()
		if err := first(c); err != nil {
			t.Fatal(err)
		}
		if err := second(c); err != nil {
			t.Fatal(err)
		}
		return c.Snapshot()
	}
	group := func(c *Controller) error { return c.ChangeGrouping("priority") }
	order := func(c *Controller) error { return c.ChangeOrdering("title") }

	a := build(group, order)
	b := build(order, group)
	if a.Settings != b.Settings || !reflect.DeepEqual(a.Grid, b.Grid) {
		t.Fatalf("results differ:\n%s\n%s", a, b)
	}
}

func TestInvalidChangeRejected(t *testing.T) {
	ctx := context.Background()
	kv := settings.NewMemoryKV()
	c := New(okSource(), settings.NewStore(kv, testLogger()), testLogger())
	c.Start(ctx)
	c.Wait()

	if err := c.ChangeGrouping("team"); !errors.Is(err, board.ErrInvalidGrouping) {
		t.Fatalf("err = %v", err)
	}
	if err := c.ChangeOrdering("newest"); !errors.Is(err, board.ErrInvalidOrdering) {
		t.Fatalf("err = %v", err)
	}
	if c.Settings() != board.DefaultSettings() {
		t.Fatalf("settings changed: %+v", c.Settings())
	}
	if c.Snapshot().Loading {
		t.Fatal("rejected change should not set loading")
	}
	if _, ok, _ := kv.Get(ctx, settings.KeyGrouping); ok {
		t.Fatal("rejected change was persisted")
	}
}

// hangingKV blocks writes until the caller's context ends.
type hangingKV struct {
	*settings.MemoryKV
}

func (h hangingKV) Set(ctx context.Context, key, value string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSlowSettingsBackendDoesNotBlockChange(t *testing.T) {
	c := New(okSource(), settings.NewStore(hangingKV{settings.NewMemoryKV()}, testLogger()), testLogger())
	c.persistTimeout = 20 * time.Millisecond
	c.Start(context.Background())
	c.Wait()

	done := make(chan error, 1)
	go func() { done <- c.ChangeGrouping("priority") }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("ChangeGrouping: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ChangeGrouping blocked on the settings backend")
	}

	snap := c.Snapshot()
	if snap.Loading || snap.Settings.Grouping != board.GroupByPriority {
		t.Fatalf("change not applied after persist timeout: %s", snap)
	}
}

func TestCloseDiscardsLateResult(t *testing.T) {
	started := make(chan struct{})
	src := &stubSource{fetchFn: func(ctx context.Context) (*source.Payload, error) {
		close(started)
		<-ctx.Done()
		// A source that ignores cancellation and still answers.
		return payload(), nil
	}}
	c := New(src, settings.NewStore(settings.NewMemoryKV(), testLogger()), testLogger())
	c.Start(context.Background())
	<-started

	c.Close()

	snap := c.Snapshot()
	if !snap.Loading || len(snap.Grid.Groups) != 0 {
		t.Fatalf("late fetch result applied after close: %s", snap)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(okSource(), settings.NewStore(settings.NewMemoryKV(), testLogger()), testLogger())
	c.Start(context.Background())
	c.Wait()

	snap := c.Snapshot()
	snap.Grid.Groups[0].Tickets[0].Title = "mutated"
	snap.Users["u1"] = board.User{ID: "u1", Name: "mutated"}

	fresh := c.Snapshot()
	if fresh.Grid.Groups[0].Tickets[0].Title == "mutated" {
		t.Fatal("snapshot shares ticket storage with controller")
	}
	if fresh.Users["u1"].Name == "mutated" {
		t.Fatal("snapshot shares user lookup with controller")
	}
}
