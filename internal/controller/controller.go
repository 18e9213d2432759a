package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/marcin-skalski/ticketboard/internal/board"
	"github.com/marcin-skalski/ticketboard/internal/settings"
	"github.com/marcin-skalski/ticketboard/internal/source"
)

// persistTimeout bounds a settings write. Changes run on the UI goroutine.
const persistTimeout = 2 * time.Second

// Snapshot is a copy of the controller state handed to the view.
type Snapshot struct {
	Timestamp time.Time
	Loading   bool
	Settings  board.Settings
	Grid      board.Grid
	Users     board.UserLookup
}

// Controller loads settings, fetches tickets once, and rebuilds the grid
// whenever tickets, grouping or ordering change.
type Controller struct {
	source   source.Source
	settings *settings.Store
	logger   *slog.Logger

	persistTimeout time.Duration

	mu      sync.Mutex
	tickets []board.Ticket
	users   board.UserLookup
	grid    board.Grid
	current board.Settings
	loading bool
	closed  bool
	cancel  context.CancelFunc

	wg sync.WaitGroup
}

func New(src source.Source, store *settings.Store, logger *slog.Logger) *Controller {
	return &Controller{
		source:   src,
		settings: store,
		logger:   logger,
		users:    board.UserLookup{},
		current:  board.DefaultSettings(),
		loading:  true,

		persistTimeout: persistTimeout,
	}
}

// Start loads persisted settings synchronously and starts the fetch in the
// background. The fetch is not retried; on failure the controller stays
// loading.
func (c *Controller) Start(ctx context.Context) {
	loaded := c.settings.Load(ctx)

	fetchCtx, cancel := context.WithCancel(ctx)

	c.mu.Lock()
	c.current = loaded
	c.cancel = cancel
	c.mu.Unlock()

	c.logger.Info("board starting", "grouping", loaded.Grouping, "ordering", loaded.Ordering)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		c.fetch(fetchCtx)
	}()
}

func (c *Controller) fetch(ctx context.Context) {
	p, err := c.source.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			c.logger.Error("failed to fetch tickets or users", "err", err)
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		c.logger.Debug("discarding fetch result after close")
		return
	}
	c.tickets = p.Tickets
	c.users = board.NewUserLookup(p.Users)
	c.recompute()
}

// Wait blocks until the in-flight fetch, if any, has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close abandons any in-flight fetch. Results arriving afterwards are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	cancel := c.cancel
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

func (c *Controller) ChangeGrouping(value string) error {
	g, err := board.ParseGrouping(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.loading = true
	c.current.Grouping = g
	c.mu.Unlock()

	c.persist(settings.KeyGrouping, value)

	c.mu.Lock()
	c.recompute()
	c.mu.Unlock()
	return nil
}

func (c *Controller) ChangeOrdering(value string) error {
	o, err := board.ParseOrdering(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.loading = true
	c.current.Ordering = o
	c.mu.Unlock()

	c.persist(settings.KeyOrdering, value)

	c.mu.Lock()
	c.recompute()
	c.mu.Unlock()
	return nil
}

// persist failures are logged; the in-memory change stands.
func (c *Controller) persist(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.persistTimeout)
	defer cancel()
	if err := c.settings.Save(ctx, map[string]string{key: value}); err != nil {
		c.logger.Error("persist setting failed", "key", key, "value", value, "err", err)
	}
}

// recompute must be called with mu held.
func (c *Controller) recompute() {
	if len(c.tickets) == 0 {
		return
	}
	start := time.Now()
	c.grid = board.Build(c.tickets, c.current.Grouping, c.current.Ordering)
	c.loading = false
	c.logger.Debug("grid rebuilt",
		"grouping", c.current.Grouping,
		"ordering", c.current.Ordering,
		"groups", len(c.grid.Groups),
		"tickets", c.grid.Len(),
		"duration", time.Since(start))
}

func (c *Controller) Settings() board.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	groups := make([]board.Group, len(c.grid.Groups))
	for i, g := range c.grid.Groups {
		groups[i] = board.Group{Key: g.Key, Tickets: append([]board.Ticket(nil), g.Tickets...)}
	}
	users := make(board.UserLookup, len(c.users))
	for k, v := range c.users {
		users[k] = v
	}

	return Snapshot{
		Timestamp: time.Now(),
		Loading:   c.loading,
		Settings:  c.current,
		Grid:      board.Grid{Groups: groups},
		Users:     users,
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("loading=%t grouping=%s ordering=%s groups=%d tickets=%d",
		s.Loading, s.Settings.Grouping, s.Settings.Ordering, len(s.Grid.Groups), s.Grid.Len())
}
