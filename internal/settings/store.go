package settings

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/marcin-skalski/ticketboard/internal/board"
)

const (
	KeyGrouping = "grouping"
	KeyOrdering = "ordering"
)

// Store reads and writes display preferences through a KV.
type Store struct {
	kv     KV
	logger *slog.Logger
}

func NewStore(kv KV, logger *slog.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Load never fails: absent, empty, unreadable or unrecognised values fall back
// to the defaults.
func (s *Store) Load(ctx context.Context) board.Settings {
	out := board.DefaultSettings()

	if v := s.get(ctx, KeyGrouping); v != "" {
		if g, err := board.ParseGrouping(v); err != nil {
			s.logger.Warn("ignoring stored setting", "key", KeyGrouping, "value", v, "err", err)
		} else {
			out.Grouping = g
		}
	}
	if v := s.get(ctx, KeyOrdering); v != "" {
		if o, err := board.ParseOrdering(v); err != nil {
			s.logger.Warn("ignoring stored setting", "key", KeyOrdering, "value", v, "err", err)
		} else {
			out.Ordering = o
		}
	}

	s.logger.Debug("loaded settings", "grouping", out.Grouping, "ordering", out.Ordering)
	return out
}

func (s *Store) get(ctx context.Context, key string) string {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("read setting failed, using default", "key", key, "err", err)
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// Save writes every pair immediately. Values are not validated here.
func (s *Store) Save(ctx context.Context, values map[string]string) error {
	for k, v := range values {
		if err := s.kv.Set(ctx, k, v); err != nil {
			return fmt.Errorf("save setting %s: %w", k, err)
		}
		s.logger.Debug("saved setting", "key", k, "value", v)
	}
	return nil
}

func (s *Store) SaveSettings(ctx context.Context, st board.Settings) error {
	return s.Save(ctx, map[string]string{
		KeyGrouping: st.Grouping.String(),
		KeyOrdering: st.Ordering.String(),
	})
}
