package tablesync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"poker-miniapp/internal/api"
	"poker-miniapp/internal/gateway"
)

// Fetcher is the slice of the api client the loop needs. *api.Client
// satisfies it.
type Fetcher interface {
	FetchGameState(ctx context.Context, tableID string) (*api.GameState, error)
}

// Snapshot is the published view of the currently selected table. State is
// replaced wholesale on every applied poll and never mutated in place, so
// holding the pointer across reads is safe.
type Snapshot struct {
	TableID      string
	State        *api.GameState
	TransientErr string // last recoverable poll failure, cleared on success
	TableGone    bool   // terminal: the table ended or was deleted
}

// Synchronizer owns a cancellable polling loop bound to the currently
// selected table. At most one fetch is in flight at a time: the next tick
// is armed only after the previous call settles, and results tagged to a
// superseded selection are discarded unapplied.
type Synchronizer struct {
	fetch    Fetcher
	clock    clockwork.Clock
	interval time.Duration
	onChange func(Snapshot)
	log      zerolog.Logger

	mu        sync.Mutex
	gen       uint64 // bumped on every selection change
	tableID   string // "" while idle
	state     *api.GameState
	transient string
	tableGone bool
	timer     clockwork.Timer
}

type Option func(*Synchronizer)

// WithClock swaps the wall clock for a fake one in tests.
func WithClock(c clockwork.Clock) Option {
	return func(s *Synchronizer) { s.clock = c }
}

// WithOnChange registers a callback invoked with a fresh snapshot after
// every applied poll result. Discarded stale results do not fire it.
func WithOnChange(fn func(Snapshot)) Option {
	return func(s *Synchronizer) { s.onChange = fn }
}

func New(fetch Fetcher, interval time.Duration, opts ...Option) *Synchronizer {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	s := &Synchronizer{
		fetch:    fetch,
		clock:    clockwork.NewRealClock(),
		interval: interval,
		log:      log.With().Str("component", "tablesync").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SelectTable binds the loop to a table. Any previous selection is dropped
// immediately: its timer is cancelled and a result still in flight will be
// discarded on arrival. The new table is fetched at once and then on every
// interval tick.
func (s *Synchronizer) SelectTable(ctx context.Context, tableID string) {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.gen++
	gen := s.gen
	s.tableID = tableID
	s.state = nil
	s.transient = ""
	s.tableGone = false
	s.mu.Unlock()

	s.log.Info().Str("table_id", tableID).Msg("table selected, polling")
	go s.pollOnce(ctx, gen, tableID)
}

// Deselect stops polling and discards the published state. Used both for
// switching away from the game screen and for leaving the table.
func (s *Synchronizer) Deselect() {
	s.mu.Lock()
	s.cancelTimerLocked()
	s.gen++
	s.tableID = ""
	s.state = nil
	s.transient = ""
	s.tableGone = false
	s.mu.Unlock()
	s.log.Info().Msg("table deselected")
}

// Polling reports whether a table is currently selected.
func (s *Synchronizer) Polling() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tableID != ""
}

func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Synchronizer) snapshotLocked() Snapshot {
	return Snapshot{
		TableID:      s.tableID,
		State:        s.state,
		TransientErr: s.transient,
		TableGone:    s.tableGone,
	}
}

func (s *Synchronizer) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Synchronizer) pollOnce(ctx context.Context, gen uint64, tableID string) {
	st, err := s.fetch.FetchGameState(ctx, tableID)
	s.apply(ctx, gen, tableID, st, err)
}

func (s *Synchronizer) apply(ctx context.Context, gen uint64, tableID string, st *api.GameState, err error) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		s.log.Debug().Str("table_id", tableID).Msg("discarded poll result for superseded selection")
		return
	}
	if err != nil && ctx.Err() != nil {
		s.mu.Unlock()
		s.log.Debug().Str("table_id", tableID).Msg("context cancelled, polling stopped")
		return
	}

	rearm := true
	switch {
	case err == nil:
		s.state = st
		s.transient = ""
	case errors.Is(err, gateway.ErrNotFound):
		// The table ended or was deleted. Terminal: stop polling, drop
		// the state, go idle.
		s.state = nil
		s.tableID = ""
		s.tableGone = true
		rearm = false
		s.log.Info().Str("table_id", tableID).Msg("table no longer exists, polling stopped")
	default:
		// Auth hiccups and transport errors are recoverable: keep the
		// last good state on screen and try again on the next tick.
		s.transient = err.Error()
		s.log.Warn().Err(err).Str("table_id", tableID).Msg("poll failed, keeping last state")
	}

	if rearm {
		s.timer = s.clock.AfterFunc(s.interval, func() {
			s.pollOnce(ctx, gen, tableID)
		})
	}
	snap := s.snapshotLocked()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}
