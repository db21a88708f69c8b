package catalog

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/anand/job-board/internal/refresh"
)

// Lister fetches one catalog page. *Client satisfies it; tests use fakes.
type Lister interface {
	List(ctx context.Context, page int, query string) Page
}

// Snapshot identifies the query state a fetch was issued for. A response only
// applies while its snapshot still matches the live state; anything else is
// stale and dropped.
type Snapshot struct {
	Page       int
	Query      string
	RefreshSeq uint64
}

// Pager describes the pagination controls for the current page.
type Pager struct {
	HasPrev bool
	HasNext bool
	Label   string
}

// ListView is the catalog listing view model. It issues fetches for the
// committed query state, drops responses that arrive for a superseded state,
// and exposes the loading and empty states the listing renders.
type ListView struct {
	mu      sync.Mutex
	state   *QueryState
	lister  Lister
	hub     *refresh.Hub
	logger  *zap.Logger
	loading bool
	loaded  bool
	current Page
	snap    Snapshot
}

// NewListView creates a list view over the given query state. The hub may be
// nil when no server-side refresh signal exists.
func NewListView(state *QueryState, lister Lister, hub *refresh.Hub, logger *zap.Logger) *ListView {
	return &ListView{
		state:  state,
		lister: lister,
		hub:    hub,
		logger: logger,
	}
}

// snapshot captures the state a fetch is about to serve.
func (v *ListView) snapshot() Snapshot {
	snap := Snapshot{
		Page:  v.state.Page(),
		Query: v.state.Query(),
	}
	if v.hub != nil {
		snap.RefreshSeq = v.hub.Seq()
	}
	return snap
}

// Fetch loads the page for the current query state. Concurrent fetches are
// safe: only the response whose snapshot still matches the state when it
// lands is applied.
func (v *ListView) Fetch(ctx context.Context) {
	snap := v.snapshot()

	v.mu.Lock()
	v.loading = true
	v.snap = snap
	v.mu.Unlock()

	page := v.lister.List(ctx, snap.Page, snap.Query)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.snap != snap {
		// A newer fetch owns the view now.
		v.logger.Debug("dropping stale catalog response",
			zap.Int("page", snap.Page),
			zap.String("query", snap.Query),
		)
		return
	}

	v.loading = false
	v.loaded = true
	v.current = page
}

// Run drives the view until ctx is cancelled: an initial fetch, then a
// re-fetch on every committed query change and every refresh signal.
func (v *ListView) Run(ctx context.Context) {
	var refreshCh <-chan struct{}
	if v.hub != nil {
		ch, cancel := v.hub.Subscribe()
		defer cancel()
		refreshCh = ch
	}

	v.Fetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-v.state.Changed():
			v.Fetch(ctx)
		case <-refreshCh:
			v.Fetch(ctx)
		}
	}
}

// Jobs returns the entries of the current page.
func (v *ListView) Jobs() []JobSummary {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current.Jobs
}

// Loading reports whether a fetch for the current state is in flight.
func (v *ListView) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// NoResults reports whether a completed fetch came back empty. It stays false
// until the first fetch lands so the empty state never flashes during load.
func (v *ListView) NoResults() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loaded && !v.loading && len(v.current.Jobs) == 0
}

// Pager returns the pagination controls for the current page. Previous shows
// only past page 1, Next only before the last page.
func (v *ListView) Pager() Pager {
	v.mu.Lock()
	defer v.mu.Unlock()

	page := v.snap.Page
	if page < 1 {
		page = 1
	}
	totalPages := v.current.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}

	return Pager{
		HasPrev: page > 1,
		HasNext: page < totalPages,
		Label:   fmt.Sprintf("Page %d of %d", page, totalPages),
	}
}
