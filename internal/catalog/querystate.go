package catalog

import (
	"net/url"
	"strconv"
	"sync"
	"time"
)

// Navigator receives the shareable URL for each committed query state. The
// browser shell pushes it into history; tests record it.
type Navigator interface {
	Push(query url.Values)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(query url.Values)

func (f NavigatorFunc) Push(query url.Values) { f(query) }

// QueryState tracks the committed page and search term of the catalog. The
// search box feeds it through a debouncer; page moves apply immediately.
// Every committed change is pushed to the navigator and announced on Changed.
type QueryState struct {
	mu        sync.Mutex
	page      int
	query     string
	input     string
	debouncer *Debouncer
	navigator Navigator
	changed   chan struct{}
}

// NewQueryState returns a query state starting at page 1 with an empty search
// term. The navigator may be nil when no URL should be maintained.
func NewQueryState(debounce time.Duration, nav Navigator) *QueryState {
	s := &QueryState{
		page:      1,
		navigator: nav,
		changed:   make(chan struct{}, 1),
	}
	s.debouncer = NewDebouncer(debounce, s.commitQuery)
	return s
}

// FromQuery seeds the state from URL query parameters, so a shared or
// reloaded URL restores the same page and search term.
func (s *QueryState) FromQuery(values url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		s.page = page
	}
	s.query = values.Get("q")
	s.input = s.query
}

// Page returns the committed page number.
func (s *QueryState) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Query returns the committed search term.
func (s *QueryState) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Changed signals each committed state change. The channel is coalescing;
// consumers re-read Page and Query when it fires.
func (s *QueryState) Changed() <-chan struct{} {
	return s.changed
}

// Move shifts the page by delta, clamped at 1. Page moves commit immediately;
// they are not debounced.
func (s *QueryState) Move(delta int) {
	s.mu.Lock()
	page := s.page + delta
	if page < 1 {
		page = 1
	}
	if page == s.page {
		s.mu.Unlock()
		return
	}
	s.page = page
	s.mu.Unlock()

	s.announce()
}

// SetQuery records a keystroke. The raw input updates immediately so the
// search box can echo it; nothing commits until the input settles, and the
// value present at settle time wins.
func (s *QueryState) SetQuery(input string) {
	s.mu.Lock()
	s.input = input
	s.mu.Unlock()

	s.debouncer.Trigger(input)
}

// Input returns the raw search box content, committed or not.
func (s *QueryState) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Stop cancels any pending debounced commit.
func (s *QueryState) Stop() {
	s.debouncer.Stop()
}

// commitQuery lands a settled search term: the page resets to 1 so the first
// page of the narrowed result set shows, even if the term is unchanged.
func (s *QueryState) commitQuery(value string) {
	s.mu.Lock()
	s.query = value
	s.page = 1
	s.mu.Unlock()

	s.announce()
}

// announce pushes the current state to the navigator and pulses Changed.
func (s *QueryState) announce() {
	s.mu.Lock()
	values := url.Values{}
	values.Set("page", strconv.Itoa(s.page))
	if s.query != "" {
		values.Set("q", s.query)
	}
	s.mu.Unlock()

	if s.navigator != nil {
		s.navigator.Push(values)
	}

	select {
	case s.changed <- struct{}{}:
	default:
	}
}
