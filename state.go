package main

import "sync"

// ViewKey names a cached screen. The core only ever hands these opaque keys
// to the render loop; it knows nothing about what the screens draw.
type ViewKey string

const (
	ViewFeeds     ViewKey = "feeds"
	ViewNotes     ViewKey = "notes"
	ViewBookmarks ViewKey = "bookmarks"
	ViewLogs      ViewKey = "logs"
)

// ViewState is the single source of truth for "does this view need a
// reload". The scheduler goroutine marks views stale; the render loop polls
// and clears. All access goes through one mutex so a reader never observes a
// half-written entry.
type ViewState struct {
	mu    sync.Mutex
	stale map[ViewKey]bool
}

func NewViewState() *ViewState {
	return &ViewState{stale: map[ViewKey]bool{}}
}

func (v *ViewState) MarkStale(key ViewKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stale[key] = true
}

func (v *ViewState) IsStale(key ViewKey) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stale[key]
}

func (v *ViewState) ClearStale(key ViewKey) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.stale, key)
}
