// Package view binds a fetched list to what a page shows. A ListView moves
// idle -> loading -> (error | loaded) and shows exactly one of loading, error,
// empty or data. Every load takes a generation number; a fetch that finishes
// after a newer load started is dropped.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/honeynil/bankfront/internal/infrastructure/observability"
	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/pipeline"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
	StateLoaded  State = "loaded"
)

type Display string

const (
	DisplayLoading Display = "loading"
	DisplayError   Display = "error"
	DisplayEmpty   Display = "empty"
	DisplayData    Display = "data"
)

// Result is what a fetch produced: either items or a message to show.
type Result[T any] struct {
	Items   []T
	OK      bool
	Message string
}

func Loaded[T any](items []T) Result[T] {
	return Result[T]{Items: items, OK: true}
}

func Failed[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

type Fetch[T any] func(ctx context.Context, u models.User) Result[T]

// Deps are the inputs whose change triggers a refetch.
type Deps struct {
	UserKey string
	Filter  pipeline.DateFilter
	Start   *time.Time
	End     *time.Time
	Sort    pipeline.SortState
}

func (d Deps) equal(o Deps) bool {
	return d.UserKey == o.UserKey &&
		d.Filter == o.Filter &&
		d.Sort == o.Sort &&
		sameDay(d.Start, o.Start) &&
		sameDay(d.End, o.End)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

type Config[T any] struct {
	Name   string
	Fetch  Fetch[T]
	Schema pipeline.Schema[T]
	// EmptyMessage is shown when the server returned no rows, NoMatchMessage
	// when rows exist but the date filter removed all of them.
	EmptyMessage   string
	NoMatchMessage string
	DefaultSort    pipeline.SortState
	Now            func() time.Time
}

type ListView[T any] struct {
	cfg Config[T]

	mu      sync.Mutex
	gen     uint64
	state   State
	message string
	items   []T
	deps    Deps
	stale   bool
}

func NewListView[T any](cfg Config[T]) *ListView[T] {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NoMatchMessage == "" {
		cfg.NoMatchMessage = cfg.EmptyMessage
	}
	return &ListView[T]{
		cfg:   cfg,
		state: StateIdle,
		deps:  Deps{Filter: pipeline.FilterAll, Sort: cfg.DefaultSort},
	}
}

// Snapshot is one rendering of the view.
type Snapshot[T any] struct {
	View       string              `json:"view"`
	State      State               `json:"state"`
	Display    Display             `json:"display"`
	Message    string              `json:"message,omitempty"`
	Rows       []T                 `json:"rows"`
	Total      int                 `json:"total"`
	Filter     pipeline.DateFilter `json:"filter"`
	Sort       pipeline.SortState  `json:"sort"`
	Generation uint64              `json:"generation"`
}

// Sort returns the sort state of the last load, for header toggling.
func (v *ListView[T]) Sort() pipeline.SortState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deps.Sort
}

// Deps returns the inputs of the last load.
func (v *ListView[T]) Deps() Deps {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.deps
}

// Bind renders the view for deps, fetching again only when deps differ from
// the last load, the view was invalidated, or it has never loaded.
func (v *ListView[T]) Bind(ctx context.Context, u models.User, deps Deps) Snapshot[T] {
	v.mu.Lock()
	fresh := v.state == StateLoaded || v.state == StateError
	if fresh && !v.stale && v.deps.equal(deps) {
		defer v.mu.Unlock()
		return v.snapshotLocked()
	}
	v.mu.Unlock()
	return v.Load(ctx, u, deps)
}

// Load always fetches.
func (v *ListView[T]) Load(ctx context.Context, u models.User, deps Deps) Snapshot[T] {
	v.mu.Lock()
	v.gen++
	gen := v.gen
	v.state = StateLoading
	v.message = ""
	v.deps = deps
	v.stale = false
	v.mu.Unlock()

	res := v.cfg.Fetch(ctx, u)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		observability.StaleViewResults.WithLabelValues(v.cfg.Name).Inc()
		return v.snapshotLocked()
	}
	if res.OK {
		v.state = StateLoaded
		v.items = res.Items
	} else {
		v.state = StateError
		v.message = res.Message
		v.items = nil
	}
	return v.snapshotLocked()
}

// Snapshot renders the current state without fetching.
func (v *ListView[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Invalidate makes the next Bind fetch again.
func (v *ListView[T]) Invalidate() {
	v.mu.Lock()
	v.stale = true
	v.mu.Unlock()
}

// UpdateWhere edits loaded rows in place and reports how many matched.
func (v *ListView[T]) UpdateWhere(match func(T) bool, fn func(*T)) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for i := range v.items {
		if match(v.items[i]) {
			fn(&v.items[i])
			n++
		}
	}
	return n
}

// Find returns the first loaded row matching.
func (v *ListView[T]) Find(match func(T) bool) (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, item := range v.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Reset forgets everything, e.g. after logout.
func (v *ListView[T]) Reset() {
	v.mu.Lock()
	v.gen++
	v.state = StateIdle
	v.message = ""
	v.items = nil
	v.deps = Deps{Filter: pipeline.FilterAll, Sort: v.cfg.DefaultSort}
	v.stale = false
	v.mu.Unlock()
}

func (v *ListView[T]) snapshotLocked() Snapshot[T] {
	s := Snapshot[T]{
		View:       v.cfg.Name,
		State:      v.state,
		Filter:     v.deps.Filter,
		Sort:       v.deps.Sort,
		Generation: v.gen,
		Rows:       []T{},
	}
	switch v.state {
	case StateIdle, StateLoading:
		s.Display = DisplayLoading
	case StateError:
		s.Display = DisplayError
		s.Message = v.message
	case StateLoaded:
		s.Total = len(v.items)
		rows := pipeline.Apply(v.items, pipeline.Query{
			Filter: v.deps.Filter,
			Start:  v.deps.Start,
			End:    v.deps.End,
			Sort:   v.deps.Sort,
			Now:    v.cfg.Now(),
		}, v.cfg.Schema)
		switch {
		case len(v.items) == 0:
			s.Display = DisplayEmpty
			s.Message = v.cfg.EmptyMessage
		case len(rows) == 0:
			s.Display = DisplayEmpty
			s.Message = v.cfg.NoMatchMessage
		default:
			s.Display = DisplayData
			s.Rows = rows
		}
	}
	return s
}
