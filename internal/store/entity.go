package store

import (
	"sync"

	"github.com/example/laundrypro/internal/models"
)

// Ticket identifies one list operation. Only the latest ticket of a store may
// write list results; older ones are discarded.
type Ticket uint64

// EntityState is a snapshot of a collection.
type EntityState[T models.Entity] struct {
	Items      []T               `json:"items"`
	Selected   *T                `json:"selected"`
	Pagination models.Pagination `json:"pagination"`
	Loading    bool              `json:"loading"`
	Error      string            `json:"error,omitempty"`
}

// EntityStore keeps at most one entry per id.
type EntityStore[T models.Entity] struct {
	mu    sync.RWMutex
	state EntityState[T]
	seq   Ticket
	subs  subscribers
}

func NewEntityStore[T models.Entity]() *EntityStore[T] {
	return &EntityStore[T]{}
}

func (s *EntityStore[T]) Snapshot() EntityState[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.state
	st.Items = append([]T(nil), s.state.Items...)
	if s.state.Selected != nil {
		sel := *s.state.Selected
		st.Selected = &sel
	}
	return st
}

func (s *EntityStore[T]) Subscribe(fn func()) (cancel func()) {
	return s.subs.add(fn)
}

func (s *EntityStore[T]) mutate(fn func(*EntityState[T]) bool) bool {
	s.mu.Lock()
	changed := fn(&s.state)
	s.mu.Unlock()
	if changed {
		s.subs.notify()
	}
	return changed
}

// Begin marks a non-list operation as running and clears the previous error.
func (s *EntityStore[T]) Begin() {
	s.mutate(func(st *EntityState[T]) bool {
		st.Loading = true
		st.Error = ""
		return true
	})
}

// BeginList issues a new list ticket, superseding any list operation in flight.
func (s *EntityStore[T]) BeginList() Ticket {
	var t Ticket
	s.mutate(func(st *EntityState[T]) bool {
		s.seq++
		t = s.seq
		st.Loading = true
		st.Error = ""
		return true
	})
	return t
}

// NextPage is the page a load-more should request, or false once the last
// page is held.
func (s *EntityStore[T]) NextPage() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.state.Pagination
	if p.Page == 0 || !p.HasMore() {
		return 0, false
	}
	return p.Page + 1, true
}

// ApplyFetch replaces the collection and pagination. It reports false when t
// is stale.
func (s *EntityStore[T]) ApplyFetch(t Ticket, page models.Page[T]) bool {
	return s.mutate(func(st *EntityState[T]) bool {
		if t != s.seq {
			return false
		}
		st.Items = dedupe(page.Items)
		st.Pagination = page.Pagination
		st.Loading = false
		return true
	})
}

// ApplyLoadMore appends entries whose id is not yet present. Pagination never
// moves backwards.
func (s *EntityStore[T]) ApplyLoadMore(t Ticket, page models.Page[T]) bool {
	return s.mutate(func(st *EntityState[T]) bool {
		if t != s.seq {
			return false
		}
		seen := make(map[string]struct{}, len(st.Items))
		for _, it := range st.Items {
			seen[it.Key()] = struct{}{}
		}
		for _, it := range page.Items {
			if _, ok := seen[it.Key()]; ok {
				continue
			}
			seen[it.Key()] = struct{}{}
			st.Items = append(st.Items, it)
		}
		if page.Pagination.Page >= st.Pagination.Page {
			st.Pagination = page.Pagination
		}
		st.Loading = false
		return true
	})
}

// FailList records msg for ticket t unless t is stale.
func (s *EntityStore[T]) FailList(t Ticket, msg string) bool {
	return s.mutate(func(st *EntityState[T]) bool {
		if t != s.seq {
			return false
		}
		st.Loading = false
		st.Error = msg
		return true
	})
}

// Fail ends a non-list operation with msg.
func (s *EntityStore[T]) Fail(msg string) {
	s.mutate(func(st *EntityState[T]) bool {
		st.Loading = false
		st.Error = msg
		return true
	})
}

// Done ends a non-list operation that changed nothing else.
func (s *EntityStore[T]) Done() {
	s.mutate(func(st *EntityState[T]) bool {
		st.Loading = false
		return true
	})
}

// Upsert replaces the entry with the same id, or appends it.
func (s *EntityStore[T]) Upsert(item T) {
	s.mutate(func(st *EntityState[T]) bool {
		upsert(st, item)
		st.Loading = false
		return true
	})
}

// Select upserts item and marks it selected.
func (s *EntityStore[T]) Select(item T) {
	s.mutate(func(st *EntityState[T]) bool {
		upsert(st, item)
		sel := item
		st.Selected = &sel
		st.Loading = false
		return true
	})
}

// Prepend puts item at the head of the collection, dropping an older entry
// with the same id.
func (s *EntityStore[T]) Prepend(item T) {
	s.mutate(func(st *EntityState[T]) bool {
		st.Items = append([]T{item}, without(st.Items, item.Key())...)
		refreshSelected(st, item)
		st.Loading = false
		return true
	})
}

// Patch rewrites the entry with the given id, in the collection and in the
// selection. It reports whether anything matched.
func (s *EntityStore[T]) Patch(id string, fn func(T) T) bool {
	return s.mutate(func(st *EntityState[T]) bool {
		matched := false
		for i, it := range st.Items {
			if it.Key() == id {
				st.Items[i] = fn(it)
				matched = true
			}
		}
		if st.Selected != nil && (*st.Selected).Key() == id {
			sel := fn(*st.Selected)
			st.Selected = &sel
			matched = true
		}
		return matched
	})
}

// Remove drops the entry with id and clears the selection if it pointed at it.
func (s *EntityStore[T]) Remove(id string) {
	s.mutate(func(st *EntityState[T]) bool {
		st.Items = without(st.Items, id)
		if st.Selected != nil && (*st.Selected).Key() == id {
			st.Selected = nil
		}
		st.Loading = false
		return true
	})
}

func (s *EntityStore[T]) ClearError() {
	s.mutate(func(st *EntityState[T]) bool {
		st.Error = ""
		return true
	})
}

func (s *EntityStore[T]) ClearSelection() {
	s.mutate(func(st *EntityState[T]) bool {
		st.Selected = nil
		return true
	})
}

// Reset empties the store. List operations still in flight are discarded.
func (s *EntityStore[T]) Reset() {
	s.mutate(func(st *EntityState[T]) bool {
		s.seq++
		*st = EntityState[T]{}
		return true
	})
}

func upsert[T models.Entity](st *EntityState[T], item T) {
	for i, it := range st.Items {
		if it.Key() == item.Key() {
			st.Items[i] = item
			refreshSelected(st, item)
			return
		}
	}
	st.Items = append(st.Items, item)
	refreshSelected(st, item)
}

func refreshSelected[T models.Entity](st *EntityState[T], item T) {
	if st.Selected != nil && (*st.Selected).Key() == item.Key() {
		sel := item
		st.Selected = &sel
	}
}

func without[T models.Entity](items []T, id string) []T {
	out := items[:0:0]
	for _, it := range items {
		if it.Key() != id {
			out = append(out, it)
		}
	}
	return out
}

func dedupe[T models.Entity](items []T) []T {
	seen := make(map[string]int, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if i, ok := seen[it.Key()]; ok {
			out[i] = it
			continue
		}
		seen[it.Key()] = len(out)
		out = append(out, it)
	}
	return out
}
