package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/laundrypro/internal/models"
)

func orders(from, to int) []models.Order {
	var out []models.Order
	for i := from; i <= to; i++ {
		out = append(out, models.Order{ID: fmt.Sprintf("o%02d", i), Status: models.OrderPending, Note: "n"})
	}
	return out
}

func page(items []models.Order, p, total int) models.Page[models.Order] {
	limit := 10
	return models.Page[models.Order]{
		Items:      items,
		Pagination: models.Pagination{Page: p, Limit: limit, Total: total, TotalPages: (total + limit - 1) / limit},
	}
}

func TestEntityStore_FetchThenLoadMore(t *testing.T) {
	s := NewEntityStore[models.Order]()

	require.True(t, s.ApplyFetch(s.BeginList(), page(orders(1, 10), 1, 25)))

	next, ok := s.NextPage()
	require.True(t, ok)
	assert.Equal(t, 2, next)
	require.True(t, s.ApplyLoadMore(s.BeginList(), page(orders(11, 20), 2, 25)))

	next, ok = s.NextPage()
	require.True(t, ok)
	assert.Equal(t, 3, next)
	require.True(t, s.ApplyLoadMore(s.BeginList(), page(orders(21, 25), 3, 25)))

	_, ok = s.NextPage()
	assert.False(t, ok)

	st := s.Snapshot()
	assert.Len(t, st.Items, 25)
	assert.Equal(t, 3, st.Pagination.Page)
	assert.False(t, st.Loading)
}

func TestEntityStore_LoadMoreSkipsDuplicates(t *testing.T) {
	s := NewEntityStore[models.Order]()
	s.ApplyFetch(s.BeginList(), page(orders(1, 10), 1, 25))

	// Page 2 overlaps page 1 after an insert on the server.
	s.ApplyLoadMore(s.BeginList(), page(orders(10, 19), 2, 25))

	st := s.Snapshot()
	assert.Len(t, st.Items, 19)
	ids := map[string]bool{}
	for _, o := range st.Items {
		assert.False(t, ids[o.ID], "duplicate %s", o.ID)
		ids[o.ID] = true
	}
}

func TestEntityStore_LoadMoreNeverRegressesPage(t *testing.T) {
	s := NewEntityStore[models.Order]()
	s.ApplyFetch(s.BeginList(), page(orders(1, 10), 2, 25))

	s.ApplyLoadMore(s.BeginList(), page(orders(11, 12), 1, 25))
	assert.Equal(t, 2, s.Snapshot().Pagination.Page)
}

func TestEntityStore_StaleTicketDiscarded(t *testing.T) {
	s := NewEntityStore[models.Order]()

	older := s.BeginList()
	newer := s.BeginList()

	require.True(t, s.ApplyFetch(newer, page(orders(1, 3), 1, 3)))
	assert.False(t, s.ApplyFetch(older, page(orders(7, 9), 1, 3)))
	assert.False(t, s.FailList(older, "boom"))

	st := s.Snapshot()
	assert.Equal(t, "o01", st.Items[0].ID)
	assert.Empty(t, st.Error)
}

func TestEntityStore_ResetDiscardsInFlight(t *testing.T) {
	s := NewEntityStore[models.Order]()
	tk := s.BeginList()
	s.Reset()

	assert.False(t, s.ApplyFetch(tk, page(orders(1, 3), 1, 3)))
	assert.Equal(t, EntityState[models.Order]{}, s.Snapshot())
}

func TestEntityStore_PatchOnlyStatus(t *testing.T) {
	s := NewEntityStore[models.Order]()
	s.ApplyFetch(s.BeginList(), page(orders(1, 3), 1, 3))
	s.Select(models.Order{ID: "o02", Status: models.OrderPending, Note: "n"})

	require.True(t, s.Patch("o02", func(o models.Order) models.Order { return o.WithStatus("completed") }))

	st := s.Snapshot()
	assert.Equal(t, models.Order{ID: "o02", Status: models.OrderCompleted, Note: "n"}, st.Items[1])
	assert.Equal(t, models.OrderCompleted, st.Selected.Status)
	assert.Equal(t, "n", st.Selected.Note)
	assert.Equal(t, models.OrderPending, st.Items[0].Status)

	assert.False(t, s.Patch("missing", func(o models.Order) models.Order { return o.WithStatus("completed") }))
}

func TestEntityStore_PrependAndUpsert(t *testing.T) {
	s := NewEntityStore[models.Order]()
	s.ApplyFetch(s.BeginList(), page(orders(1, 2), 1, 2))

	s.Prepend(models.Order{ID: "new"})
	s.Prepend(models.Order{ID: "o02", Note: "moved"})

	st := s.Snapshot()
	require.Len(t, st.Items, 3)
	assert.Equal(t, "o02", st.Items[0].ID)
	assert.Equal(t, "new", st.Items[1].ID)

	s.Select(st.Items[1])
	s.Upsert(models.Order{ID: "new", Note: "updated"})
	st = s.Snapshot()
	assert.Len(t, st.Items, 3)
	assert.Equal(t, "updated", st.Selected.Note)
}

func TestEntityStore_RemoveClearsSelection(t *testing.T) {
	s := NewEntityStore[models.Order]()
	s.Select(models.Order{ID: "a"})
	s.Remove("a")

	st := s.Snapshot()
	assert.Empty(t, st.Items)
	assert.Nil(t, st.Selected)
}

func TestEntityStore_SnapshotIsIsolated(t *testing.T) {
	s := NewEntityStore[models.Order]()
	s.Select(models.Order{ID: "a", Note: "x"})

	st := s.Snapshot()
	st.Items[0].Note = "changed"
	st.Selected.Note = "changed"

	again := s.Snapshot()
	assert.Equal(t, "x", again.Items[0].Note)
	assert.Equal(t, "x", again.Selected.Note)
}

func TestEntityStore_Notifies(t *testing.T) {
	s := NewEntityStore[models.Order]()
	calls := 0
	cancel := s.Subscribe(func() { calls++ })

	s.Upsert(models.Order{ID: "a"})
	s.ClearError()
	assert.Equal(t, 2, calls)

	cancel()
	s.Upsert(models.Order{ID: "b"})
	assert.Equal(t, 2, calls)
}

func TestStores_ResetAll(t *testing.T) {
	all := New()
	all.Session.Update(func(st *SessionState) {
		st.User = &models.User{ID: "u1", HasPassword: true}
		st.Phase = PhaseFullyAuthenticated
	})
	all.Orders.Upsert(models.Order{ID: "o"})
	all.Services.Upsert(models.Service{ID: "s"})
	all.Services.SetCategories([]string{"wash"})
	all.Customers.Select(models.User{ID: "c"})
	all.Staff.Fail("boom")
	all.Profile.Update(func(st *ProfileState) { st.PasswordChanged = true })

	all.ResetAll()

	assert.Equal(t, SessionState{Phase: PhaseAnonymous}, all.Session.Snapshot())
	assert.Equal(t, EntityState[models.Order]{}, all.Orders.Snapshot())
	assert.Equal(t, EntityState[models.Service]{}, all.Services.Snapshot())
	assert.Empty(t, all.Services.Categories())
	assert.Equal(t, EntityState[models.User]{}, all.Customers.Snapshot())
	assert.Equal(t, EntityState[models.User]{}, all.Staff.Snapshot())
	assert.Equal(t, ProfileState{}, all.Profile.Snapshot())
}
