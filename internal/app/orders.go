package app

import (
	"context"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type OrderAPI interface {
	List(ctx context.Context, role models.Role, f models.OrderFilter, page int) (models.Page[models.Order], error)
	Get(ctx context.Context, role models.Role, id string) (models.Order, error)
	Create(ctx context.Context, p models.CreateOrderPayload) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) (models.Order, error)
}

// OrderFlow drives the orders store. The acting role is passed in by the caller.
type OrderFlow struct {
	api      OrderAPI
	store    *store.EntityStore[models.Order]
	session  sessionGuard
	pageSize int
}

func (f *OrderFlow) lister(role models.Role, filter models.OrderFilter) pageFunc[models.Order] {
	filter.Limit = limitOr(filter.Limit, f.pageSize)
	return func(ctx context.Context, page int) (models.Page[models.Order], error) {
		return f.api.List(ctx, role, filter, page)
	}
}

// Fetch replaces the list with page 1 for filter.
func (f *OrderFlow) Fetch(ctx context.Context, role models.Role, filter models.OrderFilter) error {
	return fetchList(ctx, f.session, f.store, "Orders", "Could not load orders", f.lister(role, filter))
}

// LoadMore appends the next page for the same filter.
func (f *OrderFlow) LoadMore(ctx context.Context, role models.Role, filter models.OrderFilter) error {
	return loadMore(ctx, f.session, f.store, "Orders", "Could not load more orders", f.lister(role, filter))
}

func (f *OrderFlow) FetchOne(ctx context.Context, role models.Role, id string) (models.Order, error) {
	return run(ctx, f.session, f.store, "Orders", "Could not load the order", func() (models.Order, error) {
		o, err := f.api.Get(ctx, role, id)
		if err == nil {
			f.store.Select(o)
		}
		return o, err
	})
}

// Create validates p locally, then prepends the order the server returns.
func (f *OrderFlow) Create(ctx context.Context, p models.CreateOrderPayload) (models.Order, error) {
	if msg := validateCreateOrder(p); msg != "" {
		return models.Order{}, reject(f.store, msg)
	}
	return run(ctx, f.session, f.store, "Orders", "Could not create the order", func() (models.Order, error) {
		o, err := f.api.Create(ctx, p)
		if err == nil {
			f.store.Prepend(o)
		}
		return o, err
	})
}

// UpdateStatus patches only the status of the matching order once the server accepts it.
func (f *OrderFlow) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	if !status.Valid() {
		return reject(f.store, "Invalid order status")
	}
	_, err := run(ctx, f.session, f.store, "Orders", "Could not update the order status", func() (struct{}, error) {
		if _, err := f.api.UpdateStatus(ctx, id, status); err != nil {
			return struct{}{}, err
		}
		f.store.Patch(id, func(o models.Order) models.Order { return o.WithStatus(string(status)) })
		f.store.Done()
		return struct{}{}, nil
	})
	return err
}

func (f *OrderFlow) ClearError()     { f.store.ClearError() }
func (f *OrderFlow) ClearSelection() { f.store.ClearSelection() }

func (f *OrderFlow) Snapshot() store.EntityState[models.Order] { return f.store.Snapshot() }

