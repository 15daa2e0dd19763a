package app

import (
	"context"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type CatalogAPI interface {
	List(ctx context.Context, f models.ServiceFilter) ([]models.Service, error)
	Categories(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (models.Service, error)
	Create(ctx context.Context, p models.ServicePayload) (models.Service, error)
	Update(ctx context.Context, id string, p models.ServicePayload) (models.Service, error)
	Delete(ctx context.Context, id string) error
}

// CatalogFlow drives the services store. The catalog is not paginated, so
// it is held as a single page and LoadMore never fetches.
type CatalogFlow struct {
	api     CatalogAPI
	store   *store.CatalogStore
	session sessionGuard
}

func (f *CatalogFlow) lister(filter models.ServiceFilter) pageFunc[models.Service] {
	return func(ctx context.Context, _ int) (models.Page[models.Service], error) {
		items, err := f.api.List(ctx, filter)
		if err != nil {
			return models.Page[models.Service]{}, err
		}
		return models.SinglePage(items), nil
	}
}

func (f *CatalogFlow) Fetch(ctx context.Context, filter models.ServiceFilter) error {
	return fetchList(ctx, f.session, f.store.EntityStore, "Services", "Could not load services", f.lister(filter))
}

func (f *CatalogFlow) LoadMore(ctx context.Context, filter models.ServiceFilter) error {
	return loadMore(ctx, f.session, f.store.EntityStore, "Services", "Could not load more services", f.lister(filter))
}

func (f *CatalogFlow) FetchCategories(ctx context.Context) ([]string, error) {
	return run(ctx, f.session, f.store.EntityStore, "Services", "Could not load categories", func() ([]string, error) {
		c, err := f.api.Categories(ctx)
		if err == nil {
			f.store.SetCategories(c)
			f.store.Done()
		}
		return c, err
	})
}

func (f *CatalogFlow) FetchOne(ctx context.Context, id string) (models.Service, error) {
	return run(ctx, f.session, f.store.EntityStore, "Services", "Could not load the service", func() (models.Service, error) {
		s, err := f.api.Get(ctx, id)
		if err == nil {
			f.store.Select(s)
		}
		return s, err
	})
}

// Create puts the server's representation at the head of the list.
func (f *CatalogFlow) Create(ctx context.Context, p models.ServicePayload) (models.Service, error) {
	if msg := validateCreateService(p); msg != "" {
		return models.Service{}, reject(f.store.EntityStore, msg)
	}
	return run(ctx, f.session, f.store.EntityStore, "Services", "Could not create the service", func() (models.Service, error) {
		s, err := f.api.Create(ctx, p)
		if err == nil {
			f.store.Prepend(s)
		}
		return s, err
	})
}

func (f *CatalogFlow) Update(ctx context.Context, id string, p models.ServicePayload) (models.Service, error) {
	if msg := validateServicePrice(p); msg != "" {
		return models.Service{}, reject(f.store.EntityStore, msg)
	}
	return run(ctx, f.session, f.store.EntityStore, "Services", "Could not update the service", func() (models.Service, error) {
		s, err := f.api.Update(ctx, id, p)
		if err == nil {
			f.store.Upsert(s)
		}
		return s, err
	})
}

func (f *CatalogFlow) Delete(ctx context.Context, id string) error {
	_, err := run(ctx, f.session, f.store.EntityStore, "Services", "Could not delete the service", func() (struct{}, error) {
		if err := f.api.Delete(ctx, id); err != nil {
			return struct{}{}, err
		}
		f.store.Remove(id)
		return struct{}{}, nil
	})
	return err
}

func (f *CatalogFlow) ClearError()     { f.store.ClearError() }
func (f *CatalogFlow) ClearSelection() { f.store.ClearSelection() }

func (f *CatalogFlow) Snapshot() store.EntityState[models.Service] { return f.store.Snapshot() }
func (f *CatalogFlow) Categories() []string                          { return f.store.Categories() }
