package app

import (
	"context"

	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type CustomerAPI interface {
	List(ctx context.Context, f models.UserFilter, page int) (models.Page[models.User], error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, p models.CreateCustomerPayload) (models.User, error)
	Update(ctx context.Context, id string, p models.UpdateCustomerPayload) (models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
}

type StaffAPI interface {
	List(ctx context.Context, f models.UserFilter, page int) (models.Page[models.User], error)
	Get(ctx context.Context, id string) (models.User, error)
	Create(ctx context.Context, p models.CreateStaffPayload) (models.User, error)
	UpdateStatus(ctx context.Context, id string, status models.UserStatus) error
}

type userLister interface {
	List(ctx context.Context, f models.UserFilter, page int) (models.Page[models.User], error)
}

func listUsers(api userLister, filter models.UserFilter, pageSize int) pageFunc[models.User] {
	filter.Limit = limitOr(filter.Limit, pageSize)
	return func(ctx context.Context, page int) (models.Page[models.User], error) {
		return api.List(ctx, filter, page)
	}
}

func updateUserStatus(ctx context.Context, g sessionGuard, s *store.EntityStore[models.User], tag, id string, status models.UserStatus,
	call func(context.Context, string, models.UserStatus) error) error {
	if !status.Valid() {
		return reject(s, "Invalid account status")
	}
	_, err := run(ctx, g, s, tag, "Could not update the account status", func() (struct{}, error) {
		if err := call(ctx, id, status); err != nil {
			return struct{}{}, err
		}
		s.Patch(id, func(u models.User) models.User { return u.WithStatus(string(status)) })
		s.Done()
		return struct{}{}, nil
	})
	return err
}

// CustomerFlow drives the customers store.
type CustomerFlow struct {
	api      CustomerAPI
	store    *store.EntityStore[models.User]
	session  sessionGuard
	pageSize int
}

func (f *CustomerFlow) Fetch(ctx context.Context, filter models.UserFilter) error {
	return fetchList(ctx, f.session, f.store, "Customers", "Could not load customers", listUsers(f.api, filter, f.pageSize))
}

func (f *CustomerFlow) LoadMore(ctx context.Context, filter models.UserFilter) error {
	return loadMore(ctx, f.session, f.store, "Customers", "Could not load more customers", listUsers(f.api, filter, f.pageSize))
}

func (f *CustomerFlow) FetchOne(ctx context.Context, id string) (models.User, error) {
	return run(ctx, f.session, f.store, "Customers", "Could not load the customer", func() (models.User, error) {
		u, err := f.api.Get(ctx, id)
		if err == nil {
			f.store.Select(u)
		}
		return u, err
	})
}

func (f *CustomerFlow) Create(ctx context.Context, p models.CreateCustomerPayload) (models.User, error) {
	if msg := validateCreateCustomer(p); msg != "" {
		return models.User{}, reject(f.store, msg)
	}
	return run(ctx, f.session, f.store, "Customers", "Could not create the customer", func() (models.User, error) {
		u, err := f.api.Create(ctx, p)
		if err == nil {
			f.store.Prepend(u)
		}
		return u, err
	})
}

// Update upserts the returned customer, refreshing the selection when it is the one shown.
func (f *CustomerFlow) Update(ctx context.Context, id string, p models.UpdateCustomerPayload) (models.User, error) {
	return run(ctx, f.session, f.store, "Customers", "Could not update the customer", func() (models.User, error) {
		u, err := f.api.Update(ctx, id, p)
		if err == nil {
			f.store.Upsert(u)
		}
		return u, err
	})
}

func (f *CustomerFlow) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	return updateUserStatus(ctx, f.session, f.store, "Customers", id, status, f.api.UpdateStatus)
}

func (f *CustomerFlow) ClearError()     { f.store.ClearError() }
func (f *CustomerFlow) ClearSelection() { f.store.ClearSelection() }

func (f *CustomerFlow) Snapshot() store.EntityState[models.User] { return f.store.Snapshot() }

// StaffFlow drives the staff store.
type StaffFlow struct {
	api      StaffAPI
	store    *store.EntityStore[models.User]
	session  sessionGuard
	pageSize int
}

func (f *StaffFlow) Fetch(ctx context.Context, filter models.UserFilter) error {
	return fetchList(ctx, f.session, f.store, "Staff", "Could not load staff", listUsers(f.api, filter, f.pageSize))
}

func (f *StaffFlow) LoadMore(ctx context.Context, filter models.UserFilter) error {
	return loadMore(ctx, f.session, f.store, "Staff", "Could not load more staff", listUsers(f.api, filter, f.pageSize))
}

func (f *StaffFlow) FetchOne(ctx context.Context, id string) (models.User, error) {
	return run(ctx, f.session, f.store, "Staff", "Could not load the staff member", func() (models.User, error) {
		u, err := f.api.Get(ctx, id)
		if err == nil {
			f.store.Select(u)
		}
		return u, err
	})
}

// Create adds a staff account; the new member verifies by OTP on first login.
func (f *StaffFlow) Create(ctx context.Context, p models.CreateStaffPayload) (models.User, error) {
	if msg := validateCreateStaff(p); msg != "" {
		return models.User{}, reject(f.store, msg)
	}
	return run(ctx, f.session, f.store, "Staff", "Could not create the staff member", func() (models.User, error) {
		u, err := f.api.Create(ctx, p)
		if err == nil {
			f.store.Prepend(u)
		}
		return u, err
	})
}

func (f *StaffFlow) UpdateStatus(ctx context.Context, id string, status models.UserStatus) error {
	return updateUserStatus(ctx, f.session, f.store, "Staff", id, status, f.api.UpdateStatus)
}

func (f *StaffFlow) ClearError()     { f.store.ClearError() }
func (f *StaffFlow) ClearSelection() { f.store.ClearSelection() }

func (f *StaffFlow) Snapshot() store.EntityState[models.User] { return f.store.Snapshot() }
