package app

import (
	"context"
	"log"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type ProfileAPI interface {
	UpdateProfile(ctx context.Context, p models.UpdateProfilePayload) (models.User, error)
	ChangePassword(ctx context.Context, p models.ChangePasswordPayload) error
}

// sessionOwner folds an updated identity into the session and ends it when
// the server no longer accepts it.
type sessionOwner interface {
	sessionGuard
	MergeUser(u models.User)
}

type ProfileFlow struct {
	api     ProfileAPI
	store   *store.ProfileStore
	session sessionOwner
}

func (f *ProfileFlow) begin() {
	f.store.Update(func(st *store.ProfileState) {
		st.Loading = true
		st.Error = ""
		st.PasswordChanged = false
	})
}

func (f *ProfileFlow) fail(ctx context.Context, err error, fallback string) error {
	if !apperr.Is(err, apperr.KindValidation) {
		log.Printf("[Profile] %s: %v", fallback, err)
	}
	f.store.Update(func(st *store.ProfileState) {
		st.Loading = false
		st.Error = apperr.Message(err, fallback)
	})
	f.session.Expire(ctx, err)
	return err
}

// Update sends the profile form and merges the returned user into the session.
func (f *ProfileFlow) Update(ctx context.Context, p models.UpdateProfilePayload) (models.User, error) {
	f.begin()
	u, err := f.api.UpdateProfile(ctx, p)
	if err != nil {
		return u, f.fail(ctx, err, "Could not update your profile")
	}
	f.session.MergeUser(u)
	f.store.Update(func(st *store.ProfileState) { st.Loading = false })
	return u, nil
}

func (f *ProfileFlow) ChangePassword(ctx context.Context, p models.ChangePasswordPayload) error {
	if msg := validateChangePassword(p); msg != "" {
		return f.fail(ctx, apperr.Validation(msg), msg)
	}
	f.begin()
	if err := f.api.ChangePassword(ctx, p); err != nil {
		return f.fail(ctx, err, "Could not change your password")
	}
	f.store.Update(func(st *store.ProfileState) {
		st.Loading = false
		st.PasswordChanged = true
	})
	return nil
}

func (f *ProfileFlow) ClearError() {
	f.store.Update(func(st *store.ProfileState) { st.Error = "" })
}

func (f *ProfileFlow) Snapshot() store.ProfileState { return f.store.Snapshot() }
