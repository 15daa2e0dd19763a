package app

import (
	"context"
	"log"

	"github.com/example/laundrypro/internal/apperr"
	"github.com/example/laundrypro/internal/models"
	"github.com/example/laundrypro/internal/store"
)

type pageFunc[T models.Entity] func(ctx context.Context, page int) (models.Page[T], error)

// sessionGuard ends the local session when the server stops accepting it.
type sessionGuard interface {
	Expire(ctx context.Context, err error) bool
}

func endSession(ctx context.Context, g sessionGuard, err error) {
	if g != nil {
		g.Expire(ctx, err)
	}
}

// fetchList replaces the collection with page 1.
func fetchList[T models.Entity](ctx context.Context, g sessionGuard, s *store.EntityStore[T], tag, fallback string, fetch pageFunc[T]) error {
	t := s.BeginList()
	page, err := fetch(ctx, 1)
	if err != nil {
		log.Printf("[%s] fetch failed: %v", tag, err)
		s.FailList(t, apperr.Message(err, fallback))
		endSession(ctx, g, err)
		return err
	}
	s.ApplyFetch(t, page)
	return nil
}

// loadMore appends the next page. Once the last page is held it does nothing.
func loadMore[T models.Entity](ctx context.Context, g sessionGuard, s *store.EntityStore[T], tag, fallback string, fetch pageFunc[T]) error {
	next, ok := s.NextPage()
	if !ok {
		return nil
	}

	t := s.BeginList()
	page, err := fetch(ctx, next)
	if err != nil {
		log.Printf("[%s] load more (page %d) failed: %v", tag, next, err)
		s.FailList(t, apperr.Message(err, fallback))
		endSession(ctx, g, err)
		return err
	}
	s.ApplyLoadMore(t, page)
	return nil
}

// run wraps a single-entity operation: the previous error is cleared, the
// failure message is stored, and the error is returned.
func run[T models.Entity, R any](ctx context.Context, g sessionGuard, s *store.EntityStore[T], tag, fallback string, op func() (R, error)) (R, error) {
	s.Begin()
	out, err := op()
	if err != nil {
		if !apperr.Is(err, apperr.KindValidation) {
			log.Printf("[%s] %s: %v", tag, fallback, err)
		}
		s.Fail(apperr.Message(err, fallback))
		endSession(ctx, g, err)
	}
	return out, err
}

// reject stores a validation failure without touching the network.
func reject[T models.Entity](s *store.EntityStore[T], msg string) error {
	s.Fail(msg)
	return apperr.Validation(msg)
}

func limitOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	return fallback
}
