package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/example/laundrypro/internal/apiclient"
)

// Requester issues one API call. *apiclient.Client satisfies it.
type Requester interface {
	Do(ctx context.Context, r apiclient.Request, out any) error
}

func pageQuery(page, limit int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func escape(id string) string { return url.PathEscape(id) }
