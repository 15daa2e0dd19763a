package apiclient

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sort"
	"sync"
	"time"
)

// CookieStore persists session cookies between process runs. Implementations
// are keyed by API origin.
type CookieStore interface {
	LoadCookies(ctx context.Context, origin string) ([]*http.Cookie, error)
	SaveCookies(ctx context.Context, origin string, cookies []*http.Cookie) error
	ClearCookies(ctx context.Context, origin string) error
}

// PersistentJar is an in-memory cookie jar mirrored into an optional CookieStore.
// The stored set is every live cookie received for the origin, keyed by name,
// whatever path it was scoped to.
type PersistentJar struct {
	mu     sync.Mutex
	origin *url.URL
	jar    *cookiejar.Jar
	held   map[string]*http.Cookie
	store  CookieStore
}

// NewPersistentJar creates a jar for origin and seeds it from store when one is given.
func NewPersistentJar(origin *url.URL, store CookieStore) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	j := &PersistentJar{
		origin: rootOf(origin),
		jar:    jar,
		held:   make(map[string]*http.Cookie),
		store:  store,
	}
	if store == nil {
		return j, nil
	}

	saved, err := store.LoadCookies(context.Background(), j.origin.String())
	if err != nil {
		log.Printf("[Gateway] could not restore session cookies: %v", err)
		return j, nil
	}
	for _, c := range saved {
		c.Path = "/"
		j.held[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
	}
	j.jar.SetCookies(j.origin, saved)
	return j, nil
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		held := &http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires}
		if c.MaxAge > 0 {
			held.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if c.MaxAge < 0 || (!held.Expires.IsZero() && !held.Expires.After(now)) {
			delete(j.held, c.Name)
			continue
		}
		j.held[c.Name] = held
	}

	if j.store == nil {
		return
	}
	if err := j.store.SaveCookies(context.Background(), j.origin.String(), j.snapshot()); err != nil {
		log.Printf("[Gateway] could not persist session cookies: %v", err)
	}
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Clear forgets every cookie, locally and in the backing store.
func (j *PersistentJar) Clear(ctx context.Context) error {
	fresh, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("create cookie jar: %w", err)
	}

	j.mu.Lock()
	j.jar = fresh
	j.held = make(map[string]*http.Cookie)
	j.mu.Unlock()

	if j.store == nil {
		return nil
	}
	if err := j.store.ClearCookies(ctx, j.origin.String()); err != nil {
		return fmt.Errorf("clear stored cookies: %w", err)
	}
	return nil
}

// snapshot copies the held cookies in name order. Callers hold j.mu.
func (j *PersistentJar) snapshot() []*http.Cookie {
	out := make([]*http.Cookie, 0, len(j.held))
	for _, c := range j.held {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func rootOf(u *url.URL) *url.URL {
	return &url.URL{Scheme: u.Scheme, Host: u.Host, Path: "/"}
}
