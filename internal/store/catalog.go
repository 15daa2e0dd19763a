package store

import (
	"sync"

	"github.com/example/laundrypro/internal/models"
)

// CatalogStore is the services store plus the category list.
type CatalogStore struct {
	*EntityStore[models.Service]

	catMu      sync.RWMutex
	categories []string
}

func NewCatalogStore() *CatalogStore {
	return &CatalogStore{EntityStore: NewEntityStore[models.Service]()}
}

func (s *CatalogStore) Categories() []string {
	s.catMu.RLock()
	defer s.catMu.RUnlock()
	return append([]string(nil), s.categories...)
}

func (s *CatalogStore) SetCategories(c []string) {
	s.catMu.Lock()
	s.categories = append([]string(nil), c...)
	s.catMu.Unlock()
	s.subs.notify()
}

func (s *CatalogStore) Reset() {
	s.catMu.Lock()
	s.categories = nil
	s.catMu.Unlock()
	s.EntityStore.Reset()
}
