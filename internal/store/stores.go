package store

import "github.com/example/laundrypro/internal/models"

// Stores is the whole application state.
type Stores struct {
	Session   *Session
	Orders    *EntityStore[models.Order]
	Services  *CatalogStore
	Customers *EntityStore[models.User]
	Staff     *EntityStore[models.User]
	Profile   *ProfileStore
}

func New() *Stores {
	return &Stores{
		Session:   NewSession(),
		Orders:    NewEntityStore[models.Order](),
		Services:  NewCatalogStore(),
		Customers: NewEntityStore[models.User](),
		Staff:     NewEntityStore[models.User](),
		Profile:   NewProfileStore(),
	}
}

// ResetAll returns the session and every entity store to their initial state.
func (s *Stores) ResetAll() {
	s.Orders.Reset()
	s.Services.Reset()
	s.Customers.Reset()
	s.Staff.Reset()
	s.Profile.Reset()
	s.Session.Reset()
}
