package models

// Pagination is attached to every paginated list. The server values are authoritative.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// HasMore reports whether a page after the current one exists.
func (p Pagination) HasMore() bool {
	return p.Page < p.TotalPages
}

// Envelope is the shape of every API response body.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// Entity is anything stored by id in an entity store.
type Entity interface {
	Key() string
}

// Page is one page of a list fetch.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// SinglePage wraps an unpaginated result as the only page.
func SinglePage[T any](items []T) Page[T] {
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Page:       1,
			Limit:      len(items),
			Total:      len(items),
			TotalPages: 1,
		},
	}
}

type OrderList struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

type CustomerList struct {
	Customers  []User     `json:"customers"`
	Pagination Pagination `json:"pagination"`
}

type UserList struct {
	Users      []User     `json:"users"`
	Pagination Pagination `json:"pagination"`
}
