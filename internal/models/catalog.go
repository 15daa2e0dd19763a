package models

import "time"

// Service is a laundry service in the catalog.
type Service struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Unit      string    `json:"unit"`
	Image     string    `json:"image,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s Service) Key() string { return s.ID }

// ServiceFilter narrows GET /services. Nil pointers are not sent.
type ServiceFilter struct {
	Active   *bool
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
}

// ServicePayload is sent as multipart form data. On update every field is optional.
type ServicePayload struct {
	Name     *string
	Category *string
	Price    *float64
	Unit     *string
	Active   *bool
	Image    *Upload
}
