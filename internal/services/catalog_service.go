package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/models"
)

// CatalogService manages laundry services. Reads are public; writes are admin-only.
type CatalogService struct {
	api Requester
}

func NewCatalogService(api Requester) *CatalogService {
	return &CatalogService{api: api}
}

// List is not paginated upstream; the whole filtered catalog comes back at once.
func (s *CatalogService) List(ctx context.Context, f models.ServiceFilter) ([]models.Service, error) {
	q := url.Values{}
	if f.Active != nil {
		q.Set("active", strconv.FormatBool(*f.Active))
	}
	setIf(q, "category", f.Category)
	setIf(q, "search", f.Search)
	if f.MinPrice != nil {
		q.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}

	var out []models.Service
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/services", Query: q}, &out)
	return out, err
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/services/categories"}, &out)
	return out, err
}

func (s *CatalogService) Get(ctx context.Context, id string) (models.Service, error) {
	var out models.Service
	err := s.api.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/services/" + escape(id)}, &out)
	return out, err
}

func (s *CatalogService) Create(ctx context.Context, p models.ServicePayload) (models.Service, error) {
	var out models.Service
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/services",
		Form:   serviceForm(p),
	}, &out)
	return out, err
}

func (s *CatalogService) Update(ctx context.Context, id string, p models.ServicePayload) (models.Service, error) {
	var out models.Service
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/services/" + escape(id),
		Form:   serviceForm(p),
	}, &out)
	return out, err
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: "/services/" + escape(id)}, nil)
}

func serviceForm(p models.ServicePayload) *apiclient.Form {
	form := apiclient.NewForm().
		SetString("name", p.Name).
		SetString("category", p.Category).
		SetFloat("price", p.Price).
		SetString("unit", p.Unit).
		SetBool("active", p.Active)
	if p.Image != nil {
		img := *p.Image
		img.FieldName = "image"
		if img.FileName == "" {
			img.FileName = "service.jpg"
		}
		form.Attach(&img)
	}
	return form
}
