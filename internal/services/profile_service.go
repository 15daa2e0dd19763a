package services

import (
	"context"
	"net/http"

	"github.com/example/laundrypro/internal/apiclient"
	"github.com/example/laundrypro/internal/models"
)

type ProfileService struct {
	api Requester
}

func NewProfileService(api Requester) *ProfileService {
	return &ProfileService{api: api}
}

// UpdateProfile sends the changed fields and optional avatar as multipart form data.
func (s *ProfileService) UpdateProfile(ctx context.Context, p models.UpdateProfilePayload) (models.User, error) {
	form := apiclient.NewForm().
		SetString("name", p.Name).
		SetString("email", p.Email).
		SetString("address", p.Address)
	if p.Avatar != nil {
		avatar := *p.Avatar
		avatar.FieldName = "avatar"
		if avatar.FileName == "" {
			avatar.FileName = "avatar.jpg"
		}
		if avatar.ContentType == "" {
			avatar.ContentType = "image/jpeg"
		}
		form.Attach(&avatar)
	}

	var out models.User
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/users/profile",
		Form:   form,
	}, &out)
	return out, err
}

func (s *ProfileService) ChangePassword(ctx context.Context, p models.ChangePasswordPayload) error {
	return s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/users/password",
		Body:   p,
	}, nil)
}
