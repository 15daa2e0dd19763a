package models

// Upload is a file attached to a multipart request.
type Upload struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// UpdateProfilePayload is sent as multipart form data to PUT /users/profile.
type UpdateProfilePayload struct {
	Name    *string
	Email   *string
	Address *string
	Avatar  *Upload
}

type ChangePasswordPayload struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
