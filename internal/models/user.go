package models

import "time"

// Role is the access level of an account.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// IsStaffOrAdmin reports whether the role may operate the shop counter.
func (r Role) IsStaffOrAdmin() bool {
	return r == RoleStaff || r == RoleAdmin
}

// UserStatus is the lifecycle state of an account.
type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserSuspended UserStatus = "suspended"
)

// Valid reports whether s is a known account status.
func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserSuspended
}

// LoginMethod is the credential the server expects for a phone number.
type LoginMethod string

const (
	LoginOTP      LoginMethod = "otp"
	LoginPassword LoginMethod = "password"
)

// User is the identity returned by the API. Customers and staff are projections of it.
type User struct {
	ID          string     `json:"_id"`
	Phone       string     `json:"phone"`
	FirebaseUID string     `json:"firebaseUid,omitempty"`
	Email       string     `json:"email,omitempty"`
	Name        string     `json:"name,omitempty"`
	Role        Role       `json:"role"`
	Address     string     `json:"address,omitempty"`
	Avatar      string     `json:"avatar,omitempty"`
	IsVerified  bool       `json:"isVerified"`
	HasPassword bool       `json:"hasPassword"`
	Status      UserStatus `json:"status"`
	Note        string     `json:"note,omitempty"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (u User) Key() string { return u.ID }

// WithStatus returns a copy of u with only the status changed.
func (u User) WithStatus(status string) User {
	u.Status = UserStatus(status)
	return u
}

// CheckLoginResult is returned by POST /users/check-login.
type CheckLoginResult struct {
	LoginMethod LoginMethod `json:"loginMethod"`
	HasPassword bool        `json:"hasPassword"`
	IsVerified  bool        `json:"isVerified"`
	Role        Role        `json:"role"`
}

type LoginPasswordPayload struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type SetPasswordPayload struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UserFilter narrows staff and customer listings.
type UserFilter struct {
	Search string
	Role   Role
	Status UserStatus
	Limit  int
}

type CreateCustomerPayload struct {
	Phone   string `json:"phone"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Note    string `json:"note,omitempty"`
}

// UpdateCustomerPayload carries the editable customer fields; the id travels in the path.
type UpdateCustomerPayload struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Address *string `json:"address,omitempty"`
	Note    *string `json:"note,omitempty"`
}

type CreateStaffPayload struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type StatusPayload struct {
	Status string `json:"status"`
}
