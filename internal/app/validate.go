package app

import (
	"strings"
	"unicode/utf8"

	"github.com/example/laundrypro/internal/models"
)

const (
	minPhoneLength          = 10
	minStaffNameLength      = 2
	minChangePasswordLength = 8
)

func validateCreateOrder(p models.CreateOrderPayload) string {
	switch {
	case utf8.RuneCountInString(strings.TrimSpace(p.CustomerPhone)) < minPhoneLength:
		return "Customer phone must be at least 10 digits"
	case strings.TrimSpace(p.CustomerName) == "":
		return "Customer name is required"
	case len(p.Items) == 0:
		return "Add at least one service"
	}
	for _, it := range p.Items {
		if it.ServiceID == "" {
			return "Every item needs a service"
		}
		if it.Quantity <= 0 {
			return "Quantity must be greater than 0"
		}
		if it.UnitPrice != nil && *it.UnitPrice < 0 {
			return "Unit price cannot be negative"
		}
	}
	return ""
}

func validateCreateService(p models.ServicePayload) string {
	switch {
	case p.Name == nil || strings.TrimSpace(*p.Name) == "":
		return "Service name is required"
	case p.Category == nil || strings.TrimSpace(*p.Category) == "":
		return "Category is required"
	case p.Unit == nil || strings.TrimSpace(*p.Unit) == "":
		return "Unit is required"
	case p.Price == nil:
		return "Price is required"
	}
	return validateServicePrice(p)
}

func validateServicePrice(p models.ServicePayload) string {
	if p.Price != nil && *p.Price <= 0 {
		return "Price must be greater than 0"
	}
	return ""
}

func validateCreateCustomer(p models.CreateCustomerPayload) string {
	switch {
	case utf8.RuneCountInString(strings.TrimSpace(p.Phone)) < minPhoneLength:
		return "Phone number must be at least 10 digits"
	case strings.TrimSpace(p.Name) == "":
		return "Customer name is required"
	}
	return ""
}

func validateCreateStaff(p models.CreateStaffPayload) string {
	switch {
	case utf8.RuneCountInString(strings.TrimSpace(p.Phone)) < minPhoneLength:
		return "Phone number must be at least 10 digits"
	case utf8.RuneCountInString(strings.TrimSpace(p.Name)) < minStaffNameLength:
		return "Name must be at least 2 characters"
	}
	return ""
}

func validateChangePassword(p models.ChangePasswordPayload) string {
	switch {
	case p.CurrentPassword == "":
		return "Current password is required"
	case len(p.NewPassword) < minChangePasswordLength:
		return "New password must be at least 8 characters"
	case p.NewPassword != p.ConfirmPassword:
		return "Passwords do not match"
	}
	return ""
}
