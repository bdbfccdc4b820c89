package organization

import (
	"github.com/AdrianRusan/employee-profile-management-system-sub000/internal/user"
)

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	// Slug opsional, di-generate dari Name kalau kosong
	Slug string `json:"slug"`

	// Akun MANAGER pertama dibuat bersama organization-nya
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8"`
	AdminFullName string `json:"admin_full_name" binding:"required"`
}

type UpdateOrganizationRequest struct {
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type OrganizationResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Active bool   `json:"active"`
}

type CreateOrganizationResponse struct {
	Organization OrganizationResponse `json:"organization"`
	Admin        user.UserResponse    `json:"admin"`
}
