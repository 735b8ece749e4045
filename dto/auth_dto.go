package dto

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/validation"
)

type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Model rejects self-registration as admin.
func (d RegisterDTO) Model() (*models.User, error) {
	u, err := CreateUserDTO(d).Model()
	if err != nil {
		return nil, err
	}
	if u.Role == models.RoleAdmin {
		return nil, errs.E(errs.ErrValidation, "role: %q is not an allowed value", u.Role)
	}
	return u, nil
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (d *LoginDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email == "" || d.Password == "" {
		return errs.E(errs.ErrValidation, "Please provide an email and password")
	}
	return validation.Struct(d)
}

type ForgotPasswordDTO struct {
	Email string `json:"email" validate:"required,email"`
}

func (d *ForgotPasswordDTO) Validate() error {
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	return validation.Struct(d)
}

type ResetPasswordDTO struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (d *ResetPasswordDTO) Validate() error {
	return validation.Struct(d)
}

type UpdatePasswordDTO struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (d *UpdatePasswordDTO) Validate() error {
	return validation.Struct(d)
}

// UpdateDetailsDTO lets users change their own name and email only.
type UpdateDetailsDTO struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (d UpdateDetailsDTO) Apply(u *models.User) (bson.M, error) {
	return UpdateUserDTO{Name: d.Name, Email: d.Email}.Apply(u)
}
