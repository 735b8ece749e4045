package dto

import (
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
	"github.com/ZacIsrael/dev-camper-api/validation"
)

// CreateUserDTO is the admin-side account creation input; any role is allowed.
type CreateUserDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// Model returns the user with its plaintext password; hashing happens in
// the service.
func (d CreateUserDTO) Model() (*models.User, error) {
	u := &models.User{
		Name:     strings.TrimSpace(d.Name),
		Email:    strings.ToLower(strings.TrimSpace(d.Email)),
		Role:     models.Role(strings.TrimSpace(d.Role)),
		Password: d.Password,
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if err := validation.Struct(u); err != nil {
		return nil, err
	}
	return u, nil
}

type UpdateUserDTO struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
	Password *string `json:"password"`
}

// Apply sets the plaintext password when one is given; the caller must
// hash set["password"] before storing it.
func (d UpdateUserDTO) Apply(u *models.User) (bson.M, error) {
	set := bson.M{}
	if d.Name != nil {
		u.Name = strings.TrimSpace(*d.Name)
		set["name"] = u.Name
	}
	if d.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*d.Email))
		set["email"] = u.Email
	}
	if d.Role != nil {
		u.Role = models.Role(strings.TrimSpace(*d.Role))
		set["role"] = u.Role
	}
	if d.Password != nil {
		u.Password = *d.Password
		set["password"] = u.Password
	}

	if len(set) == 0 {
		return nil, errs.E(errs.ErrValidation, "no updates provided")
	}
	if err := validateUser(u, d.Password != nil); err != nil {
		return nil, err
	}
	return set, nil
}

// validateUser skips the password rule when the stored record was read
// without its hash and no new password is being set.
func validateUser(u *models.User, withPassword bool) error {
	if withPassword {
		return validation.Struct(u)
	}
	return validation.StructExcept(u, "Password")
}
