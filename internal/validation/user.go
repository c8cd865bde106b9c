package validation

import (
	"github.com/Skotchmaster/products_api/internal/httperr"
)

type UserRegister struct {
	Name     *string `json:"name"     validate:"omitnil,max=255"`
	Email    *string `json:"email"    validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=8"`
	Role     *string `json:"role"     validate:"omitnil,oneof=admin user"`
}

func (r *UserRegister) Validate() error {
	missing := map[string][]string{}
	if r.Name == nil {
		missing["name"] = append(missing["name"], requiredMsg("name"))
	}
	if r.Email == nil {
		missing["email"] = append(missing["email"], requiredMsg("email"))
	}
	if r.Password == nil {
		missing["password"] = append(missing["password"], requiredMsg("password"))
	}
	if r.Role == nil {
		missing["role"] = append(missing["role"], requiredMsg("role"))
	}
	return checkWith(r, missing)
}

// EmailTaken is the uniqueness violation surfaced through the same 422
// envelope as the rule failures.
func EmailTaken() error {
	return httperr.Validation("invalid data", map[string][]string{
		"email": {"the email has already been taken"},
	})
}
