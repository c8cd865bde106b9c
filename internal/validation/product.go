package validation

import (
	"github.com/Skotchmaster/products_api/internal/httperr"
)

type ProductCreate struct {
	Name        *string  `json:"name"        validate:"omitnil,max=255"`
	Description *string  `json:"description" validate:"omitnil"`
	Price       *float64 `json:"price"       validate:"omitnil,min=1"`
	Stock       *int     `json:"stock"       validate:"omitnil,min=0"`
}

func (r *ProductCreate) Validate() error {
	missing := map[string][]string{}
	if r.Name == nil {
		missing["name"] = append(missing["name"], requiredMsg("name"))
	}
	if r.Price == nil {
		missing["price"] = append(missing["price"], requiredMsg("price"))
	}
	if r.Stock == nil {
		missing["stock"] = append(missing["stock"], requiredMsg("stock"))
	}
	return checkWith(r, missing)
}

type ProductUpdate struct {
	Name        *string  `json:"name"        validate:"omitnil,max=255"`
	Description *string  `json:"description" validate:"omitnil"`
	Price       *float64 `json:"price"       validate:"omitnil,min=1"`
	Stock       *int     `json:"stock"       validate:"omitnil,min=0"`
}

func (r *ProductUpdate) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil && r.Stock == nil
}

// Validate rejects an empty update outright, before any per-field rule.
func (r *ProductUpdate) Validate() error {
	if r.IsEmpty() {
		return httperr.Validation("you must send at least one field to update the product", nil)
	}
	return Check(r)
}
