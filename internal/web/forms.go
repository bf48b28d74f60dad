package web

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

type addForm struct {
	Name     string  `form:"name" binding:"required"`
	Price    float64 `form:"price" binding:"gt=0"`
	Quantity int     `form:"quantity" binding:"gt=0"`
}

// normalize trims the name and reports whether the form describes a
// product: a non-empty name and a finite price.
func (f *addForm) normalize() bool {
	f.Name = strings.TrimSpace(f.Name)
	if math.IsInf(f.Price, 0) || math.IsNaN(f.Price) {
		return false
	}
	return f.Name != ""
}

type stockForm struct {
	ProductID int64 `form:"product_id" binding:"required"`
	Quantity  int   `form:"quantity" binding:"min=0"`
}

type sellForm struct {
	ProductID int64 `form:"product_id" binding:"required"`
	Quantity  int   `form:"quantity" binding:"required,min=1"`
}

// fieldErrors maps each failed field to the rule it broke. Bind errors that
// are not validation failures, such as a non-numeric price, map to "form".
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["form"] = err.Error()
		return out
	}
	for _, ve := range verrs {
		out[ve.Field()] = ve.Tag()
	}
	return out
}
