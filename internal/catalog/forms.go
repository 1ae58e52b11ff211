package catalog

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wearevirtua/catalog/internal/domain"
)

// ProductForm is the typed create payload. The category field carries the
// referenced ProductCategory id.
type ProductForm struct {
	Name        string `json:"name" form:"name" validate:"required,max=200"`
	Description string `json:"description" form:"description" validate:"required"`
	CategoryID  int64  `json:"category" form:"category" validate:"required"`
}

// ProductUpdateForm applies only the provided fields. A provided name must
// not be blank; a provided category must resolve.
type ProductUpdateForm struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" form:"description"`
	CategoryID  *int64  `json:"category" form:"category" validate:"omitempty,gt=0"`
}

type CategoryForm struct {
	Name        string `json:"name" form:"name" validate:"required,max=200"`
	Description string `json:"description" form:"description"`
}

type CategoryUpdateForm struct {
	Name        *string `json:"name" form:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" form:"description"`
}

// newValidator builds the shared validator, reporting fields by their json
// tag so error maps match the wire names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateStruct(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = messageFor(fe)
	}
	return &domain.ValidationError{Fields: fields}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This value should not be blank."
	case "min":
		return "This value should not be blank."
	case "max":
		return "This value is too long."
	case "gt":
		return "This value is not valid."
	default:
		return "This value is not valid."
	}
}
