package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fixed field error messages used outside the tag translation below.
const (
	msgCategoryNotExists  = "Selected category does not exist."
	msgEmailTaken         = "Email is already taken."
	msgInvalidCredentials = "These credentials do not match our records."
)

// newValidator builds the validator used by all handlers. Field names in
// validation errors come from the json tag, matching the keys clients send.
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

// fieldErrors translates a validator error into the 422 field error map.
// Unknown failures get a generic per-field message so the map is never empty
// when validation failed.
func fieldErrors(err error) map[string][]string {
	out := make(map[string][]string)

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["payload"] = []string{"The request payload is invalid."}
		return out
	}

	for _, fe := range verrs {
		field := fe.Field()
		out[field] = append(out[field], fieldMessage(field, fe.Tag(), fe.Param()))
	}
	return out
}

// fieldMessage maps a (field, failed tag) pair to its client-facing message.
func fieldMessage(field, tag, param string) string {
	label := fieldLabel(field)

	switch tag {
	case "required":
		return label + " is required."
	case "min":
		// min=1 on optional string fields means "present but empty".
		if param == "1" {
			return label + " is required."
		}
		return fmt.Sprintf("%s must be at least %s characters.", label, param)
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters.", label, param)
	case "email":
		return label + " must be a valid email address."
	case "eqfield":
		return label + " does not match."
	case "gt":
		return label + " is invalid."
	default:
		return label + " is invalid."
	}
}

// fieldLabel turns a json field name into its message label, e.g.
// "category_id" becomes "Category" and "password_confirmation" becomes
// "Password confirmation".
func fieldLabel(field string) string {
	name := strings.TrimSuffix(field, "_id")
	name = strings.ReplaceAll(name, "_", " ")
	if name == "" {
		return field
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
