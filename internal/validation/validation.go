// Package validation checks decoded request bodies with go-playground
// validator and reports field problems by their JSON names.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Error lists the fields that failed validation.  Missing holds fields that
// were absent or blank; Invalid maps a present field to the rule it broke.
type Error struct {
	Missing []string
	Invalid map[string]string
}

func (e *Error) Error() string {
	switch {
	case len(e.Missing) > 0:
		return "Missing required fields: " + strings.Join(e.Missing, ", ")
	case len(e.Invalid) > 0:
		names := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			names = append(names, k)
		}
		sort.Strings(names)
		return "Invalid fields: " + strings.Join(names, ", ")
	}
	return "validation failed"
}

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the notblank and jsondoc rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("jsondoc", jsonDoc)
	return &Validator{v: v}
}

// Validate runs the struct rules on i.  Failures come back as *Error; any
// other error means i was not a struct.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{}
	seen := map[string]bool{}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required", "notblank":
			if !seen[field] {
				seen[field] = true
				out.Missing = append(out.Missing, field)
			}
		default:
			if out.Invalid == nil {
				out.Invalid = map[string]string{}
			}
			out.Invalid[field] = rule(fe)
		}
	}
	return out
}

// rule renders the failed tag the way clients see it, e.g. "oneof=male female other".
func rule(fe validator.FieldError) string {
	if p := fe.Param(); p != "" {
		return fe.Tag() + "=" + p
	}
	return fe.Tag()
}

// notBlank rejects strings that are empty after trimming.  Pointers are
// checked through; a nil pointer fails unless omitempty skips the field.
func notBlank(fl validator.FieldLevel) bool {
	f := fl.Field()
	if f.Kind() == reflect.String {
		return strings.TrimSpace(f.String()) != ""
	}
	return !f.IsZero()
}

// jsonDoc accepts a json.RawMessage holding an object or an array.
func jsonDoc(fl validator.FieldLevel) bool {
	raw, ok := fl.Field().Interface().(json.RawMessage)
	if !ok {
		return false
	}
	s := strings.TrimSpace(string(raw))
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return false
	}
	return json.Valid([]byte(s))
}
