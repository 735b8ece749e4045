// Package validation holds the single validator used for request input and
// for records before they are written.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ZacIsrael/dev-camper-api/errs"
	"github.com/ZacIsrael/dev-camper-api/models"
)

var webURL = regexp.MustCompile(`^https?://(www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_+.~#?&/=]*)$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return strings.ToLower(f.Name[:1]) + f.Name[1:]
		}
		return name
	})
	must(v.RegisterValidation("career", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Careers, fl.Field().String())
	}))
	must(v.RegisterValidation("skill", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.Skills, fl.Field().String())
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("weburl", func(fl validator.FieldLevel) bool {
		return webURL.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Struct validates s and reports the first failing field as an
// errs.ErrValidation.
func Struct(s any) error {
	return translate(validate.Struct(s))
}

// StructExcept validates s while skipping the named fields (Go field names).
func StructExcept(s any, fields ...string) error {
	return translate(validate.StructExcept(s, fields...))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errs.Wrap(errs.ErrValidation, err, "Invalid input")
	}
	return errs.E(errs.ErrValidation, "%s", describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s can not be more than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "min":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "weburl":
		return fmt.Sprintf("%s must be a valid URL with HTTP or HTTPS", field)
	case "career", "skill", "role":
		return fmt.Sprintf("%s: %q is not an allowed value", field, fmt.Sprint(fe.Value()))
	}
	return fmt.Sprintf("%s is invalid", field)
}

// fieldPath drops the struct name from the namespace: "Bootcamp.careers[0]"
// becomes "careers[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}
