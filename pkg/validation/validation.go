// Package validation is the typed input-validation layer shared by services.
// Struct tags are interpreted by go-playground/validator and failures are
// reported as invalid AppErrors so they surface as 400-class outcomes.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// max counts runes; maxbytes bounds the encoded length, e.g. for bcrypt input.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// Struct validates s and returns an AppError with CodeInvalid on failure.
// The error's Meta carries one entry per offending field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErr.Wrap(err, appErr.CodeInvalid, "invalid input")
	}

	msgs := make([]string, 0, len(verrs))
	out := appErr.New(appErr.CodeInvalid, "")
	for _, fe := range verrs {
		msg := describe(fe)
		msgs = append(msgs, msg)
		out = out.WithMeta(fe.Field(), msg)
	}
	out.Message = strings.Join(msgs, "; ")
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	case "hexadecimal", "lowercase", "len":
		return fmt.Sprintf("%s has an invalid format", fe.Field())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}
