// Package validation checks the shape of typed request inputs before they reach
// the authority lifecycle manager. It never touches the store.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/authdesk/authdesk/internal/apperr"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator instance. Field names in errors are
// taken from the json tag.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			if name == "" {
				return f.Name
			}

			return name
		})
	})

	return instance
}

// Struct validates v and returns an *apperr.Error of KindValidation listing
// every failed field, or nil.
func Struct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = rule(fe)
	}

	return apperr.Validation(fields)
}

// rule renders a failed constraint like "min=6" or "required".
func rule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}

	return fe.Tag() + "=" + fe.Param()
}
