// internal/server/handlers/validate.go

package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"trendlab/internal/domain/trend"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("platform", func(fl validator.FieldLevel) bool {
		return trend.Platform(fl.Field().String()).Valid()
	})

	return v
}

// validationMessage turns validator errors into one client-facing line
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return "Invalid request"
	}

	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "platform":
			messages = append(messages, fmt.Sprintf("%s is not a supported platform", e.Field()))
		case "uuid":
			messages = append(messages, fmt.Sprintf("%s must be a UUID", e.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return strings.Join(messages, "; ")
}
