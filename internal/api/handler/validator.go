package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Piladin/ZTPAI/internal/core/domain"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// checker is implemented by request types with rules the struct tags cannot
// express.
type checker interface {
	Check(fe domain.FieldErrors)
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures come back as a validation *domain.Error keyed by JSON field name.
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	fe := domain.FieldErrors{}

	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, e := range ve {
			fe.Add(e.Field(), fieldError(e))
		}
	}
	if c, ok := i.(checker); ok {
		c.Check(fe)
	}
	return fe.Err()
}

// fieldError converts a single ValidationError into the message shown to
// API clients.
func fieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "notblank":
		return msgBlank
	case "email":
		return "Enter a valid email address."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "numeric":
		return "Enter a valid phone number."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
