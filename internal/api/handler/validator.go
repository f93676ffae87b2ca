package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "strongpassword", strongPassword)
	return &echoValidator{v: v}
}

// mustRegister panics when a rule cannot be registered; that only happens
// for a bad tag or a nil func.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Validate satisfies the echo.Validator interface. Field failures come back as
// a *domain.ValidationError.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(ve))}
	for _, fe := range ve {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Message: fieldError(fe),
		})
	}
	return out
}

// strongPassword requires a lowercase letter, an uppercase letter and a digit.
func strongPassword(fl validator.FieldLevel) bool {
	var lower, upper, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	label := fieldLabel(fe.Field())
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Please provide a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, fe.Param())
	case "mongodb":
		return fmt.Sprintf("Invalid %s ID format", strings.ToLower(label))
	case "strongpassword":
		return label + " must contain at least one lowercase letter, one uppercase letter, and one number"
	default:
		return fmt.Sprintf("%s failed validation (%s)", label, fe.Tag())
	}
}

// fieldLabel turns a JSON field name into a sentence subject:
// "nameAr" -> "Arabic name", "newPassword" -> "New password".
func fieldLabel(field string) string {
	arabic := strings.HasSuffix(field, "Ar")
	if arabic {
		field = strings.TrimSuffix(field, "Ar")
	}

	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) && i > 0 {
			b.WriteRune(' ')
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	words := b.String()

	if arabic {
		return "Arabic " + words
	}
	if words == "" {
		return words
	}
	return strings.ToUpper(words[:1]) + words[1:]
}
