package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	commonerrors "github.com/AlibekovAA/places-api/internal/common/errors"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

// Struct evaluates every rule on s and reports all failures at once.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		for _, fe := range fieldErrs {
			details[fe.Field()] = ruleMessage(fe)
		}
		return commonerrors.ErrValidation.WithDetails(details)
	}

	return commonerrors.ErrValidation.WithCause(err)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "must not be empty"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}

// ValidateUUID accepts only the canonical 36 character form.
func ValidateUUID(s string) error {
	if s == "" {
		return errors.New("uuid cannot be empty")
	}
	if len(s) != 36 {
		return fmt.Errorf("invalid uuid length: %d", len(s))
	}
	_, err := uuid.Parse(s)
	return err
}

var gmailDomains = map[string]bool{"gmail.com": true, "googlemail.com": true}

var plusSubaddressDomains = map[string]bool{
	"outlook.com": true, "hotmail.com": true, "live.com": true,
	"icloud.com": true, "me.com": true,
}

var yahooDomains = map[string]bool{"yahoo.com": true, "ymail.com": true, "rocketmail.com": true}

// NormalizeEmail lowercases the address and canonicalizes provider specific
// aliases. Input that is not shaped like an address is returned trimmed and
// lowercased so the email rule can reject it.
func NormalizeEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return email
	}

	local, domain := email[:at], email[at+1:]

	switch {
	case gmailDomains[domain]:
		local = cutSubaddress(local, "+")
		local = strings.ReplaceAll(local, ".", "")
		domain = "gmail.com"
	case plusSubaddressDomains[domain]:
		local = cutSubaddress(local, "+")
	case yahooDomains[domain]:
		local = cutSubaddress(local, "-")
	}

	if local == "" {
		return email
	}

	return local + "@" + domain
}

func cutSubaddress(local, sep string) string {
	if idx := strings.Index(local, sep); idx > 0 {
		return local[:idx]
	}
	return local
}
