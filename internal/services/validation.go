package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 8

// commonPasswords is a short deny-list of the most used passwords.
var commonPasswords = map[string]struct{}{
	"12345678": {}, "123456789": {}, "1234567890": {}, "password": {}, "password1": {},
	"password123": {}, "qwerty123": {}, "qwertyuiop": {}, "iloveyou": {}, "11111111": {},
	"sunshine": {}, "princess": {}, "football": {}, "baseball": {}, "welcome1": {},
	"abc12345": {}, "admin123": {}, "letmein1": {}, "trustno1": {}, "superman": {},
	"passw0rd": {}, "qwerty12": {}, "starwars": {}, "whatever": {}, "computer": {},
}

// NewValidator returns a validator that reports json field names and
// enforces the registration password policy.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	v.RegisterStructValidation(registerStructLevel, RegisterInput{})
	return v
}

func registerStructLevel(sl validator.StructLevel) {
	in := sl.Current().Interface().(RegisterInput)
	if in.Password == "" {
		return
	}
	if tag := passwordProblem(in.Password, in.Username, in.Email); tag != "" {
		sl.ReportError(in.Password, "password", "Password", tag, "")
	}
}

// passwordProblem returns the tag of the first rule the password breaks, or "".
func passwordProblem(password, username, email string) string {
	if len([]rune(password)) < minPasswordLength {
		return "password_too_short"
	}
	lower := strings.ToLower(password)
	if _, ok := commonPasswords[lower]; ok {
		return "password_too_common"
	}
	if strings.IndexFunc(password, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		return "password_entirely_numeric"
	}

	local, _, _ := strings.Cut(email, "@")
	for _, attr := range []string{username, local, email} {
		attr = strings.ToLower(attr)
		if len(attr) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			return "password_too_similar"
		}
	}
	return ""
}

var messages = map[string]string{
	"required":                  "This field is required.",
	"email":                     "Enter a valid email address.",
	"password_too_short":        fmt.Sprintf("This password is too short. It must contain at least %d characters.", minPasswordLength),
	"password_too_common":       "This password is too common.",
	"password_entirely_numeric": "This password is entirely numeric.",
	"password_too_similar":      "The password is too similar to the username or email.",
}

// toFieldErrors converts validator output into FieldErrors, keeping the first
// problem per field.
func toFieldErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	out := FieldErrors{}
	for _, e := range verrs {
		if _, seen := out[e.Field()]; seen {
			continue
		}
		out[e.Field()] = messageFor(e)
	}
	return out
}

func messageFor(e validator.FieldError) string {
	if msg, ok := messages[e.Tag()]; ok {
		return msg
	}
	switch e.Tag() {
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", e.Param())
	}
	return fmt.Sprintf("Field failed on the '%s' rule.", e.Tag())
}
