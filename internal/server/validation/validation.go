// Package validation checks request payloads with go-playground/validator
// and turns every violation into a human-readable message.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/go-playground/validator/v10"
)

// Validator reports all violations of a payload at once.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates s. A payload that breaks any rule yields a
// *common.ValidationError listing the distinct messages of all violated
// fields, in field order.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &common.ValidationError{}
	seen := make(map[string]struct{}, len(verrs))
	for _, fe := range verrs {
		msg := message(s, fe)
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		out.Messages = append(out.Messages, msg)
	}
	return out
}

// messageFor lets a payload override the text of a failed rule.
type messageFor interface {
	ValidationMessage(field, tag string) (string, bool)
}

func message(s any, fe validator.FieldError) string {
	if m, ok := s.(messageFor); ok {
		if msg, ok := m.ValidationMessage(fe.Field(), fe.Tag()); ok {
			return msg
		}
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "write a valid email"
	case "min":
		return field + " must be at least " + fe.Param() + " characters"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "eqfield":
		return "passwords do not match"
	default:
		return field + " is invalid"
	}
}
