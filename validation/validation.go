// Package validation checks dashboard forms before anything is sent to the
// remote API and reports failures as field -> message maps.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"mabletask/dashboard/apperr"
)

type FieldErrors map[string]string

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates dst against its `validate` tags.
func Struct(dst any) error {
	if err := validate.Struct(dst); err != nil {
		return FromBindError(err, dst)
	}
	return nil
}

// FromBindError turns a gin bind error or a validator error into a
// ValidationFailed error. dst is the bound struct, used to read json names.
func FromBindError(err error, dst any) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperr.ValidationErr("Invalid request body", FieldErrors{"_": "Invalid request body"})
	}

	fields := FieldErrors{}
	first := ""
	for _, fe := range ve {
		key := fieldKey(dst, fe.StructField())
		if _, seen := fields[key]; seen {
			continue
		}
		msg := messageForTag(fe.Tag(), fe.Param())
		fields[key] = msg
		if first == "" {
			first = msg
		}
	}
	return apperr.ValidationErr(first, fields)
}

func fieldKey(dst any, structField string) string {
	t := reflect.TypeOf(dst)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return strings.ToLower(structField)
	}
	f, ok := t.FieldByName(structField)
	if !ok {
		return strings.ToLower(structField)
	}
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return strings.ToLower(structField)
	}
	return tag
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return "Must be at least " + param + " characters"
	case "max":
		return "Must be at most " + param + " characters"
	case "eqfield":
		return "Passwords do not match"
	default:
		return "Invalid value"
	}
}
