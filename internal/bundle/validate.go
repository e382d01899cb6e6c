// Package bundle decodes import documents and checks their structure before
// anything touches storage.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/models"
	"github.com/go-playground/validator/v10"
)

// MaxBundleBytes caps how much of an import document is read.
const MaxBundleBytes = 32 << 20

// ValidationError names the first structural problem in a bundle.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid import: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("bundledate", func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		})
		validate = v
	})
	return validate
}

// Decode reads and validates a bundle. Any failure is a *ValidationError.
func Decode(r io.Reader) (*models.Bundle, error) {
	var b models.Bundle

	if err := json.NewDecoder(io.LimitReader(r, MaxBundleBytes)).Decode(&b); err != nil {
		return nil, decodeError(err)
	}
	if err := Validate(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks b against the bundle contract and reports the first
// violation.
func Validate(b *models.Bundle) error {
	if b == nil {
		return &ValidationError{Field: "bundle", Reason: "is required"}
	}

	err := getValidator().Struct(b)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Field: "bundle", Reason: err.Error()}
	}

	fe := verrs[0]
	return &ValidationError{Field: fieldPath(fe.Namespace()), Reason: reason(fe.Tag())}
}

// fieldPath drops the root type name: "Bundle.journals[0].title" becomes
// "journals[0].title".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "bundledate":
		return "must be a date (YYYY-MM-DD or RFC 3339)"
	}
	return "failed " + tag
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "bundle"
		}
		return &ValidationError{
			Field:  field,
			Reason: fmt.Sprintf("must be %s, got %s", kindName(typeErr.Type), typeErr.Value),
		}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return &ValidationError{Field: "bundle", Reason: "is not valid JSON: " + err.Error()}
	}

	return &ValidationError{Field: "bundle", Reason: err.Error()}
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "a value"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Ptr, reflect.Map:
		return "an object"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int64, reflect.Int32, reflect.Float64:
		return "a number"
	}
	return "a " + t.Kind().String()
}
