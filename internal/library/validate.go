package library

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type documentValidator struct {
	v *validator.Validate
}

func newValidator() *documentValidator {
	v := validator.New()

	// Report JSON field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	return &documentValidator{v: v}
}

func (dv *documentValidator) validateBook(b *Book) error {
	if err := dv.check(b); err != nil {
		return err
	}
	seen := make(map[int]bool, len(b.Chapters))
	for _, ch := range b.Chapters {
		if seen[ch.Number] {
			return fmt.Errorf("invalid book %q: duplicate chapter number %d", b.ID, ch.Number)
		}
		seen[ch.Number] = true
	}
	return nil
}

func (dv *documentValidator) validatePsalm(p *Psalm) error {
	return dv.check(p)
}

func (dv *documentValidator) check(s any) error {
	err := dv.v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		msgs = append(msgs, e.Namespace()+" "+friendlyMessage(e))
	}
	return fmt.Errorf("invalid document: %s", strings.Join(msgs, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", e.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	default:
		return fmt.Sprintf("failed %q validation", e.Tag())
	}
}
