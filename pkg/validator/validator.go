// Package validator configures gin's request binding and turns its errors
// into the messages returned in response details.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/hospital-api/internal/model"
)

const tagStay = "stay"

var registerOnce sync.Once

// Register reports fields by their json names and installs the visit
// length_of_stay rule. Safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("unexpected binding validator engine")
			return
		}
		Configure(v)
	})
	return err
}

// Configure applies the same setup to a standalone engine.
func Configure(v *validator.Validate) {
	v.SetTagName("binding")
	v.RegisterTagNameFunc(jsonName)
	v.RegisterStructValidation(createVisitStay, model.CreateVisitRequest{})
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func createVisitStay(sl validator.StructLevel) {
	r := sl.Current().Interface().(model.CreateVisitRequest)
	if r.LengthOfStay == nil {
		return
	}
	if model.StayError(r.VisitType, *r.LengthOfStay) != "" {
		sl.ReportError(r.LengthOfStay, "length_of_stay", "LengthOfStay", tagStay, r.VisitType)
	}
}

// Messages flattens a binding error into one message per problem.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, message(fe))
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s must be %s", typeErr.Field, kindName(typeErr.Type))}
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []string{"Request body is not valid JSON"}
	}
	return []string{err.Error()}
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "true or false"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "a list"
	}
	return "a valid " + t.Kind().String()
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Valid email is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must not exceed %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must not exceed %s", field, fe.Param())
	case tagStay:
		if fe.Param() == model.VisitTypeInpatient {
			return model.StayError(model.VisitTypeInpatient, 0)
		}
		return model.StayError(model.VisitTypeOutpatient, 1)
	}
	return fmt.Sprintf("%s is invalid", field)
}
