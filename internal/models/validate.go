package models

import (
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/semla/internal/grading"
)

var courseCodeRegex = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// ValidCourseCode reports whether code looks like CS101: capital
// letters followed by digits, nothing else.
func ValidCourseCode(code string) bool {
	return courseCodeRegex.MatchString(code)
}

// ValidISODate reports whether s is a date in YYYY-MM-DD form.
func ValidISODate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report failures under the wire names the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	must := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	must("course_code", func(fl validator.FieldLevel) bool {
		return ValidCourseCode(fl.Field().String())
	})
	must("grade", func(fl validator.FieldLevel) bool {
		return grading.Valid(fl.Field().String())
	})
	must("iso_date", func(fl validator.FieldLevel) bool {
		return ValidISODate(fl.Field().String())
	})
	return v
}
