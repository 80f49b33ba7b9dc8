// Package validator provides struct and field validation for service
// inputs that may arrive from outside the HTTP binding layer.
package validator

import (
	validation "github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validation.Validate {
	val := validation.New()
	// Services validate the same tags gin binds on, so a request is
	// checked identically whichever path it came in through.
	val.SetTagName("binding")
	return val
}

// Struct validates the struct's binding tags.
func Struct(s interface{}) error {
	return v.Struct(s)
}
