// Package validation holds the shared validator instance for request payloads.
package validation

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// Struct validates a request struct against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}
