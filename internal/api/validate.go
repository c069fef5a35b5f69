// internal/api/validate.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// Request payloads are validated immediately after JSON decoding, before
// any database work.  The only built-in rules we rely on right now are
// `required` and `email`; additional custom rules can be registered here
// as the API surface grows.  Configuration is deliberately NOT validated
// anywhere; the config layer's contract is to never fail.

package api

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(s any) error {
	return v.Struct(s)
}
