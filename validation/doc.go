// Package validation checks configuration structs before a client or
// transport is built.
//
// Struct tag validation uses the validator library:
//
//	type Config struct {
//	    BaseURL string `validate:"omitempty,url"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic checks collect field errors:
//
//	err := validation.New().
//	    Required("route", route).
//	    OneOf("method", method, []string{"GET", "POST"}).
//	    Err()
package validation
