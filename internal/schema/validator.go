// Package schema validates records before they leave the process.
package schema

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validator checks struct records against their `validate` tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate returns an error describing every failed field of record.
func (v *Validator) Validate(record any) error {
	if err := v.v.Struct(record); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
