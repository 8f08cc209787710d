package entity

import (
	"context"

	"folio/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Concepts, Persons, Payment Forms, Currencies, Projects.
type Catalog struct {
	BaseCatalog

	// Code is a human-readable identifier (unique within account)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	// Code can be auto-generated, so it's optional at creation
	// but required at save time

	return nil
}
