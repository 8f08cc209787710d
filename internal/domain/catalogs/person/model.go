// Package person provides the Person catalog (clients, providers, employees).
package person

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
)

// Person is a catalog entry in cat_persons.
type Person struct {
	entity.Catalog

	IsClient   bool `db:"is_client" json:"isClient"`
	IsProvider bool `db:"is_provider" json:"isProvider"`
	IsEmployee bool `db:"is_employee" json:"isEmployee"`

	Email string `db:"email" json:"email,omitempty"`
	Phone string `db:"phone" json:"phone,omitempty"`
	TaxID string `db:"tax_id" json:"taxId,omitempty"`
}

// NewPerson creates a new person.
func NewPerson(code, name string) *Person {
	return &Person{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (p *Person) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}
	if !p.IsClient && !p.IsProvider && !p.IsEmployee {
		return apperror.NewValidation("person must have at least one role").
			WithDetail("field", "isClient/isProvider/isEmployee")
	}
	return nil
}
