// Package currency provides the Currency catalog.
package currency

import (
	"context"

	"folio/internal/core/apperror"
	"folio/internal/core/entity"
)

// Currency is a catalog entry in cat_currencies.
type Currency struct {
	entity.Catalog

	// ISOCode is the ISO 4217 alphabetic code (e.g., "MXN", "USD").
	ISOCode string `db:"iso_code" json:"isoCode"`

	Symbol string `db:"symbol" json:"symbol,omitempty"`
}

// NewCurrency creates a new currency.
func NewCurrency(code, name, isoCode string) *Currency {
	return &Currency{
		Catalog: entity.NewCatalog(code, name),
		ISOCode: isoCode,
	}
}

// Validate implements entity.Validatable.
func (c *Currency) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}
	if len(c.ISOCode) != 3 {
		return apperror.NewValidation("isoCode must be a 3-letter ISO 4217 code").
			WithDetail("field", "isoCode").
			WithDetail("value", c.ISOCode)
	}
	return nil
}
