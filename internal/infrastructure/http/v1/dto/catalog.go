package dto

import (
	"folio/internal/core/id"
	"folio/internal/domain/catalogs/concept"
	"folio/internal/domain/catalogs/currency"
	"folio/internal/domain/catalogs/paymentform"
	"folio/internal/domain/catalogs/paymentmethod"
	"folio/internal/domain/catalogs/person"
	"folio/internal/domain/catalogs/project"
)

// --- Concepts ---

// CreateConceptRequest is the request body for creating a concept.
type CreateConceptRequest struct {
	Code      string  `json:"code"`
	Name      string  `json:"name" binding:"required"`
	Kind      string  `json:"kind" binding:"required"`
	IsExpense *bool   `json:"isExpense"`
	ParentID  *id.ID  `json:"parentId"`
}

// ToEntity converts the DTO to a domain entity.
func (r *CreateConceptRequest) ToEntity() *concept.Concept {
	c := concept.NewConcept(r.Code, r.Name, concept.Kind(r.Kind))
	if r.IsExpense != nil {
		c.IsExpense = *r.IsExpense
	}
	c.ParentID = r.ParentID
	return c
}

// UpdateConceptRequest is the request body for updating a concept.
type UpdateConceptRequest struct {
	Code      string `json:"code"`
	Name      string `json:"name" binding:"required"`
	Kind      string `json:"kind" binding:"required"`
	IsExpense bool   `json:"isExpense"`
	ParentID  *id.ID `json:"parentId"`
	Version   int    `json:"version" binding:"required"`
}

// ApplyTo applies the update onto an existing entity. System concepts
// keep their kind regardless of what the client sends.
func (r *UpdateConceptRequest) ApplyTo(c *concept.Concept) {
	c.Code = r.Code
	c.Name = r.Name
	if !c.IsSystem {
		c.Kind = concept.Kind(r.Kind)
		c.IsExpense = r.IsExpense
	}
	c.ParentID = r.ParentID
	c.Version = r.Version
}

// --- Persons ---

// CreatePersonRequest is the request body for creating a person.
type CreatePersonRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name" binding:"required"`
	IsClient   bool   `json:"isClient"`
	IsProvider bool   `json:"isProvider"`
	IsEmployee bool   `json:"isEmployee"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	TaxID      string `json:"taxId"`
}

// ToEntity converts the DTO to a domain entity.
func (r *CreatePersonRequest) ToEntity() *person.Person {
	p := person.NewPerson(r.Code, r.Name)
	p.IsClient = r.IsClient
	p.IsProvider = r.IsProvider
	p.IsEmployee = r.IsEmployee
	p.Email = r.Email
	p.Phone = r.Phone
	p.TaxID = r.TaxID
	return p
}

// UpdatePersonRequest is the request body for updating a person.
type UpdatePersonRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name" binding:"required"`
	IsClient   bool   `json:"isClient"`
	IsProvider bool   `json:"isProvider"`
	IsEmployee bool   `json:"isEmployee"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	TaxID      string `json:"taxId"`
	Version    int    `json:"version" binding:"required"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdatePersonRequest) ApplyTo(p *person.Person) {
	p.Code = r.Code
	p.Name = r.Name
	p.IsClient = r.IsClient
	p.IsProvider = r.IsProvider
	p.IsEmployee = r.IsEmployee
	p.Email = r.Email
	p.Phone = r.Phone
	p.TaxID = r.TaxID
	p.Version = r.Version
}

// --- Payment forms ---

// CreatePaymentFormRequest is the request body for creating a payment form.
type CreatePaymentFormRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
	AccountNumber string `json:"accountNumber"`
}

// ToEntity converts the DTO to a domain entity.
func (r *CreatePaymentFormRequest) ToEntity() *paymentform.PaymentForm {
	f := paymentform.NewPaymentForm(r.Code, r.Name, paymentform.Kind(r.Kind))
	f.AccountNumber = r.AccountNumber
	return f
}

// UpdatePaymentFormRequest is the request body for updating a payment form.
type UpdatePaymentFormRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name" binding:"required"`
	Kind          string `json:"kind" binding:"required"`
	AccountNumber string `json:"accountNumber"`
	Version       int    `json:"version" binding:"required"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdatePaymentFormRequest) ApplyTo(f *paymentform.PaymentForm) {
	f.Code = r.Code
	f.Name = r.Name
	f.Kind = paymentform.Kind(r.Kind)
	f.AccountNumber = r.AccountNumber
	f.Version = r.Version
}

// --- Payment methods ---

// CreatePaymentMethodRequest is the request body for creating a payment method.
type CreatePaymentMethodRequest struct {
	Code string `json:"code"`
	Name string `json:"name" binding:"required"`
}

// ToEntity converts the DTO to a domain entity.
func (r *CreatePaymentMethodRequest) ToEntity() *paymentmethod.PaymentMethod {
	return paymentmethod.NewPaymentMethod(r.Code, r.Name)
}

// UpdatePaymentMethodRequest is the request body for updating a payment method.
type UpdatePaymentMethodRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	Version int    `json:"version" binding:"required"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdatePaymentMethodRequest) ApplyTo(m *paymentmethod.PaymentMethod) {
	m.Code = r.Code
	m.Name = r.Name
	m.Version = r.Version
}

// --- Currencies ---

// CreateCurrencyRequest is the request body for creating a currency.
type CreateCurrencyRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	ISOCode string `json:"isoCode" binding:"required"`
	Symbol  string `json:"symbol"`
}

// ToEntity converts the DTO to a domain entity.
func (r *CreateCurrencyRequest) ToEntity() *currency.Currency {
	c := currency.NewCurrency(r.Code, r.Name, r.ISOCode)
	c.Symbol = r.Symbol
	return c
}

// UpdateCurrencyRequest is the request body for updating a currency.
type UpdateCurrencyRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name" binding:"required"`
	ISOCode string `json:"isoCode" binding:"required"`
	Symbol  string `json:"symbol"`
	Version int    `json:"version" binding:"required"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateCurrencyRequest) ApplyTo(c *currency.Currency) {
	c.Code = r.Code
	c.Name = r.Name
	c.ISOCode = r.ISOCode
	c.Symbol = r.Symbol
	c.Version = r.Version
}

// --- Projects ---

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ToEntity converts the DTO to a domain entity.
func (r *CreateProjectRequest) ToEntity() *project.Project {
	p := project.NewProject(r.Code, r.Name)
	p.Description = r.Description
	return p
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Version     int    `json:"version" binding:"required"`
}

// ApplyTo applies the update onto an existing entity.
func (r *UpdateProjectRequest) ApplyTo(p *project.Project) {
	p.Code = r.Code
	p.Name = r.Name
	p.Description = r.Description
	p.Version = r.Version
}
