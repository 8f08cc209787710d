package handlers

import (
	"folio/internal/domain/catalogs/concept"
	"folio/internal/domain/catalogs/currency"
	"folio/internal/domain/catalogs/paymentform"
	"folio/internal/domain/catalogs/paymentmethod"
	"folio/internal/domain/catalogs/person"
	"folio/internal/domain/catalogs/project"
	"folio/internal/infrastructure/http/v1/dto"
)

// Concrete catalog handlers: each wires the generic CatalogHandler with
// the catalog's DTO mappers.

// ConceptHTTPHandler serves the concept catalog.
type ConceptHTTPHandler = CatalogHandler[*concept.Concept, dto.CreateConceptRequest, dto.UpdateConceptRequest]

// NewConceptHandler creates the concept catalog handler.
func NewConceptHandler(base *BaseHandler, service *concept.Service) *ConceptHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*concept.Concept, dto.CreateConceptRequest, dto.UpdateConceptRequest]{
		Service:    service.CatalogService,
		EntityName: "concept",
		MapCreateDTO: func(req dto.CreateConceptRequest) *concept.Concept {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateConceptRequest, existing *concept.Concept) *concept.Concept {
			req.ApplyTo(existing)
			return existing
		},
	})
}

// PersonHTTPHandler serves the person catalog.
type PersonHTTPHandler = CatalogHandler[*person.Person, dto.CreatePersonRequest, dto.UpdatePersonRequest]

// NewPersonHandler creates the person catalog handler.
func NewPersonHandler(base *BaseHandler, service *person.Service) *PersonHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*person.Person, dto.CreatePersonRequest, dto.UpdatePersonRequest]{
		Service:    service.CatalogService,
		EntityName: "person",
		MapCreateDTO: func(req dto.CreatePersonRequest) *person.Person {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdatePersonRequest, existing *person.Person) *person.Person {
			req.ApplyTo(existing)
			return existing
		},
	})
}

// PaymentFormHTTPHandler serves the payment form catalog.
type PaymentFormHTTPHandler = CatalogHandler[*paymentform.PaymentForm, dto.CreatePaymentFormRequest, dto.UpdatePaymentFormRequest]

// NewPaymentFormHandler creates the payment form catalog handler.
func NewPaymentFormHandler(base *BaseHandler, service *paymentform.Service) *PaymentFormHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*paymentform.PaymentForm, dto.CreatePaymentFormRequest, dto.UpdatePaymentFormRequest]{
		Service:    service.CatalogService,
		EntityName: "payment form",
		MapCreateDTO: func(req dto.CreatePaymentFormRequest) *paymentform.PaymentForm {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdatePaymentFormRequest, existing *paymentform.PaymentForm) *paymentform.PaymentForm {
			req.ApplyTo(existing)
			return existing
		},
	})
}

// PaymentMethodHTTPHandler serves the payment method catalog.
type PaymentMethodHTTPHandler = CatalogHandler[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]

// NewPaymentMethodHandler creates the payment method catalog handler.
func NewPaymentMethodHandler(base *BaseHandler, service *paymentmethod.Service) *PaymentMethodHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*paymentmethod.PaymentMethod, dto.CreatePaymentMethodRequest, dto.UpdatePaymentMethodRequest]{
		Service:    service.CatalogService,
		EntityName: "payment method",
		MapCreateDTO: func(req dto.CreatePaymentMethodRequest) *paymentmethod.PaymentMethod {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdatePaymentMethodRequest, existing *paymentmethod.PaymentMethod) *paymentmethod.PaymentMethod {
			req.ApplyTo(existing)
			return existing
		},
	})
}

// CurrencyHTTPHandler serves the currency catalog.
type CurrencyHTTPHandler = CatalogHandler[*currency.Currency, dto.CreateCurrencyRequest, dto.UpdateCurrencyRequest]

// NewCurrencyHandler creates the currency catalog handler.
func NewCurrencyHandler(base *BaseHandler, service *currency.Service) *CurrencyHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*currency.Currency, dto.CreateCurrencyRequest, dto.UpdateCurrencyRequest]{
		Service:    service.CatalogService,
		EntityName: "currency",
		MapCreateDTO: func(req dto.CreateCurrencyRequest) *currency.Currency {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateCurrencyRequest, existing *currency.Currency) *currency.Currency {
			req.ApplyTo(existing)
			return existing
		},
	})
}

// ProjectHTTPHandler serves the project catalog.
type ProjectHTTPHandler = CatalogHandler[*project.Project, dto.CreateProjectRequest, dto.UpdateProjectRequest]

// NewProjectHandler creates the project catalog handler.
func NewProjectHandler(base *BaseHandler, service *project.Service) *ProjectHTTPHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*project.Project, dto.CreateProjectRequest, dto.UpdateProjectRequest]{
		Service:    service.CatalogService,
		EntityName: "project",
		MapCreateDTO: func(req dto.CreateProjectRequest) *project.Project {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateProjectRequest, existing *project.Project) *project.Project {
			req.ApplyTo(existing)
			return existing
		},
	})
}
