package catalog_repo

import (
	"folio/internal/domain/catalogs/person"
	"folio/internal/infrastructure/storage/postgres"
)

const personTable = "cat_persons"

// PersonRepo implements person.Repository.
type PersonRepo struct {
	*BaseCatalogRepo[*person.Person]
}

// NewPersonRepo creates a new person repository.
func NewPersonRepo(txManager *postgres.TxManager) *PersonRepo {
	return &PersonRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			personTable,
			postgres.ExtractDBColumns[person.Person](),
			func() *person.Person { return &person.Person{} },
		),
	}
}
