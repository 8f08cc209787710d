package catalog_repo

import (
	"folio/internal/domain/catalogs/project"
	"folio/internal/infrastructure/storage/postgres"
)

const projectTable = "cat_projects"

// ProjectRepo implements project.Repository.
type ProjectRepo struct {
	*BaseCatalogRepo[*project.Project]
}

// NewProjectRepo creates a new project repository.
func NewProjectRepo(txManager *postgres.TxManager) *ProjectRepo {
	return &ProjectRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			projectTable,
			postgres.ExtractDBColumns[project.Project](),
			func() *project.Project { return &project.Project{} },
		),
	}
}
