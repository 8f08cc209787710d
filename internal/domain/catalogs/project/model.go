// Package project provides the Project catalog for cost center tagging.
package project

import (
	"folio/internal/core/entity"
)

// Project is a catalog entry in cat_projects.
type Project struct {
	entity.Catalog

	Description string `db:"description" json:"description,omitempty"`
}

// NewProject creates a new project.
func NewProject(code, name string) *Project {
	return &Project{
		Catalog: entity.NewCatalog(code, name),
	}
}
