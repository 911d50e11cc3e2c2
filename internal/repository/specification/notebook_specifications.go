package specification

import "gorm.io/gorm"

// ByNotebookID scopes notebook_steps to one notebook
type ByNotebookID struct {
	NotebookID string
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}
