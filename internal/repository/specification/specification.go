package specification

import "gorm.io/gorm"

// Specification is a reusable query fragment. The gorm repositories apply it
// as SQL; the memory driver matches on the concrete type instead, so every
// implementation must be a comparable value type.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
