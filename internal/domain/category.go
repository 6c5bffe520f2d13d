package domain

import "github.com/google/uuid"

// Category is a read-only taxonomy reference. Taxonomy management is
// owned by another service; the lifecycle engine only needs the name for
// SLA lookup and priority classification.
type Category struct {
	Auditable
	Name   string
	Active bool
}

// SubCategory is an optional refinement of a Category.
type SubCategory struct {
	Auditable
	CategoryID uuid.UUID
	Name       string
	Active     bool
}
