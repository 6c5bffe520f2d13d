package domain

import (
	"time"

	"github.com/google/uuid"
)

// Auditable carries the identity and timestamp fields shared by every
// persisted aggregate. Embedded by value, never inherited.
type Auditable struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
