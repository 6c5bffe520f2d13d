// Package authz holds the role and ownership capability checks consulted
// by the lifecycle engine before any mutation.
package authz

import (
	"github.com/gira-airport/complaint-service/internal/domain"
)

// Field names the mutable parts of a complaint for capability checks.
type Field string

const (
	FieldTitle        Field = "title"
	FieldDescription  Field = "description"
	FieldPriority     Field = "priority"
	FieldStatus       Field = "status"
	FieldAgent        Field = "agent"
	FieldFiles        Field = "files"
	FieldSatisfaction Field = "satisfaction"
)

// Gate answers capability questions for lifecycle mutations.
type Gate struct{}

// NewGate builds the authorization gate.
func NewGate() *Gate {
	return &Gate{}
}

// CanMutate reports whether the role may change the given field. The
// satisfaction field is never role-granted: it is ownership-scoped and
// checked through IsOwner plus the complaint status.
func (g *Gate) CanMutate(role domain.Role, field Field) bool {
	switch field {
	case FieldTitle, FieldDescription, FieldPriority, FieldStatus, FieldAgent, FieldFiles:
		return role.AtLeast(domain.RoleAgent)
	case FieldSatisfaction:
		return false
	}
	return false
}

// IsOwner reports whether the actor submitted the complaint.
func (g *Gate) IsOwner(actor *domain.User, complaint *domain.Complaint) bool {
	if actor == nil || complaint == nil {
		return false
	}
	return actor.ID == complaint.SubmitterID
}

// CanEvaluate reports whether the actor may submit satisfaction feedback:
// owners only, and only once the complaint is resolved or closed.
func (g *Gate) CanEvaluate(actor *domain.User, complaint *domain.Complaint) bool {
	if !g.IsOwner(actor, complaint) {
		return false
	}
	return complaint.Status == domain.StatusResolved || complaint.Status == domain.StatusClosed
}
