package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction tags what an audit entry documents.
type AuditAction string

const (
	ActionCreation          AuditAction = "Creation"
	ActionTitleChange       AuditAction = "TitleChange"
	ActionDescriptionChange AuditAction = "DescriptionChange"
	ActionStatusChange      AuditAction = "StatusChange"
	ActionPriorityChange    AuditAction = "PriorityChange"
	ActionAgentAssignment   AuditAction = "AgentAssignment"
	ActionEvaluation        AuditAction = "Evaluation"
	ActionEscalation        AuditAction = "Escalation"
	ActionSlaEscalation     AuditAction = "SlaEscalation"
)

// AuditEntry is one immutable record per complaint mutation. Entries are
// only ever appended; there is no update or delete path.
type AuditEntry struct {
	ID          uuid.UUID
	ComplaintID uuid.UUID
	ActorID     *uuid.UUID
	Action      AuditAction
	OldValue    *string
	NewValue    *string
	Comment     string
	CreatedAt   time.Time
}
