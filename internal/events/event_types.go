package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated   EventType = "complaint_created"
	EventStatusChanged      EventType = "complaint_status_changed"
	EventPriorityChanged    EventType = "complaint_priority_changed"
	EventAgentAssigned      EventType = "complaint_agent_assigned"
	EventEvaluationReceived EventType = "complaint_evaluation_received"
	EventComplaintEscalated EventType = "complaint_escalated"
	EventSlaBreached        EventType = "complaint_sla_breached"
)

// Event represents a domain event emitted by the lifecycle engine or the
// SLA sweeper.
type Event struct {
	ID          uuid.UUID   `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID uuid.UUID   `json:"complaint_id"`
	ActorID     *uuid.UUID  `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Number     string                   `json:"number"`
	CategoryID uuid.UUID                `json:"category_id"`
	Priority   domain.ComplaintPriority `json:"priority"`
	DueAt      *time.Time               `json:"due_at,omitempty"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
}

// PriorityChangedPayload payload.
type PriorityChangedPayload struct {
	OldPriority domain.ComplaintPriority `json:"old_priority"`
	NewPriority domain.ComplaintPriority `json:"new_priority"`
}

// AgentAssignedPayload payload.
type AgentAssignedPayload struct {
	OldAgentID *uuid.UUID `json:"old_agent_id,omitempty"`
	NewAgentID uuid.UUID  `json:"new_agent_id"`
}

// EvaluationReceivedPayload payload.
type EvaluationReceivedPayload struct {
	Satisfaction int `json:"satisfaction"`
}

// ComplaintEscalatedPayload payload.
type ComplaintEscalatedPayload struct {
	SupervisorID uuid.UUID `json:"supervisor_id"`
	Reason       string    `json:"reason"`
}

// SlaBreachedPayload payload.
type SlaBreachedPayload struct {
	DueAt         time.Time  `json:"due_at"`
	ReassignedTo  *uuid.UUID `json:"reassigned_to,omitempty"`
	PreviousAgent *uuid.UUID `json:"previous_agent,omitempty"`
}
