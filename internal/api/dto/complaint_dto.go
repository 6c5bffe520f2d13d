package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	CategoryID    string            `json:"category_id"`
	SubCategoryID *string           `json:"sub_category_id"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	Location      *string           `json:"location"`
	Metadata      map[string]string `json:"metadata"`
}

// UpdateComplaintRequest is a sparse patch; absent fields stay untouched.
type UpdateComplaintRequest struct {
	Title               *string  `json:"title"`
	Description         *string  `json:"description"`
	Priority            *string  `json:"priority"`
	Status              *string  `json:"status"`
	AgentID             *string  `json:"agent_id"`
	Satisfaction        *int     `json:"satisfaction"`
	SatisfactionComment *string  `json:"satisfaction_comment"`
	AttachFiles         []string `json:"attach_files"`
	DetachFiles         []string `json:"detach_files"`
}

// EscalateComplaintRequest payload.
type EscalateComplaintRequest struct {
	SupervisorID string `json:"supervisor_id"`
	Reason       string `json:"reason"`
}

// ComplaintResponse is the wire shape of a complaint.
type ComplaintResponse struct {
	ID                  uuid.UUID                `json:"id"`
	Number              string                   `json:"number"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	Status              domain.ComplaintStatus   `json:"status"`
	Priority            domain.ComplaintPriority `json:"priority"`
	CategoryID          uuid.UUID                `json:"category_id"`
	SubCategoryID       *uuid.UUID               `json:"sub_category_id,omitempty"`
	SubmitterID         uuid.UUID                `json:"submitter_id"`
	AgentID             *uuid.UUID               `json:"agent_id,omitempty"`
	Location            *string                  `json:"location,omitempty"`
	DueAt               *time.Time               `json:"due_at,omitempty"`
	ResolvedAt          *time.Time               `json:"resolved_at,omitempty"`
	Breached            bool                     `json:"breached"`
	Satisfaction        *int                     `json:"satisfaction,omitempty"`
	SatisfactionComment *string                  `json:"satisfaction_comment,omitempty"`
	Metadata            map[string]string        `json:"metadata,omitempty"`
	Version             int                      `json:"version"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

// AuditEntryResponse is one audit trail record.
type AuditEntryResponse struct {
	ID        uuid.UUID          `json:"id"`
	ActorID   *uuid.UUID         `json:"actor_id,omitempty"`
	Action    domain.AuditAction `json:"action"`
	OldValue  *string            `json:"old_value,omitempty"`
	NewValue  *string            `json:"new_value,omitempty"`
	Comment   string             `json:"comment"`
	CreatedAt time.Time          `json:"created_at"`
}

// FromComplaint maps the aggregate to its response.
func FromComplaint(complaint *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:                  complaint.ID,
		Number:              complaint.Number,
		Title:               complaint.Title,
		Description:         complaint.Description,
		Status:              complaint.Status,
		Priority:            complaint.Priority,
		CategoryID:          complaint.CategoryID,
		SubCategoryID:       complaint.SubCategoryID,
		SubmitterID:         complaint.SubmitterID,
		AgentID:             complaint.AgentID,
		Location:            complaint.Location,
		DueAt:               complaint.DueAt,
		ResolvedAt:          complaint.ResolvedAt,
		Breached:            complaint.Breached,
		Satisfaction:        complaint.Satisfaction,
		SatisfactionComment: complaint.SatisfactionComment,
		Metadata:            complaint.Metadata,
		Version:             complaint.Version,
		CreatedAt:           complaint.CreatedAt,
		UpdatedAt:           complaint.UpdatedAt,
	}
}

// FromAuditEntry maps an audit record to its response.
func FromAuditEntry(entry *domain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        entry.ID,
		ActorID:   entry.ActorID,
		Action:    entry.Action,
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		Comment:   entry.Comment,
		CreatedAt: entry.CreatedAt,
	}
}
