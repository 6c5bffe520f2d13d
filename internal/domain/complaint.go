package domain

import (
	"time"

	"github.com/google/uuid"
)

// ComplaintStatus enumerates lifecycle states for complaints.
// The string values are part of the wire contract and must not change.
type ComplaintStatus string

const (
	StatusSubmitted    ComplaintStatus = "Submitted"
	StatusInProgress   ComplaintStatus = "InProgress"
	StatusAwaitingInfo ComplaintStatus = "AwaitingInfo"
	StatusResolved     ComplaintStatus = "Resolved"
	StatusClosed       ComplaintStatus = "Closed"
	StatusCancelled    ComplaintStatus = "Cancelled"
)

// ParseStatus rejects values outside the closed status set.
func ParseStatus(value string) (ComplaintStatus, bool) {
	switch ComplaintStatus(value) {
	case StatusSubmitted, StatusInProgress, StatusAwaitingInfo, StatusResolved, StatusClosed, StatusCancelled:
		return ComplaintStatus(value), true
	}
	return "", false
}

// Terminal reports whether the status ends SLA tracking.
func (s ComplaintStatus) Terminal() bool {
	return s == StatusResolved || s == StatusClosed || s == StatusCancelled
}

// ComplaintPriority enumerates SLA urgency. Wire-verbatim values.
type ComplaintPriority string

const (
	PriorityLow    ComplaintPriority = "Low"
	PriorityNormal ComplaintPriority = "Normal"
	PriorityHigh   ComplaintPriority = "High"
	PriorityUrgent ComplaintPriority = "Urgent"
)

// ParsePriority rejects values outside the closed priority set.
func ParsePriority(value string) (ComplaintPriority, bool) {
	switch ComplaintPriority(value) {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return ComplaintPriority(value), true
	}
	return "", false
}

func (p ComplaintPriority) rank() int {
	switch p {
	case PriorityLow:
		return 0
	case PriorityNormal:
		return 1
	case PriorityHigh:
		return 2
	case PriorityUrgent:
		return 3
	}
	return -1
}

// AtLeast reports whether p is at least as urgent as other.
func (p ComplaintPriority) AtLeast(other ComplaintPriority) bool {
	return p.rank() >= other.rank()
}

// Complaint is the aggregate for passenger grievances.
type Complaint struct {
	Auditable
	Number              string
	Title               string
	Description         string
	Status              ComplaintStatus
	Priority            ComplaintPriority
	CategoryID          uuid.UUID
	SubCategoryID       *uuid.UUID
	SubmitterID         uuid.UUID
	AgentID             *uuid.UUID
	Location            *string
	ResolvedAt          *time.Time
	DueAt               *time.Time
	Breached            bool
	Satisfaction        *int
	SatisfactionComment *string
	Metadata            map[string]string
	Version             int
}

var allowedTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusSubmitted:    {StatusInProgress, StatusCancelled},
	StatusInProgress:   {StatusAwaitingInfo, StatusResolved, StatusCancelled},
	StatusAwaitingInfo: {StatusInProgress, StatusResolved, StatusClosed, StatusCancelled},
	StatusResolved:     {StatusClosed},
	StatusClosed:       {},
	StatusCancelled:    {},
}

// CanTransition checks the exhaustive status transition table.
func CanTransition(current, next ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
