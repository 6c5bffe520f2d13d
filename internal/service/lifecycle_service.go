package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gira-airport/complaint-service/internal/authz"
	"github.com/gira-airport/complaint-service/internal/clock"
	"github.com/gira-airport/complaint-service/internal/domain"
	"github.com/gira-airport/complaint-service/internal/events"
	"github.com/gira-airport/complaint-service/internal/repository"
	"github.com/gira-airport/complaint-service/internal/sla"
	apperrors "github.com/gira-airport/complaint-service/pkg/util/errorutil"
)

// Notifier abstracts the notification dispatcher for the lifecycle paths.
type Notifier interface {
	Send(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
}

// FileDirectory is the external file collaborator. Upload and signed-URL
// issuance live elsewhere; the engine only links or unlinks stored files
// and needs the display name back for notifications.
type FileDirectory interface {
	Attach(ctx context.Context, fileID, complaintID uuid.UUID) (string, error)
	Detach(ctx context.Context, fileID, complaintID uuid.UUID) (string, error)
}

// LifecycleService orchestrates every complaint mutation: authorization,
// the status state machine, SLA deadlines, audit trail writes and
// notification fan-out.
type LifecycleService struct {
	complaints repository.ComplaintRepository
	audits     repository.AuditRepository
	users      repository.UserRepository
	categories repository.CategoryRepository
	files      FileDirectory
	notifier   Notifier
	policy     *sla.Policy
	gate       *authz.Gate
	dispatcher events.Dispatcher
	clock      clock.Clock
	logger     *zap.Logger
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	AuditRepo     repository.AuditRepository
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	Files         FileDirectory
	Notifier      Notifier
	Policy        *sla.Policy
	Gate          *authz.Gate
	Dispatcher    events.Dispatcher
	Clock         clock.Clock
	Logger        *zap.Logger
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System()
	}
	return &LifecycleService{
		complaints: deps.ComplaintRepo,
		audits:     deps.AuditRepo,
		users:      deps.UserRepo,
		categories: deps.CategoryRepo,
		files:      deps.Files,
		notifier:   deps.Notifier,
		policy:     deps.Policy,
		gate:       deps.Gate,
		dispatcher: deps.Dispatcher,
		clock:      clk,
		logger:     logger,
	}
}

// CreateInput describes complaint intake payload.
type CreateInput struct {
	CategoryID    uuid.UUID
	SubCategoryID *uuid.UUID
	Title         string
	Description   string
	Location      *string
	Metadata      map[string]string
}

// Create registers a new complaint for the submitter: number assignment,
// automatic priority classification, SLA deadline, creation audit entry.
func (s *LifecycleService) Create(ctx context.Context, submitter *domain.User, input CreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return nil, apperrors.NewBadRequest("title and description required", nil)
	}

	category, err := s.categories.GetByID(ctx, input.CategoryID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": input.CategoryID})
		}
		return nil, apperrors.MapError(err)
	}
	if input.SubCategoryID != nil {
		if _, err := s.categories.GetSubCategoryByID(ctx, *input.SubCategoryID); err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewNotFound("sub-category", map[string]any{"sub_category_id": *input.SubCategoryID})
			}
			return nil, apperrors.MapError(err)
		}
	}

	now := s.clock.Now()
	priority := ClassifyPriority(category.Name, title, description)
	dueAt := s.policy.DueDate(now, category.Name, priority)

	complaint := &domain.Complaint{
		Number:        generateComplaintNumber(),
		Title:         title,
		Description:   description,
		Status:        domain.StatusSubmitted,
		Priority:      priority,
		CategoryID:    category.ID,
		SubCategoryID: input.SubCategoryID,
		SubmitterID:   submitter.ID,
		Location:      input.Location,
		DueAt:         &dueAt,
		Breached:      false,
		Metadata:      input.Metadata,
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	number := complaint.Number
	s.appendAudit(ctx, &domain.AuditEntry{
		ComplaintID: complaint.ID,
		ActorID:     &submitter.ID,
		Action:      domain.ActionCreation,
		NewValue:    &number,
		Comment:     "Réclamation soumise",
	})
	s.publish(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     &submitter.ID,
		Payload: events.ComplaintCreatedPayload{
			Number:     complaint.Number,
			CategoryID: complaint.CategoryID,
			Priority:   complaint.Priority,
			DueAt:      complaint.DueAt,
		},
	})
	return complaint, nil
}

// UpdateInput is a sparse patch; nil fields are untouched. Priority and
// Status arrive as raw strings so the engine can reject unknown values.
type UpdateInput struct {
	Title               *string
	Description         *string
	Priority            *string
	Status              *string
	AgentID             *uuid.UUID
	Satisfaction        *int
	SatisfactionComment *string
	FilesToAttach       []uuid.UUID
	FilesToDetach       []uuid.UUID
}

func (in UpdateInput) touchesAgentFields() bool {
	return in.Title != nil || in.Description != nil || in.Priority != nil ||
		in.Status != nil || in.AgentID != nil ||
		len(in.FilesToAttach) > 0 || len(in.FilesToDetach) > 0
}

// updatePlan holds every validated change before anything is persisted,
// so a rejected patch leaves the aggregate, audit trail and notification
// log untouched.
type updatePlan struct {
	title        *string
	description  *string
	priority     *domain.ComplaintPriority
	oldPriority  domain.ComplaintPriority
	status       *domain.ComplaintStatus
	oldStatus    domain.ComplaintStatus
	setDueAt     *time.Time
	setResolved  *time.Time
	newAgent     *domain.User
	oldAgentID   *uuid.UUID
	oldAgentName *string
	satisfaction *int
	satComment   *string
}

func (p updatePlan) empty() bool {
	return p.title == nil && p.description == nil && p.priority == nil &&
		p.status == nil && p.newAgent == nil && p.satisfaction == nil
}

// Update applies a field-level patch under the authorization gate. Every
// field that actually changes yields exactly one audit entry plus its
// notification fan-out; a rejected patch has no side effects at all.
func (s *LifecycleService) Update(ctx context.Context, id uuid.UUID, input UpdateInput, actor *domain.User) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	if input.touchesAgentFields() && !s.gate.CanMutate(actor.Role, authz.FieldStatus) {
		return nil, apperrors.NewAccessDenied("agent or admin role required")
	}

	plan, err := s.planUpdate(ctx, complaint, input, actor)
	if err != nil {
		return nil, err
	}
	if plan.empty() && len(input.FilesToAttach) == 0 && len(input.FilesToDetach) == 0 {
		return complaint, nil
	}

	s.applyPlan(complaint, plan)
	if err := s.complaints.Update(ctx, complaint); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, apperrors.NewConflict("complaint was modified concurrently", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.recordUpdateEffects(ctx, complaint, plan, actor)
	s.handleFileChanges(ctx, complaint, input.FilesToAttach, input.FilesToDetach)
	return complaint, nil
}

func (s *LifecycleService) planUpdate(ctx context.Context, complaint *domain.Complaint, input UpdateInput, actor *domain.User) (updatePlan, error) {
	plan := updatePlan{
		oldPriority: complaint.Priority,
		oldStatus:   complaint.Status,
		oldAgentID:  complaint.AgentID,
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return plan, apperrors.NewBadRequest("title cannot be empty", nil)
		}
		if title != complaint.Title {
			plan.title = &title
		}
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return plan, apperrors.NewBadRequest("description cannot be empty", nil)
		}
		if description != complaint.Description {
			plan.description = &description
		}
	}

	if input.Priority != nil {
		priority, ok := domain.ParsePriority(*input.Priority)
		if !ok {
			return plan, apperrors.NewBadRequest("invalid priority", map[string]any{"priority": *input.Priority})
		}
		if priority != complaint.Priority {
			plan.priority = &priority
		}
	}

	if input.Status != nil {
		status, ok := domain.ParseStatus(*input.Status)
		if !ok {
			return plan, apperrors.NewBadRequest("invalid status", map[string]any{"status": *input.Status})
		}
		if status != complaint.Status {
			if !domain.CanTransition(complaint.Status, status) {
				return plan, apperrors.NewBadRequest("invalid status transition", map[string]any{
					"from": complaint.Status,
					"to":   status,
				})
			}
			plan.status = &status
			now := s.clock.Now()
			if status == domain.StatusInProgress && complaint.DueAt == nil {
				category, err := s.categories.GetByID(ctx, complaint.CategoryID)
				if err != nil {
					return plan, apperrors.MapError(err)
				}
				priority := complaint.Priority
				if plan.priority != nil {
					priority = *plan.priority
				}
				dueAt := s.policy.DueDate(now, category.Name, priority)
				plan.setDueAt = &dueAt
			}
			if status == domain.StatusResolved {
				plan.setResolved = &now
			}
		}
	}

	if input.AgentID != nil {
		if complaint.AgentID == nil || *complaint.AgentID != *input.AgentID {
			agent, err := s.users.GetByID(ctx, *input.AgentID)
			if err != nil {
				if err == pgx.ErrNoRows {
					return plan, apperrors.NewNotFound("agent", map[string]any{"agent_id": *input.AgentID})
				}
				return plan, apperrors.MapError(err)
			}
			plan.newAgent = agent
			if complaint.AgentID != nil {
				if oldAgent, err := s.users.GetByID(ctx, *complaint.AgentID); err == nil {
					name := oldAgent.FullName()
					plan.oldAgentName = &name
				}
			}
		}
	}

	if input.Satisfaction != nil {
		if !s.gate.CanEvaluate(actor, complaint) {
			return plan, apperrors.NewAccessDenied("only the submitter may evaluate a resolved or closed complaint")
		}
		rating := *input.Satisfaction
		if rating < 1 || rating > 5 {
			return plan, apperrors.NewBadRequest("satisfaction must be between 1 and 5", map[string]any{"satisfaction": rating})
		}
		changed := complaint.Satisfaction == nil || *complaint.Satisfaction != rating
		if input.SatisfactionComment != nil {
			if complaint.SatisfactionComment == nil || *complaint.SatisfactionComment != *input.SatisfactionComment {
				changed = true
			}
		}
		if changed {
			plan.satisfaction = &rating
			plan.satComment = input.SatisfactionComment
		}
	}

	return plan, nil
}

func (s *LifecycleService) applyPlan(complaint *domain.Complaint, plan updatePlan) {
	if plan.title != nil {
		complaint.Title = *plan.title
	}
	if plan.description != nil {
		complaint.Description = *plan.description
	}
	if plan.priority != nil {
		complaint.Priority = *plan.priority
	}
	if plan.status != nil {
		complaint.Status = *plan.status
	}
	if plan.setDueAt != nil {
		complaint.DueAt = plan.setDueAt
	}
	if plan.setResolved != nil {
		complaint.ResolvedAt = plan.setResolved
	}
	if plan.newAgent != nil {
		agentID := plan.newAgent.ID
		complaint.AgentID = &agentID
	}
	if plan.satisfaction != nil {
		complaint.Satisfaction = plan.satisfaction
		if plan.satComment != nil {
			complaint.SatisfactionComment = plan.satComment
		}
	}
}

// recordUpdateEffects writes the audit entries and triggers the
// notification fan-out for an already persisted patch.
func (s *LifecycleService) recordUpdateEffects(ctx context.Context, complaint *domain.Complaint, plan updatePlan, actor *domain.User) {
	actorID := actor.ID

	if plan.title != nil {
		s.appendAudit(ctx, &domain.AuditEntry{
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Action:      domain.ActionTitleChange,
			NewValue:    plan.title,
			Comment:     "Titre modifié par " + string(actor.Role),
		})
	}
	if plan.description != nil {
		s.appendAudit(ctx, &domain.AuditEntry{
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Action:      domain.ActionDescriptionChange,
			NewValue:    plan.description,
			Comment:     "Description modifiée par " + string(actor.Role),
		})
	}

	if plan.priority != nil {
		oldVal := string(plan.oldPriority)
		newVal := string(*plan.priority)
		s.appendAudit(ctx, &domain.AuditEntry{
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Action:      domain.ActionPriorityChange,
			OldValue:    &oldVal,
			NewValue:    &newVal,
			Comment:     "Changement de priorité par " + string(actor.Role),
		})
		s.send(ctx, pushTo(complaint.SubmitterID, complaint,
			"Priorité de votre réclamation modifiée",
			"La priorité de votre réclamation '"+complaint.Title+"' est maintenant : "+newVal))
		s.publish(ctx, events.Event{
			Type:        events.EventPriorityChanged,
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Payload:     events.PriorityChangedPayload{OldPriority: plan.oldPriority, NewPriority: *plan.priority},
		})
	}

	if plan.status != nil {
		oldVal := string(plan.oldStatus)
		newVal := string(*plan.status)
		s.appendAudit(ctx, &domain.AuditEntry{
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Action:      domain.ActionStatusChange,
			OldValue:    &oldVal,
			NewValue:    &newVal,
			Comment:     "Changement de statut par " + string(actor.Role),
		})
		s.send(ctx, pushTo(complaint.SubmitterID, complaint,
			"Mise à jour du statut de votre réclamation",
			"Le statut de votre réclamation '"+complaint.Title+"' est passé à : "+newVal))
		s.send(ctx, emailTo(complaint.SubmitterID, complaint,
			"[GIRA] Statut réclamation mis à jour",
			s.salutation(ctx, complaint.SubmitterID)+
				"Le statut de votre réclamation '"+complaint.Title+"' a été mis à jour : "+newVal+".\n\nCordialement,\nGIRA"))
		s.publish(ctx, events.Event{
			Type:        events.EventStatusChanged,
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Payload:     events.StatusChangedPayload{OldStatus: plan.oldStatus, NewStatus: *plan.status},
		})
	}

	if plan.newAgent != nil {
		newName := plan.newAgent.FullName()
		s.appendAudit(ctx, &domain.AuditEntry{
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Action:      domain.ActionAgentAssignment,
			OldValue:    plan.oldAgentName,
			NewValue:    &newName,
			Comment:     "Assignation à l'agent par " + string(actor.Role),
		})
		s.send(ctx, pushTo(plan.newAgent.ID, complaint,
			"Nouvelle réclamation assignée",
			"Vous avez été assigné à la réclamation : "+complaint.Title))
		s.send(ctx, emailTo(plan.newAgent.ID, complaint,
			"[GIRA] Nouvelle réclamation assignée",
			"Bonjour "+plan.newAgent.FirstName+",\n\nVous avez été assigné à la réclamation : '"+complaint.Title+"'.\nMerci de la traiter dans les meilleurs délais.\n\nCordialement,\nGIRA"))
		s.publish(ctx, events.Event{
			Type:        events.EventAgentAssigned,
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Payload:     events.AgentAssignedPayload{OldAgentID: plan.oldAgentID, NewAgentID: plan.newAgent.ID},
		})
	}

	if plan.satisfaction != nil {
		newVal := evaluationValue(*plan.satisfaction, plan.satComment)
		s.appendAudit(ctx, &domain.AuditEntry{
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Action:      domain.ActionEvaluation,
			NewValue:    &newVal,
			Comment:     "Évaluation de la réclamation par le passager",
		})
		if complaint.AgentID != nil {
			s.send(ctx, pushTo(*complaint.AgentID, complaint,
				"Nouvelle évaluation reçue",
				"La réclamation '"+complaint.Title+"' a été évaluée par le passager."))
		}
		s.publish(ctx, events.Event{
			Type:        events.EventEvaluationReceived,
			ComplaintID: complaint.ID,
			ActorID:     &actorID,
			Payload:     events.EvaluationReceivedPayload{Satisfaction: *plan.satisfaction},
		})
	}
}

// handleFileChanges links or unlinks files through the external file
// collaborator and notifies submitter and agent per file. Missing files
// are skipped; the patch itself already succeeded.
func (s *LifecycleService) handleFileChanges(ctx context.Context, complaint *domain.Complaint, attach, detach []uuid.UUID) {
	for _, fileID := range attach {
		name, err := s.files.Attach(ctx, fileID, complaint.ID)
		if err != nil {
			s.logger.Warn("file attach failed", zap.String("file_id", fileID.String()), zap.Error(err))
			continue
		}
		s.notifyFileChange(ctx, complaint, name, "ajouté")
	}
	for _, fileID := range detach {
		name, err := s.files.Detach(ctx, fileID, complaint.ID)
		if err != nil {
			s.logger.Warn("file detach failed", zap.String("file_id", fileID.String()), zap.Error(err))
			continue
		}
		s.notifyFileChange(ctx, complaint, name, "supprimé")
	}
}

func (s *LifecycleService) notifyFileChange(ctx context.Context, complaint *domain.Complaint, fileName, action string) {
	message := "Un fichier a été " + action + " à la réclamation '" + complaint.Title + "': " + fileName
	s.send(ctx, pushTo(complaint.SubmitterID, complaint, "Fichier "+action+" à votre réclamation", message))
	if complaint.AgentID != nil {
		s.send(ctx, pushTo(*complaint.AgentID, complaint, "Fichier "+action+" à une réclamation assignée", message))
	}
}

// Escalate bumps the complaint to Urgent and notifies submitter, current
// agent and the named supervisor.
func (s *LifecycleService) Escalate(ctx context.Context, id, supervisorID uuid.UUID, reason string, actor *domain.User) (*domain.Complaint, error) {
	if !actor.Role.AtLeast(domain.RoleAgent) {
		return nil, apperrors.NewAccessDenied("agent or admin role required")
	}
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	supervisor, err := s.users.GetByID(ctx, supervisorID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("supervisor", map[string]any{"supervisor_id": supervisorID})
		}
		return nil, apperrors.MapError(err)
	}

	oldPriority := string(complaint.Priority)
	newPriority := string(domain.PriorityUrgent)
	complaint.Priority = domain.PriorityUrgent
	if err := s.complaints.Update(ctx, complaint); err != nil {
		if err == repository.ErrVersionConflict {
			return nil, apperrors.NewConflict("complaint was modified concurrently", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	actorID := actor.ID
	s.appendAudit(ctx, &domain.AuditEntry{
		ComplaintID: complaint.ID,
		ActorID:     &actorID,
		Action:      domain.ActionEscalation,
		OldValue:    &oldPriority,
		NewValue:    &newPriority,
		Comment:     "Escalade : " + reason,
	})

	s.send(ctx, pushTo(complaint.SubmitterID, complaint,
		"Votre réclamation a été escaladée",
		"Votre réclamation '"+complaint.Title+"' a été escaladée pour la raison : "+reason))
	if complaint.AgentID != nil {
		s.send(ctx, pushTo(*complaint.AgentID, complaint,
			"Réclamation escaladée",
			"La réclamation '"+complaint.Title+"' que vous traitez a été escaladée."))
	}
	s.send(ctx, pushTo(supervisor.ID, complaint,
		"Nouvelle réclamation escaladée",
		"Une réclamation a été escaladée à votre attention : '"+complaint.Title+"'. Raison : "+reason))

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintEscalated,
		ComplaintID: complaint.ID,
		ActorID:     &actorID,
		Payload:     events.ComplaintEscalatedPayload{SupervisorID: supervisor.ID, Reason: reason},
	})
	return complaint, nil
}

// Delete removes a complaint entirely. Administrative operation.
func (s *LifecycleService) Delete(ctx context.Context, id uuid.UUID, actor *domain.User) error {
	if actor.Role != domain.RoleAdmin {
		return apperrors.NewAccessDenied("admin role required")
	}
	if err := s.complaints.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetByID returns a complaint the actor is allowed to see.
func (s *LifecycleService) GetByID(ctx context.Context, id uuid.UUID, actor *domain.User) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if !s.canView(actor, complaint) {
		return nil, apperrors.NewAccessDenied("access denied")
	}
	return complaint, nil
}

// GetByNumber resolves a complaint by its public RCL reference, guarded
// like GetByID.
func (s *LifecycleService) GetByNumber(ctx context.Context, number string, actor *domain.User) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"number": number})
		}
		return nil, apperrors.MapError(err)
	}
	if !s.canView(actor, complaint) {
		return nil, apperrors.NewAccessDenied("access denied")
	}
	return complaint, nil
}

// ListForActor scopes the complaint list by role: admins see everything,
// agents and supervisors their assignments, passengers their own.
func (s *LifecycleService) ListForActor(ctx context.Context, actor *domain.User) ([]domain.Complaint, error) {
	var (
		result []domain.Complaint
		err    error
	)
	switch {
	case actor.Role == domain.RoleAdmin:
		result, err = s.complaints.ListAll(ctx)
	case actor.Role.AtLeast(domain.RoleAgent):
		result, err = s.complaints.ListByAgent(ctx, actor.ID)
	default:
		result, err = s.complaints.ListBySubmitter(ctx, actor.ID)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListAudit returns a complaint's audit trail, guarded like GetByID.
func (s *LifecycleService) ListAudit(ctx context.Context, id uuid.UUID, actor *domain.User) ([]domain.AuditEntry, error) {
	if _, err := s.GetByID(ctx, id, actor); err != nil {
		return nil, err
	}
	entries, err := s.audits.ListByComplaint(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func (s *LifecycleService) canView(actor *domain.User, complaint *domain.Complaint) bool {
	switch {
	case actor.Role == domain.RoleAdmin:
		return true
	case actor.Role.AtLeast(domain.RoleAgent):
		return complaint.AgentID != nil && *complaint.AgentID == actor.ID
	default:
		return s.gate.IsOwner(actor, complaint)
	}
}

// appendAudit writes an audit entry, logging instead of failing the
// already-committed mutation.
func (s *LifecycleService) appendAudit(ctx context.Context, entry *domain.AuditEntry) {
	if err := s.audits.Append(ctx, entry); err != nil {
		s.logger.Error("audit append failed",
			zap.String("complaint_id", entry.ComplaintID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
	}
}

func (s *LifecycleService) send(ctx context.Context, notification *domain.Notification) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Send(ctx, notification); err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("recipient_id", notification.RecipientID.String()),
			zap.Error(err))
	}
}

func (s *LifecycleService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *LifecycleService) salutation(ctx context.Context, userID uuid.UUID) string {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "Bonjour,\n\n"
	}
	return "Bonjour " + user.FirstName + ",\n\n"
}

func pushTo(recipientID uuid.UUID, complaint *domain.Complaint, subject, body string) *domain.Notification {
	complaintID := complaint.ID
	return &domain.Notification{
		Channel:     domain.ChannelPush,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		ComplaintID: &complaintID,
	}
}

func emailTo(recipientID uuid.UUID, complaint *domain.Complaint, subject, body string) *domain.Notification {
	complaintID := complaint.ID
	return &domain.Notification{
		Channel:     domain.ChannelEmail,
		RecipientID: recipientID,
		Subject:     subject,
		Body:        body,
		ComplaintID: &complaintID,
	}
}

func evaluationValue(rating int, comment *string) string {
	value := "Note: " + strconv.Itoa(rating)
	if comment != nil {
		value += ", Commentaire: " + *comment
	}
	return value
}

func generateComplaintNumber() string {
	return "RCL-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
