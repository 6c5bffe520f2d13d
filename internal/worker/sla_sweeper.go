package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gira-airport/complaint-service/internal/clock"
	"github.com/gira-airport/complaint-service/internal/domain"
	"github.com/gira-airport/complaint-service/internal/events"
	"github.com/gira-airport/complaint-service/internal/observability"
	"github.com/gira-airport/complaint-service/internal/repository"
	"github.com/gira-airport/complaint-service/internal/service"
)

// SlaSweeper periodically scans for complaints past their SLA deadline
// and escalates them. Each breach is flagged at most once: the atomic
// breached flip in the repository is the idempotency gate, so concurrent
// or repeated sweeps never double-escalate.
type SlaSweeper struct {
	complaints repository.ComplaintRepository
	audits     repository.AuditRepository
	users      repository.UserRepository
	notifier   service.Notifier
	dispatcher events.Dispatcher
	clock      clock.Clock
	interval   time.Duration
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// SweeperDependencies bundles collaborators for the sweeper.
type SweeperDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	AuditRepo     repository.AuditRepository
	UserRepo      repository.UserRepository
	Notifier      service.Notifier
	Dispatcher    events.Dispatcher
	Clock         clock.Clock
	Interval      time.Duration
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewSlaSweeper constructs the sweeper.
func NewSlaSweeper(deps SweeperDependencies) *SlaSweeper {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clk := deps.Clock
	if clk == nil {
		clk = clock.System()
	}
	interval := deps.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	return &SlaSweeper{
		complaints: deps.ComplaintRepo,
		audits:     deps.AuditRepo,
		users:      deps.UserRepo,
		notifier:   deps.Notifier,
		dispatcher: deps.Dispatcher,
		clock:      clk,
		interval:   interval,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (w *SlaSweeper) Start(ctx context.Context) {
	w.logger.Info("sla sweeper started", zap.Duration("interval", w.interval))
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("sla sweeper stopped")
			return
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Error("sla sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sweep pass. Per-complaint failures are
// logged and skipped so one bad row cannot stall the whole pass.
func (w *SlaSweeper) RunOnce(ctx context.Context) error {
	now := w.clock.Now()
	overdue, err := w.complaints.ListOverdue(ctx, now)
	if err != nil {
		return err
	}
	if len(overdue) == 0 {
		w.metrics.RecordSweep(0)
		return nil
	}

	supervisors, err := w.users.ListSupervisors(ctx)
	if err != nil {
		return err
	}

	escalated := 0
	for i := range overdue {
		complaint := overdue[i]
		if err := w.escalateBreach(ctx, &complaint, supervisors); err != nil {
			w.logger.Error("breach escalation failed",
				zap.String("complaint_id", complaint.ID.String()),
				zap.String("number", complaint.Number),
				zap.Error(err))
			continue
		}
		escalated++
	}
	w.metrics.RecordSweep(escalated)
	w.logger.Info("sla sweep completed",
		zap.Int("overdue", len(overdue)),
		zap.Int("escalated", escalated))
	return nil
}

func (w *SlaSweeper) escalateBreach(ctx context.Context, complaint *domain.Complaint, supervisors []domain.User) error {
	flipped, err := w.complaints.MarkBreached(ctx, complaint.ID)
	if err != nil {
		return err
	}
	if !flipped {
		// Another sweep already handled this one.
		return nil
	}
	complaint.Breached = true

	if len(supervisors) > 0 {
		return w.escalateToSupervisor(ctx, complaint, supervisors)
	}
	w.notifyAgentOnly(ctx, complaint)
	w.publishBreach(ctx, complaint, nil, complaint.AgentID)
	return nil
}

// escalateToSupervisor reassigns the breached complaint to the first
// supervisor, bumps it to Urgent and fans out the breach notifications.
func (w *SlaSweeper) escalateToSupervisor(ctx context.Context, complaint *domain.Complaint, supervisors []domain.User) error {
	supervisor := supervisors[0]

	var previousAgent *domain.User
	previousAgentID := complaint.AgentID
	if previousAgentID != nil {
		if agent, err := w.users.GetByID(ctx, *previousAgentID); err == nil {
			previousAgent = agent
		}
	}

	supervisorID := supervisor.ID
	complaint.AgentID = &supervisorID
	complaint.Priority = domain.PriorityUrgent
	if err := w.complaints.Update(ctx, complaint); err != nil {
		return err
	}

	var oldValue *string
	if previousAgent != nil {
		name := previousAgent.FullName()
		oldValue = &name
	}
	newValue := supervisor.FullName()
	entry := &domain.AuditEntry{
		ComplaintID: complaint.ID,
		ActorID:     &supervisorID,
		Action:      domain.ActionSlaEscalation,
		OldValue:    oldValue,
		NewValue:    &newValue,
		Comment:     "Escalade automatique : délai SLA dépassé",
	}
	if err := w.audits.Append(ctx, entry); err != nil {
		w.logger.Error("audit append failed",
			zap.String("complaint_id", complaint.ID.String()),
			zap.Error(err))
	}

	for i := range supervisors {
		w.send(ctx, &domain.Notification{
			Channel:     domain.ChannelPush,
			RecipientID: supervisors[i].ID,
			Subject:     "SLA dépassé : réclamation escaladée",
			Body:        "La réclamation '" + complaint.Title + "' (" + complaint.Number + ") a dépassé son délai de traitement et a été escaladée.",
			ComplaintID: &complaint.ID,
		})
		w.send(ctx, &domain.Notification{
			Channel:     domain.ChannelEmail,
			RecipientID: supervisors[i].ID,
			Subject:     "[GIRA] SLA dépassé : réclamation " + complaint.Number,
			Body: "Bonjour " + supervisors[i].FirstName + ",\n\n" +
				"La réclamation '" + complaint.Title + "' (" + complaint.Number + ") a dépassé son délai de traitement. " +
				"Elle a été passée en priorité Urgent et assignée à " + supervisor.FullName() + ".\n\nCordialement,\nGIRA",
			ComplaintID: &complaint.ID,
		})
	}
	if previousAgent != nil {
		w.send(ctx, &domain.Notification{
			Channel:     domain.ChannelEmail,
			RecipientID: previousAgent.ID,
			Subject:     "[GIRA] Réclamation réassignée suite à un dépassement SLA",
			Body: "Bonjour " + previousAgent.FirstName + ",\n\n" +
				"La réclamation '" + complaint.Title + "' (" + complaint.Number + ") qui vous était assignée a dépassé son délai de traitement " +
				"et a été réassignée à " + supervisor.FullName() + ".\n\nCordialement,\nGIRA",
			ComplaintID: &complaint.ID,
		})
	}

	w.publishBreach(ctx, complaint, &supervisorID, previousAgentID)
	return nil
}

// notifyAgentOnly covers the no-supervisor deployment: the assigned
// agent is alerted but the complaint keeps its priority and assignee.
func (w *SlaSweeper) notifyAgentOnly(ctx context.Context, complaint *domain.Complaint) {
	if complaint.AgentID == nil {
		return
	}
	agentID := *complaint.AgentID
	w.send(ctx, &domain.Notification{
		Channel:     domain.ChannelPush,
		RecipientID: agentID,
		Subject:     "SLA dépassé pour une réclamation assignée",
		Body:        "La réclamation '" + complaint.Title + "' (" + complaint.Number + ") a dépassé son délai de traitement.",
		ComplaintID: &complaint.ID,
	})
	body := "La réclamation '" + complaint.Title + "' (" + complaint.Number + ") qui vous est assignée a dépassé son délai de traitement. Merci de la traiter en priorité.\n\nCordialement,\nGIRA"
	if agent, err := w.users.GetByID(ctx, agentID); err == nil {
		body = "Bonjour " + agent.FirstName + ",\n\n" + body
	}
	w.send(ctx, &domain.Notification{
		Channel:     domain.ChannelEmail,
		RecipientID: agentID,
		Subject:     "[GIRA] SLA dépassé : réclamation " + complaint.Number,
		Body:        body,
		ComplaintID: &complaint.ID,
	})
}

func (w *SlaSweeper) publishBreach(ctx context.Context, complaint *domain.Complaint, reassignedTo, previousAgent *uuid.UUID) {
	if w.dispatcher == nil {
		return
	}
	var dueAt time.Time
	if complaint.DueAt != nil {
		dueAt = *complaint.DueAt
	}
	_ = w.dispatcher.Publish(ctx, events.Event{
		ID:          uuid.New(),
		Type:        events.EventSlaBreached,
		ComplaintID: complaint.ID,
		Timestamp:   w.clock.Now(),
		Payload: events.SlaBreachedPayload{
			DueAt:         dueAt,
			ReassignedTo:  reassignedTo,
			PreviousAgent: previousAgent,
		},
	})
}

func (w *SlaSweeper) send(ctx context.Context, notification *domain.Notification) {
	if _, err := w.notifier.Send(ctx, notification); err != nil {
		w.logger.Warn("breach notification failed",
			zap.String("recipient_id", notification.RecipientID.String()),
			zap.Error(err))
	}
}
