package worker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gira-airport/complaint-service/internal/domain"
	"github.com/gira-airport/complaint-service/internal/events"
	"github.com/gira-airport/complaint-service/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type stubComplaintRepo struct {
	complaints map[uuid.UUID]*domain.Complaint
}

func newStubComplaintRepo() *stubComplaintRepo {
	return &stubComplaintRepo{complaints: make(map[uuid.UUID]*domain.Complaint)}
}

func (r *stubComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	copied := *complaint
	r.complaints[complaint.ID] = &copied
	return nil
}

func (r *stubComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	stored, ok := r.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != complaint.Version {
		return repository.ErrVersionConflict
	}
	complaint.Version++
	copied := *complaint
	r.complaints[complaint.ID] = &copied
	return nil
}

func (r *stubComplaintRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.complaints, id)
	return nil
}

func (r *stubComplaintRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Complaint, error) {
	stored, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *stubComplaintRepo) GetByNumber(_ context.Context, _ string) (*domain.Complaint, error) {
	return nil, pgx.ErrNoRows
}

func (r *stubComplaintRepo) ListBySubmitter(_ context.Context, _ uuid.UUID) ([]domain.Complaint, error) {
	return nil, nil
}

func (r *stubComplaintRepo) ListByAgent(_ context.Context, _ uuid.UUID) ([]domain.Complaint, error) {
	return nil, nil
}

func (r *stubComplaintRepo) ListAll(_ context.Context) ([]domain.Complaint, error) {
	return nil, nil
}

func (r *stubComplaintRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, stored := range r.complaints {
		if !stored.Breached && stored.DueAt != nil && stored.DueAt.Before(now) && !stored.Status.Terminal() {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *stubComplaintRepo) MarkBreached(_ context.Context, id uuid.UUID) (bool, error) {
	stored, ok := r.complaints[id]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if stored.Breached {
		return false, nil
	}
	stored.Breached = true
	return true, nil
}

type stubAuditRepo struct {
	entries []domain.AuditEntry
}

func (r *stubAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	entry.ID = uuid.New()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *stubAuditRepo) ListByComplaint(_ context.Context, complaintID uuid.UUID) ([]domain.AuditEntry, error) {
	var result []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type stubUserRepo struct {
	users       map[uuid.UUID]*domain.User
	supervisors []domain.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *stubUserRepo) ListSupervisors(_ context.Context) ([]domain.User, error) {
	return r.supervisors, nil
}

type recordingNotifier struct {
	sent []domain.Notification
}

func (n *recordingNotifier) Send(_ context.Context, notification *domain.Notification) (*domain.Notification, error) {
	notification.ID = uuid.New()
	notification.Status = domain.NotificationSent
	n.sent = append(n.sent, *notification)
	return notification, nil
}

func (n *recordingNotifier) forRecipient(recipientID uuid.UUID) []domain.Notification {
	var result []domain.Notification
	for _, notification := range n.sent {
		if notification.RecipientID == recipientID {
			result = append(result, notification)
		}
	}
	return result
}

type sweepFixture struct {
	sweeper    *SlaSweeper
	complaints *stubComplaintRepo
	audits     *stubAuditRepo
	users      *stubUserRepo
	notifier   *recordingNotifier
	breaches   []events.Event
	now        time.Time

	submitter  *domain.User
	agent      *domain.User
	supervisor *domain.User
}

func newSweepFixture(t *testing.T, withSupervisor bool) *sweepFixture {
	t.Helper()

	submitter := &domain.User{FirstName: "Aminata", LastName: "Diallo", Role: domain.RolePassenger, Active: true}
	submitter.ID = uuid.New()
	agent := &domain.User{FirstName: "Moussa", LastName: "Traoré", Role: domain.RoleAgent, Active: true}
	agent.ID = uuid.New()
	supervisor := &domain.User{FirstName: "Awa", LastName: "Koné", Role: domain.RoleSupervisor, Active: true}
	supervisor.ID = uuid.New()

	users := &stubUserRepo{users: map[uuid.UUID]*domain.User{
		submitter.ID: submitter,
		agent.ID:     agent,
	}}
	if withSupervisor {
		users.users[supervisor.ID] = supervisor
		users.supervisors = []domain.User{*supervisor}
	}

	fx := &sweepFixture{
		complaints: newStubComplaintRepo(),
		audits:     &stubAuditRepo{},
		users:      users,
		notifier:   &recordingNotifier{},
		now:        time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		submitter:  submitter,
		agent:      agent,
		supervisor: supervisor,
	}

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventSlaBreached, func(_ context.Context, event events.Event) error {
		fx.breaches = append(fx.breaches, event)
		return nil
	})

	fx.sweeper = NewSlaSweeper(SweeperDependencies{
		ComplaintRepo: fx.complaints,
		AuditRepo:     fx.audits,
		UserRepo:      fx.users,
		Notifier:      fx.notifier,
		Dispatcher:    dispatcher,
		Clock:         fixedClock{now: fx.now},
	})
	return fx
}

func (fx *sweepFixture) overdueComplaint(t *testing.T, assigned bool) *domain.Complaint {
	t.Helper()
	dueAt := fx.now.Add(-2 * time.Hour)
	complaint := &domain.Complaint{
		Number:      "RCL-TEST0001",
		Title:       "Valise introuvable",
		Description: "Aucune nouvelle depuis l'atterrissage",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityNormal,
		SubmitterID: fx.submitter.ID,
		DueAt:       &dueAt,
	}
	if assigned {
		agentID := fx.agent.ID
		complaint.AgentID = &agentID
	}
	require.NoError(t, fx.complaints.Create(context.Background(), complaint))
	return complaint
}

func TestSweepEscalatesToSupervisor(t *testing.T) {
	fx := newSweepFixture(t, true)
	complaint := fx.overdueComplaint(t, true)

	require.NoError(t, fx.sweeper.RunOnce(context.Background()))

	stored, err := fx.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.True(t, stored.Breached)
	assert.Equal(t, domain.PriorityUrgent, stored.Priority)
	require.NotNil(t, stored.AgentID)
	assert.Equal(t, fx.supervisor.ID, *stored.AgentID)

	require.Len(t, fx.audits.entries, 1)
	entry := fx.audits.entries[0]
	assert.Equal(t, domain.ActionSlaEscalation, entry.Action)
	require.NotNil(t, entry.OldValue)
	assert.Equal(t, "Traoré Moussa", *entry.OldValue)
	require.NotNil(t, entry.NewValue)
	assert.Equal(t, "Koné Awa", *entry.NewValue)

	// Supervisor gets Push + Email, the displaced agent one Email.
	assert.Len(t, fx.notifier.forRecipient(fx.supervisor.ID), 2)
	agentNotifs := fx.notifier.forRecipient(fx.agent.ID)
	require.Len(t, agentNotifs, 1)
	assert.Equal(t, domain.ChannelEmail, agentNotifs[0].Channel)
	assert.Empty(t, fx.notifier.forRecipient(fx.submitter.ID))

	require.Len(t, fx.breaches, 1)
	assert.Equal(t, events.EventSlaBreached, fx.breaches[0].Type)
}

func TestSweepWithoutSupervisorNotifiesAgentOnly(t *testing.T) {
	fx := newSweepFixture(t, false)
	complaint := fx.overdueComplaint(t, true)

	require.NoError(t, fx.sweeper.RunOnce(context.Background()))

	stored, err := fx.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.True(t, stored.Breached)
	// No reassignment and no priority bump on this path.
	assert.Equal(t, domain.PriorityNormal, stored.Priority)
	require.NotNil(t, stored.AgentID)
	assert.Equal(t, fx.agent.ID, *stored.AgentID)

	assert.Empty(t, fx.audits.entries)
	assert.Len(t, fx.notifier.forRecipient(fx.agent.ID), 2)
	require.Len(t, fx.breaches, 1)
}

func TestSweepIsIdempotent(t *testing.T) {
	fx := newSweepFixture(t, true)
	fx.overdueComplaint(t, true)

	require.NoError(t, fx.sweeper.RunOnce(context.Background()))
	auditCount := len(fx.audits.entries)
	notifCount := len(fx.notifier.sent)

	// A second pass sees the breached flag and produces nothing new.
	require.NoError(t, fx.sweeper.RunOnce(context.Background()))
	assert.Len(t, fx.audits.entries, auditCount)
	assert.Len(t, fx.notifier.sent, notifCount)
	assert.Len(t, fx.breaches, 1)
}

func TestSweepSkipsTerminalAndFutureComplaints(t *testing.T) {
	fx := newSweepFixture(t, true)

	future := fx.now.Add(3 * time.Hour)
	notDue := &domain.Complaint{
		Number:      "RCL-TEST0002",
		Title:       "Climatisation",
		Status:      domain.StatusInProgress,
		Priority:    domain.PriorityNormal,
		SubmitterID: fx.submitter.ID,
		DueAt:       &future,
	}
	require.NoError(t, fx.complaints.Create(context.Background(), notDue))

	past := fx.now.Add(-1 * time.Hour)
	resolved := &domain.Complaint{
		Number:      "RCL-TEST0003",
		Title:       "Résolu à temps",
		Status:      domain.StatusResolved,
		Priority:    domain.PriorityNormal,
		SubmitterID: fx.submitter.ID,
		DueAt:       &past,
	}
	require.NoError(t, fx.complaints.Create(context.Background(), resolved))

	require.NoError(t, fx.sweeper.RunOnce(context.Background()))

	assert.Empty(t, fx.audits.entries)
	assert.Empty(t, fx.notifier.sent)
	assert.Empty(t, fx.breaches)
}

func TestSweepUnassignedWithoutSupervisorStillFlags(t *testing.T) {
	fx := newSweepFixture(t, false)
	complaint := fx.overdueComplaint(t, false)

	require.NoError(t, fx.sweeper.RunOnce(context.Background()))

	stored, err := fx.complaints.GetByID(context.Background(), complaint.ID)
	require.NoError(t, err)
	assert.True(t, stored.Breached)
	assert.Empty(t, fx.notifier.sent)
	require.Len(t, fx.breaches, 1)
}
