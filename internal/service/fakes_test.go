package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gira-airport/complaint-service/internal/domain"
	"github.com/gira-airport/complaint-service/internal/repository"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type fakeComplaintRepo struct {
	complaints  map[uuid.UUID]*domain.Complaint
	updateCalls int
	updateErr   error
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[uuid.UUID]*domain.Complaint)}
}

func (r *fakeComplaintRepo) put(complaint *domain.Complaint) {
	copied := *complaint
	r.complaints[complaint.ID] = &copied
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	complaint.ID = uuid.New()
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	complaint.Version = 0
	r.put(complaint)
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	r.updateCalls++
	if r.updateErr != nil {
		return r.updateErr
	}
	stored, ok := r.complaints[complaint.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if stored.Version != complaint.Version {
		return repository.ErrVersionConflict
	}
	complaint.Version++
	r.put(complaint)
	return nil
}

func (r *fakeComplaintRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.complaints, id)
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Complaint, error) {
	stored, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeComplaintRepo) GetByNumber(_ context.Context, number string) (*domain.Complaint, error) {
	for _, stored := range r.complaints {
		if stored.Number == number {
			copied := *stored
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeComplaintRepo) ListBySubmitter(_ context.Context, submitterID uuid.UUID) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, stored := range r.complaints {
		if stored.SubmitterID == submitterID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) ListByAgent(_ context.Context, agentID uuid.UUID) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, stored := range r.complaints {
		if stored.AgentID != nil && *stored.AgentID == agentID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) ListAll(_ context.Context) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, stored := range r.complaints {
		result = append(result, *stored)
	}
	return result, nil
}

func (r *fakeComplaintRepo) ListOverdue(_ context.Context, now time.Time) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for _, stored := range r.complaints {
		if !stored.Breached && stored.DueAt != nil && stored.DueAt.Before(now) && !stored.Status.Terminal() {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *fakeComplaintRepo) MarkBreached(_ context.Context, id uuid.UUID) (bool, error) {
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

type fakeAuditRepo struct {
	entries []domain.AuditEntry
}

func (r *fakeAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByComplaint(_ context.Context, complaintID uuid.UUID) ([]domain.AuditEntry, error) {
	var result []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.ComplaintID == complaintID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeAuditRepo) byAction(action domain.AuditAction) []domain.AuditEntry {
	var result []domain.AuditEntry
	for _, entry := range r.entries {
		if entry.Action == action {
			result = append(result, entry)
		}
	}
	return result
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) ListSupervisors(_ context.Context) ([]domain.User, error) {
	var result []domain.User
	for _, user := range r.users {
		if user.Role == domain.RoleSupervisor && user.Active {
			result = append(result, *user)
		}
	}
	return result, nil
}

type fakeCategoryRepo struct {
	categories    map[uuid.UUID]*domain.Category
	subCategories map[uuid.UUID]*domain.SubCategory
}

func newFakeCategoryRepo(categories ...*domain.Category) *fakeCategoryRepo {
	repo := &fakeCategoryRepo{
		categories:    make(map[uuid.UUID]*domain.Category),
		subCategories: make(map[uuid.UUID]*domain.SubCategory),
	}
	for _, category := range categories {
		repo.categories[category.ID] = category
	}
	return repo
}

func (r *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return category, nil
}

func (r *fakeCategoryRepo) GetSubCategoryByID(_ context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	subCategory, ok := r.subCategories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return subCategory, nil
}

type fakeNotifier struct {
	sent []domain.Notification
}

func (n *fakeNotifier) Send(_ context.Context, notification *domain.Notification) (*domain.Notification, error) {
	notification.ID = uuid.New()
	notification.Status = domain.NotificationSent
	n.sent = append(n.sent, *notification)
	return notification, nil
}

func (n *fakeNotifier) forRecipient(recipientID uuid.UUID) []domain.Notification {
	var result []domain.Notification
	for _, notification := range n.sent {
		if notification.RecipientID == recipientID {
			result = append(result, notification)
		}
	}
	return result
}

func (n *fakeNotifier) byChannel(channel domain.NotificationChannel) []domain.Notification {
	var result []domain.Notification
	for _, notification := range n.sent {
		if notification.Channel == channel {
			result = append(result, notification)
		}
	}
	return result
}

type fakeFiles struct {
	names    map[uuid.UUID]string
	attached []uuid.UUID
	detached []uuid.UUID
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{names: make(map[uuid.UUID]string)}
}

func (f *fakeFiles) Attach(_ context.Context, fileID, _ uuid.UUID) (string, error) {
	name, ok := f.names[fileID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	f.attached = append(f.attached, fileID)
	return name, nil
}

func (f *fakeFiles) Detach(_ context.Context, fileID, _ uuid.UUID) (string, error) {
	name, ok := f.names[fileID]
	if !ok {
		return "", pgx.ErrNoRows
	}
	f.detached = append(f.detached, fileID)
	return name, nil
}
