package lead

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for accepted-lead storage
type Repository interface {
	Create(ctx context.Context, sub *Submission, hasSummary bool) (*StoredLead, error)
	List(ctx context.Context) ([]*StoredLead, error)
}

// InMemoryRepository holds accepted leads for the process lifetime. Nothing
// is persisted; a restart loses the list. The notification email is the
// durable record.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads []*StoredLead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Create records an accepted submission
func (r *InMemoryRepository) Create(ctx context.Context, sub *Submission, hasSummary bool) (*StoredLead, error) {
	stored := &StoredLead{
		ID:         uuid.New().String(),
		Submission: *sub,
		HasSummary: hasSummary,
		CreatedAt:  time.Now().UTC(),
	}
	stored.RecaptchaToken = ""

	r.mu.Lock()
	r.leads = append(r.leads, stored)
	r.mu.Unlock()

	return stored, nil
}

// List returns accepted leads, newest first
func (r *InMemoryRepository) List(ctx context.Context) ([]*StoredLead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*StoredLead, 0, len(r.leads))
	for i := len(r.leads) - 1; i >= 0; i-- {
		out = append(out, r.leads[i])
	}
	return out, nil
}
