// Package learning holds the feedback log contract and the learner that turns
// feedback into preference adjustments.
package learning

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/alexanderramin/studyblocks/internal/domain"
)

// ErrInvalidFeedback is returned when a feedback entry lacks its ids.
var ErrInvalidFeedback = errors.New("invalid feedback")

// FeedbackStore is an append-only log of user actions on generated blocks.
// Implementations must make each Append atomic and visible to the next All.
type FeedbackStore interface {
	Append(ctx context.Context, fb *domain.BlockFeedback) error
	All(ctx context.Context) ([]domain.BlockFeedback, error)
	Clear(ctx context.Context) error
}

// ValidateFeedback checks the only fields the log enforces.
func ValidateFeedback(fb *domain.BlockFeedback) error {
	if fb == nil {
		return fmt.Errorf("%w: nil entry", ErrInvalidFeedback)
	}
	if fb.BlockID == "" {
		return fmt.Errorf("%w: block id is required", ErrInvalidFeedback)
	}
	if fb.WorkItemID == "" {
		return fmt.Errorf("%w: work item id is required", ErrInvalidFeedback)
	}
	return nil
}

// MemoryStore is a FeedbackStore held in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	entries []domain.BlockFeedback
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, fb *domain.BlockFeedback) error {
	if err := ValidateFeedback(fb); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *fb)
	return nil
}

// All returns a snapshot in append order.
func (s *MemoryStore) All(_ context.Context) ([]domain.BlockFeedback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BlockFeedback(nil), s.entries...), nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}
