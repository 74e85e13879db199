package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/studyblocks/internal/domain"
	"github.com/alexanderramin/studyblocks/internal/learning"
	"github.com/alexanderramin/studyblocks/internal/repository"
	"github.com/google/uuid"
)

type feedbackService struct {
	blocks   repository.BlockRepo
	store    learning.FeedbackStore
	observer UseCaseObserver
}

func NewFeedbackService(blocks repository.BlockRepo, store learning.FeedbackStore, observers ...UseCaseObserver) FeedbackService {
	return &feedbackService{
		blocks:   blocks,
		store:    store,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Record resolves the stored block so the entry carries the block's original
// placement, then appends it to the log.
func (s *feedbackService) Record(ctx context.Context, req RecordFeedbackRequest) (fb *domain.BlockFeedback, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{
		"block_id": req.BlockID,
		"action":   string(req.Action),
	}
	defer observe(ctx, s.observer, "feedback-record", startedAt, &err, fields)

	if !domain.ValidFeedbackActions[string(req.Action)] {
		return nil, fmt.Errorf("%w: unknown action %q", learning.ErrInvalidFeedback, req.Action)
	}
	if req.CompletionRatio < 0 || req.CompletionRatio > 1 {
		return nil, fmt.Errorf("%w: completion ratio %g outside [0,1]", learning.ErrInvalidFeedback, req.CompletionRatio)
	}

	block, err := s.blocks.GetByID(ctx, req.BlockID)
	if err != nil {
		return nil, fmt.Errorf("looking up block: %w", err)
	}

	fb = &domain.BlockFeedback{
		ID:              uuid.New().String(),
		BlockID:         block.ID,
		WorkItemID:      block.WorkItemID,
		Category:        block.Category,
		OriginalStart:   block.Start,
		OriginalEnd:     block.End,
		CompletionRatio: req.CompletionRatio,
		Action:          req.Action,
		RecordedAt:      time.Now().UTC().Truncate(time.Second),
	}
	if err := s.store.Append(ctx, fb); err != nil {
		return nil, err
	}
	fields["work_item_id"] = fb.WorkItemID
	return fb, nil
}

func (s *feedbackService) List(ctx context.Context) ([]domain.BlockFeedback, error) {
	return s.store.All(ctx)
}
