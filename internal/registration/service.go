package registration

// service.go owns batch-level orchestration: admission control for
// concurrent uploads and the entry point the web layer calls.

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyUploads is returned when all batch slots are occupied and
// the wait timeout expires. Clients should retry after a short delay.
var ErrTooManyUploads = errors.New("too many concurrent uploads, please try again later")

const (
	defaultMaxConcurrent = 5
	defaultSlotWait      = 30 * time.Second
)

// Options tunes batch processing. Zero values fall back to defaults.
type Options struct {
	// MaxConcurrent caps batches processed in parallel across requests.
	MaxConcurrent int

	// SlotWait is how long ProcessBatch waits for a free slot before
	// returning ErrTooManyUploads.
	SlotWait time.Duration
}

// Service processes CSV registration batches against a RecordStore.
// A single Service is shared by all requests; each ProcessBatch call
// owns its result exclusively.
type Service struct {
	store    RecordStore
	slots    *semaphore.Weighted
	slotWait time.Duration
}

// NewService creates a Service backed by the given store.
func NewService(store RecordStore, opts Options) *Service {
	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	slotWait := opts.SlotWait
	if slotWait <= 0 {
		slotWait = defaultSlotWait
	}
	return &Service{
		store:    store,
		slots:    semaphore.NewWeighted(int64(maxConcurrent)),
		slotWait: slotWait,
	}
}

// acquireSlot blocks until a batch slot frees up, the wait budget runs
// out (ErrTooManyUploads), or ctx is cancelled.
func (s *Service) acquireSlot(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.slotWait)
	defer cancel()

	if err := s.slots.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyUploads
	}
	return nil
}

func (s *Service) releaseSlot() {
	s.slots.Release(1)
}
