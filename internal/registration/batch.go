package registration

// batch.go is the reconciliation loop: per row, decide add vs update vs
// reject, apply the decision through the RecordStore, and accumulate the
// batch summary.
//
// Rows run strictly sequentially. Each row's add-or-update decision
// reads the store, and that read must observe writes from earlier rows
// in the same file, so no row-level parallelism is safe here.

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ProcessBatch ingests one CSV upload and returns the batch summary.
//
// Batch-fatal conditions (empty input, unreadable stream, missing
// required headers, no free upload slot) return an error and no result.
// Everything row-level is recovered in place: the row is rejected,
// counted, warned about, and the batch carries on.
//
// Cancellation is cooperative and checked between rows; a cancelled
// batch returns the partial result accumulated so far.
func (s *Service) ProcessBatch(ctx context.Context, upload io.Reader) (*BatchUploadResult, error) {
	if err := s.acquireSlot(ctx); err != nil {
		return nil, err
	}
	defer s.releaseSlot()

	reader, err := newBatchReader(upload)
	if err != nil {
		return nil, err
	}

	result := &BatchUploadResult{
		WarningMessages: []string{},
	}
	logger := slog.Default().With("component", "batch")
	start := time.Now()

loop:
	for {
		select {
		case <-ctx.Done():
			// Best-effort partial result; counters describe exactly
			// what was applied before the signal.
			logger.Warn("batch cancelled",
				"submitted", result.SubmittedRecords,
				"processed", result.ProcessedRecords(),
			)
			break loop
		default:
		}

		record, line, err := reader.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			var malformed *MalformedInputError
			if errors.As(err, &malformed) {
				return nil, malformed
			}
			// Row-level CSV fault: reject the line, keep going.
			result.SubmittedRecords++
			result.InvalidRecords++
			result.WarningMessages = append(result.WarningMessages,
				fmt.Sprintf("Line %d: %s", line, err.Error()))
			continue
		}

		result.SubmittedRecords++
		s.reconcileRow(ctx, reader.header, record, line, result)
	}

	result.ProcessedAt = time.Now().UTC()
	logger.Info("batch complete",
		"submitted", result.SubmittedRecords,
		"added", result.AddedRecords,
		"updated", result.UpdatedRecords,
		"invalid", result.InvalidRecords,
		"warnings", len(result.WarningMessages),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

// reconcileRow runs one row through normalize, validate, resolve, and
// apply, updating counters and warnings on result.
func (s *Service) reconcileRow(ctx context.Context, idx headerIndex, record []string, line int, result *BatchUploadResult) {
	res := resolveRow(buildRow(idx, record, line))
	result.WarningMessages = append(result.WarningMessages, res.Warnings...)
	if res.Invalid {
		result.InvalidRecords++
		return
	}

	candidate := res.Row

	existing, err := s.store.FindByKey(ctx, candidate.Key())
	if err != nil {
		s.rejectRow(result, line, err)
		return
	}

	if existing != nil {
		// Overwrite the mutable fields in place; key fields already
		// match by construction.
		existing.GrantorMiddleNames = candidate.GrantorMiddleNames
		existing.StartDate = candidate.StartDate
		existing.Duration = candidate.Duration
		existing.SpgOrganizationName = candidate.SpgOrganizationName

		if err := s.store.Update(ctx, existing); err != nil {
			s.rejectRow(result, line, err)
			return
		}
		result.UpdatedRecords++
		return
	}

	candidate.ID = uuid.New()
	if err := s.store.Insert(ctx, candidate); err != nil {
		s.rejectRow(result, line, err)
		return
	}
	result.AddedRecords++
}

// rejectRow applies the row-level store fault policy: count the row as
// invalid and continue the batch.
func (s *Service) rejectRow(result *BatchUploadResult, line int, err error) {
	result.InvalidRecords++
	result.WarningMessages = append(result.WarningMessages,
		fmt.Sprintf("Line %d: %s", line, err.Error()))
}
