package registration

import "context"

// RecordStore is the persistence collaborator for registrations.
//
// Implementations are expected to make each call individually durable;
// the reconciler provides no cross-row transactionality. FindByKey must
// observe writes made earlier in the same batch, since two rows for the
// same grantor/VIN in one file rely on the second lookup seeing the
// first insert.
type RecordStore interface {
	// FindByKey returns the record matching the composite natural key,
	// or (nil, nil) when no record matches.
	FindByKey(ctx context.Context, key RecordKey) (*Registration, error)

	Insert(ctx context.Context, rec *Registration) error
	Update(ctx context.Context, rec *Registration) error
}
