// Package registration implements the batch ingestion of PPSR
// vehicle-security-interest registrations from CSV uploads.
//
// The package owns the full row lifecycle: streaming CSV decoding,
// field normalization, validation, and the add-vs-update reconciliation
// against a RecordStore. It has no HTTP or database dependencies; the
// web and postgres packages plug into it.
package registration

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Duration is the registration lifetime category, derived from the raw
// year count in the CSV.
type Duration int

const (
	DurationNoEndDate       Duration = 0
	DurationSevenYears      Duration = 7
	DurationTwentyFiveYears Duration = 25
)

// DurationFromYears maps a raw year count onto a Duration.
// The mapping is total: anything other than 7 or 25 (including 0)
// collapses to NoEndDate.
func DurationFromYears(years int) Duration {
	switch years {
	case 7:
		return DurationSevenYears
	case 25:
		return DurationTwentyFiveYears
	default:
		return DurationNoEndDate
	}
}

// String returns the category name used in JSON responses and logs.
func (d Duration) String() string {
	switch d {
	case DurationSevenYears:
		return "SevenYears"
	case DurationTwentyFiveYears:
		return "TwentyFiveYears"
	default:
		return "NoEndDate"
	}
}

// Registration is the persisted PPSR registration record.
//
// Field length limits mirror the registrations table: first/last name 35,
// middle names 75, VIN 17, ACN 9, organization name 75.
type Registration struct {
	ID                  uuid.UUID
	GrantorFirstName    string
	GrantorMiddleNames  string // empty when the CSV column was blank
	GrantorLastName     string
	VIN                 string
	StartDate           time.Time // date-only, UTC
	Duration            Duration
	SpgACN              string
	SpgOrganizationName string
}

// Key returns the composite natural key under which this record is
// unique in the store.
func (r *Registration) Key() RecordKey {
	return RecordKey{
		GrantorFirstName: r.GrantorFirstName,
		GrantorLastName:  r.GrantorLastName,
		VIN:              r.VIN,
		SpgACN:           r.SpgACN,
	}
}

// RecordKey is the composite natural key used for add-vs-update
// matching. It mirrors the unique index on the registrations table:
// (grantor_first_name, grantor_last_name, vin, spg_acn).
//
// All fields are expected in normalized form (see normalize.go).
type RecordKey struct {
	GrantorFirstName string
	GrantorLastName  string
	VIN              string
	SpgACN           string
}

// BatchUploadResult is the per-batch summary returned to the caller.
// It is created fresh per ProcessBatch call and never mutated after
// return.
type BatchUploadResult struct {
	// SubmittedRecords counts non-header, non-blank data lines
	// encountered, whether or not they parsed or validated.
	SubmittedRecords int `json:"submittedRecords"`

	AddedRecords   int `json:"addedRecords"`
	UpdatedRecords int `json:"updatedRecords"`
	InvalidRecords int `json:"invalidRecords"`

	// WarningMessages holds per-line warnings, both rejections and
	// advisory normalization notices, in encounter order.
	WarningMessages []string `json:"warningMessages"`

	// ProcessedAt is the UTC completion timestamp.
	ProcessedAt time.Time `json:"processedAt"`
}

// ProcessedRecords is the number of rows that reached the store.
// Always added + updated; never accumulated separately.
func (r *BatchUploadResult) ProcessedRecords() int {
	return r.AddedRecords + r.UpdatedRecords
}

// MarshalJSON includes the derived processedRecords count in the
// response body alongside the stored counters.
func (r *BatchUploadResult) MarshalJSON() ([]byte, error) {
	type alias BatchUploadResult
	return json.Marshal(struct {
		*alias
		ProcessedRecords int `json:"processedRecords"`
	}{
		alias:            (*alias)(r),
		ProcessedRecords: r.ProcessedRecords(),
	})
}
