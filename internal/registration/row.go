package registration

// row.go turns one raw CSV record into a normalized, validated row.
// Failures are values, not panics: the reconciler inspects rowResult
// and never needs to recover anything.

import (
	"fmt"
	"strings"
)

// uploadRow holds the normalized fields of one CSV line.
type uploadRow struct {
	line int // record ordinal for warning messages

	firstName   string
	middleNames string
	lastName    string
	vin         string
	startDate   string // raw; parsed during build
	durationRaw string
	acn         string
	orgName     string

	rawVIN string // pre-normalization values, for advisory notices
	rawACN string
}

// rowResult is the typed outcome of parsing and validating one row.
// When Invalid is true the row is rejected and Warnings carries the
// explanation; otherwise Row holds the candidate and Warnings holds any
// advisory normalization notices.
type rowResult struct {
	Row      *Registration
	Invalid  bool
	Warnings []string
}

// buildRow extracts and normalizes one record's fields by header name.
func buildRow(idx headerIndex, record []string, line int) uploadRow {
	rawVIN := idx.field(record, colVIN)
	rawACN := idx.field(record, colACN)

	return uploadRow{
		line:        line,
		firstName:   CleanName(idx.field(record, colFirstName)),
		middleNames: CleanName(idx.field(record, colMiddleNames)),
		lastName:    CleanName(idx.field(record, colLastName)),
		vin:         NormalizeVIN(rawVIN),
		startDate:   idx.field(record, colStartDate),
		durationRaw: idx.field(record, colDuration),
		acn:         NormalizeACN(rawACN),
		orgName:     strings.TrimSpace(idx.field(record, colOrgName)),
		rawVIN:      rawVIN,
		rawACN:      rawACN,
	}
}

// resolveRow validates a built row and assembles the Registration
// candidate. The returned result is one of:
//   - invalid with a row-level error message (unparsable date),
//   - invalid with a missing-required-fields warning,
//   - valid, possibly with advisory normalization notices.
//
// Date parsing is part of normalization and therefore runs before the
// required-field check; a row failing both reports only the date error.
func resolveRow(row uploadRow) rowResult {
	startDate, err := ParseDateSmart(row.startDate)
	if err != nil {
		return rowResult{
			Invalid:  true,
			Warnings: []string{fmt.Sprintf("Line %d: %s", row.line, err.Error())},
		}
	}

	if row.vin == "" || row.firstName == "" || row.lastName == "" {
		return rowResult{
			Invalid: true,
			Warnings: []string{
				fmt.Sprintf("Line %d: Missing required fields (VIN or Grantor names)", row.line),
			},
		}
	}

	var warnings []string
	if row.rawVIN != row.vin {
		warnings = append(warnings, fmt.Sprintf("Line %d: VIN was normalized to '%s'", row.line, row.vin))
	}
	if row.rawACN != row.acn {
		warnings = append(warnings, fmt.Sprintf("Line %d: SPG ACN was normalized to '%s'", row.line, row.acn))
	}

	return rowResult{
		Row: &Registration{
			GrantorFirstName:    row.firstName,
			GrantorMiddleNames:  row.middleNames,
			GrantorLastName:     row.lastName,
			VIN:                 row.vin,
			StartDate:           startDate,
			Duration:            DurationFromYears(ParseDurationYears(row.durationRaw)),
			SpgACN:              row.acn,
			SpgOrganizationName: row.orgName,
		},
		Warnings: warnings,
	}
}
