package registration

import (
	"errors"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error", nil, ""},
		{"duplicate key", errors.New(`ERROR: duplicate key value violates unique constraint "ix_registrations_natural_key"`), "DB002"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "DB004"},
		{"timeout", errors.New("context deadline exceeded: timeout"), "DB006"},
		{"missing headers", &MissingHeadersError{Columns: []string{"VIN"}}, "VAL004"},
		{"bad date", &DateFormatError{Raw: "31/31/2025"}, "VAL001"},
		{"malformed stream", &MalformedInputError{Err: errors.New("parse error")}, "FILE002"},
		{"empty input", ErrEmptyInput, "FILE005"},
		{"slot exhaustion", ErrTooManyUploads, "UPL002"},
		{"unknown", errors.New("something else entirely"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError(%v).Code = %q, want %q", tt.err, got.Code, tt.wantCode)
			}
			if tt.err != nil && got.Message == "" {
				t.Errorf("MapError(%v) returned empty message", tt.err)
			}
		})
	}
}
