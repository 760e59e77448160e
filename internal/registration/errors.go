package registration

// errors.go defines the error taxonomy for batch processing.
//
// Two severities exist:
//   - batch-fatal: the stream is unreadable or the header is unusable;
//     ProcessBatch returns an error and no result.
//   - row-level: date parse failures, missing fields, store faults;
//     the row is rejected, counted, and warned, and the batch continues.
//
// Row-level failures never surface as errors from ProcessBatch.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyInput is returned when the upload contains no bytes at all.
var ErrEmptyInput = errors.New("empty file: the uploaded file has no content")

// MalformedInputError indicates a stream-level fault: unreadable bytes
// or CSV structure broken badly enough that no header could be read.
// Field-count mismatches on individual rows are not malformed input.
type MalformedInputError struct {
	Err error
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed CSV input: %v", e.Err)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// MissingHeadersError indicates the header row lacks required columns.
// Reported up front, before any row is processed.
type MissingHeadersError struct {
	Columns []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// DateFormatError indicates a registration start date that matched no
// known layout. It carries the raw cell text for the per-line warning.
type DateFormatError struct {
	Raw string
}

func (e *DateFormatError) Error() string {
	return fmt.Sprintf("unrecognized date format: %q", e.Raw)
}

// UserMessage is a client-safe rendering of an error, used by the web
// layer for response bodies. Code is a stable reference for support.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

// errorPatterns maps substrings of technical errors to user messages.
// First match wins; order groups store faults before generic ones.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"unique constraint", UserMessage{
		Message: "A registration with the same grantor, VIN and ACN already exists",
		Action:  "Check the file for duplicate rows",
		Code:    "DB002",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to reach the registration database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"timeout", UserMessage{
		Message: "The operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB006",
	}},
	{"missing required columns", UserMessage{
		Message: "The CSV header is missing required columns",
		Action:  "Check the column names against the upload template",
		Code:    "VAL004",
	}},
	{"unrecognized date format", UserMessage{
		Message: "A date column contains an unrecognized format",
		Action:  "Use YYYY-MM-DD or DD/MM/YYYY dates",
		Code:    "VAL001",
	}},
	{"malformed csv", UserMessage{
		Message: "The file is not a readable CSV",
		Action:  "Ensure the file is comma-separated UTF-8 text",
		Code:    "FILE002",
	}},
	{"empty file", UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a CSV file with a header row and data rows",
		Code:    "FILE005",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Choose a CSV file to upload",
		Code:    "FILE004",
	}},
	{"too many concurrent", UserMessage{
		Message: "Too many uploads are running right now",
		Action:  "Wait a moment and retry",
		Code:    "UPL002",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again, and contact support if the problem persists",
	Code:    "ERR000",
}

// MapError converts any error into a client-safe UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}
