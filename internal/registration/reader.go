package registration

// reader.go handles the byte-stream side of an upload: BOM stripping,
// UTF-8 sanitization, and lazy CSV record iteration with header-name
// field lookup.
//
// The wrappers keep memory at O(buffer size) regardless of file size;
// nothing here buffers the whole upload.

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"
)

// Canonical CSV column names. Lookup is case-insensitive.
const (
	colFirstName   = "Grantor First Name"
	colMiddleNames = "Grantor Middle Names"
	colLastName    = "Grantor Last Name"
	colVIN         = "VIN"
	colStartDate   = "Registration start date"
	colDuration    = "Registration duration"
	colACN         = "SPG ACN"
	colOrgName     = "SPG Organization Name"
)

// requiredColumns must all be present in the header; Grantor Middle
// Names is the one optional column.
var requiredColumns = []string{
	colFirstName, colLastName, colVIN, colStartDate, colDuration, colACN, colOrgName,
}

// headerIndex maps lowercased column names to their position in a row.
type headerIndex map[string]int

// makeHeaderIndex builds a headerIndex from the header record.
func makeHeaderIndex(header []string) headerIndex {
	idx := make(headerIndex, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// field returns the named column's raw value from a row, or "" when the
// column is absent or the row is short.
func (idx headerIndex) field(row []string, name string) string {
	pos, ok := idx[strings.ToLower(name)]
	if !ok || pos >= len(row) {
		return ""
	}
	return row[pos]
}

// missingRequired lists required columns absent from the header.
func (idx headerIndex) missingRequired() []string {
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := idx[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// batchReader iterates the data rows of an upload. It is a lazy,
// finite, non-restartable sequence; the header is consumed at
// construction and counts as line 1.
type batchReader struct {
	csv    *csv.Reader
	header headerIndex
	line   int // record ordinal of the last row returned; header is 1
}

// newBatchReader wraps the upload stream, consumes the header record,
// and fails fast when required columns are missing.
//
// A stream with no records at all is ErrEmptyInput; a stream that cannot
// be decoded as CSV is a *MalformedInputError.
func newBatchReader(r io.Reader) (*batchReader, error) {
	cr := csv.NewReader(newUTF8Sanitizer(newBOMSkipper(r)))
	cr.FieldsPerRecord = -1 // short rows are a row-level concern
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, &MalformedInputError{Err: err}
	}

	idx := makeHeaderIndex(header)
	if missing := idx.missingRequired(); len(missing) > 0 {
		return nil, &MissingHeadersError{Columns: missing}
	}

	return &batchReader{csv: cr, header: idx, line: 1}, nil
}

// next returns the next data row and its line number. io.EOF marks the
// end of the sequence. Row-level CSV errors (bad quoting inside one
// record) are returned with the line number so the caller can reject
// just that row; stream-level faults come back wrapped as
// *MalformedInputError.
func (b *batchReader) next() ([]string, int, error) {
	row, err := b.csv.Read()
	if err == io.EOF {
		return nil, b.line, io.EOF
	}
	b.line++
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, b.line, err
		}
		return nil, b.line, &MalformedInputError{Err: err}
	}
	return row, b.line, nil
}

// bomSkipper strips a leading UTF-8 BOM (0xEF 0xBB 0xBF), commonly
// prepended by Windows spreadsheet exports.
type bomSkipper struct {
	r       io.Reader
	checked bool
	buf     []byte
}

func newBOMSkipper(r io.Reader) *bomSkipper {
	return &bomSkipper{r: r}
}

func (s *bomSkipper) Read(p []byte) (int, error) {
	if !s.checked {
		s.checked = true
		head := make([]byte, 3)
		n, err := io.ReadFull(s.r, head)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			err = io.EOF
		} else if err != nil {
			return 0, err
		}
		if !(n == 3 && head[0] == 0xEF && head[1] == 0xBB && head[2] == 0xBF) {
			s.buf = head[:n]
		}
		if err == io.EOF && len(s.buf) == 0 {
			return 0, io.EOF
		}
	}
	if len(s.buf) > 0 {
		n := copy(p, s.buf)
		s.buf = s.buf[n:]
		return n, nil
	}
	return s.r.Read(p)
}

// utf8Sanitizer replaces invalid UTF-8 bytes with '?' on the fly so a
// latin-1 export cannot poison downstream string handling. Multi-byte
// sequences split across reads are carried over to the next call.
type utf8Sanitizer struct {
	r       io.Reader
	pending []byte
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := copy(p, s.pending)
	s.pending = s.pending[:0]

	n, err := s.r.Read(p[offset:])
	n += offset
	if n == 0 {
		return 0, err
	}

	atEOF := err == io.EOF
	data := p[:n]

	// Fast path: pure ASCII needs no inspection.
	ascii := true
	for _, b := range data {
		if b >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return n, err
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && isIncompleteSequence(data[read:]) {
				// Possible sequence split across reads; retry next call.
				s.pending = append(s.pending, data[read:]...)
				return write, err
			}
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write, err
}

// isIncompleteSequence reports whether data is a prefix of a valid
// multi-byte UTF-8 sequence that may be completed by later bytes.
func isIncompleteSequence(data []byte) bool {
	if len(data) == 0 || len(data) >= utf8.UTFMax {
		return false
	}
	b := data[0]
	var want int
	switch {
	case b < 0xC0:
		return false // ASCII or stray continuation byte
	case b < 0xE0:
		want = 2
	case b < 0xF0:
		want = 3
	default:
		want = 4
	}
	if len(data) >= want {
		return false
	}
	for _, c := range data[1:] {
		if c&0xC0 != 0x80 {
			return false
		}
	}
	return true
}
