package registration

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

const testHeader = "Grantor First Name,Grantor Middle Names,Grantor Last Name,VIN,Registration start date,Registration duration,SPG ACN,SPG Organization Name"

func TestBOMSkipper(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "short non-BOM file",
			input:    []byte("ab"),
			expected: "ab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(newBOMSkipper(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "valid ASCII",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "valid multibyte",
			input:    []byte("héllo,wörld"),
			expected: "héllo,wörld",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he?lo",
		},
		{
			name:     "latin-1 sequence replaced",
			input:    []byte{'c', 'a', 'f', 0xE9, ','},
			expected: "caf?,",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(newUTF8Sanitizer(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer_SequenceSplitAcrossReads(t *testing.T) {
	// "é" is 0xC3 0xA9; iotest-style one-byte reads force the sequence
	// across Read boundaries.
	input := []byte("caf\xc3\xa9 nine")
	result, err := io.ReadAll(newUTF8Sanitizer(oneByteReader{bytes.NewReader(input)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "café nine" {
		t.Errorf("got %q, want %q", string(result), "café nine")
	}
}

type oneByteReader struct{ r io.Reader }

func (o oneByteReader) Read(p []byte) (int, error) {
	if len(p) > 1 {
		p = p[:1]
	}
	return o.r.Read(p)
}

func TestNewBatchReader_EmptyInput(t *testing.T) {
	_, err := newBatchReader(strings.NewReader(""))
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}
}

func TestNewBatchReader_MissingHeaders(t *testing.T) {
	_, err := newBatchReader(strings.NewReader("VIN,Registration start date\nabc,2025-01-01\n"))
	var missing *MissingHeadersError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want *MissingHeadersError", err)
	}
	for _, col := range []string{"Grantor First Name", "Grantor Last Name", "SPG ACN"} {
		found := false
		for _, c := range missing.Columns {
			if c == col {
				found = true
			}
		}
		if !found {
			t.Errorf("missing columns %v should include %q", missing.Columns, col)
		}
	}
}

func TestBatchReader_HeaderCaseInsensitive(t *testing.T) {
	lower := strings.ToLower(testHeader)
	br, err := newBatchReader(strings.NewReader(lower + "\nJohn,,Smith,VIN1,2025-01-01,7,123,Acme\n"))
	if err != nil {
		t.Fatalf("newBatchReader() error = %v", err)
	}

	row, line, err := br.next()
	if err != nil {
		t.Fatalf("next() error = %v", err)
	}
	if line != 2 {
		t.Errorf("line = %d, want 2", line)
	}
	if got := br.header.field(row, "VIN"); got != "VIN1" {
		t.Errorf("VIN field = %q, want %q", got, "VIN1")
	}
}

func TestBatchReader_SkipsBlankLines(t *testing.T) {
	input := testHeader + "\n\nJohn,,Smith,VIN1,2025-01-01,7,123,Acme\n\n\nJane,,Doe,VIN2,2025-01-01,25,456,Acme\n"
	br, err := newBatchReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("newBatchReader() error = %v", err)
	}

	var rows int
	for {
		_, _, err := br.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		rows++
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}
}

func TestBatchReader_ShortRowFieldsEmpty(t *testing.T) {
	br, err := newBatchReader(strings.NewReader(testHeader + "\nJohn,,Smith\n"))
	if err != nil {
		t.Fatalf("newBatchReader() error = %v", err)
	}

	row, _, err := br.next()
	if err != nil {
		t.Fatalf("next() error = %v", err)
	}
	if got := br.header.field(row, "VIN"); got != "" {
		t.Errorf("VIN on short row = %q, want empty", got)
	}
	if got := br.header.field(row, "Grantor First Name"); got != "John" {
		t.Errorf("first name = %q, want %q", got, "John")
	}
}

func TestBatchReader_BOMInHeader(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte(testHeader+"\nJohn,,Smith,VIN1,2025-01-01,7,123,Acme\n")...)
	br, err := newBatchReader(bytes.NewReader(input))
	if err != nil {
		t.Fatalf("newBatchReader() error = %v", err)
	}
	row, _, err := br.next()
	if err != nil {
		t.Fatalf("next() error = %v", err)
	}
	if got := br.header.field(row, "Grantor First Name"); got != "John" {
		t.Errorf("first name = %q, want %q", got, "John")
	}
}
