package registration

import (
	"errors"
	"testing"
	"time"
)

func TestCleanName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "John", "John"},
		{"surrounding whitespace", "  Smith  ", "Smith"},
		{"comma becomes space", "Smith,John", "Smith John"},
		{"digits stripped", "J0hn3", "Jhn"},
		{"punctuation stripped", "O'Brien-Jones", "OBrienJones"},
		{"interior whitespace kept", "Mary Anne", "Mary Anne"},
		{"blank", "   ", ""},
		{"empty", "", ""},
		{"only punctuation", "123!@#", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanName(tt.input); got != tt.want {
				t.Errorf("CleanName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeVIN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"abc1234567890", "ABC1234567890"},
		{"  abc123  ", "ABC123"},
		{"ABC123", "ABC123"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := NormalizeVIN(tt.input); got != tt.want {
			t.Errorf("NormalizeVIN(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeACN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123 456 789", "123456789"},
		{" 123456789 ", "123456789"},
		{"123456789", "123456789"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeACN(tt.input); got != tt.want {
			t.Errorf("NormalizeACN(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseDateSmart(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"ISO", "2025-01-01", date(2025, time.January, 1)},
		{"day first", "25/01/2025", date(2025, time.January, 25)},
		{"ambiguous reads day first", "03/04/2025", date(2025, time.April, 3)},
		{"month first when day first impossible", "01/25/2025", date(2025, time.January, 25)},
		{"single digit day and month", "3/4/2025", date(2025, time.April, 3)},
		{"dashes day first", "25-01-2025", date(2025, time.January, 25)},
		{"day month-name year", "2 Jan 2025", date(2025, time.January, 2)},
		{"padded day month-name year", "02 Jan 2025", date(2025, time.January, 2)},
		{"loose fallback datetime", "2025-01-02T10:30:00Z", date(2025, time.January, 2)},
		{"surrounding whitespace", "  2025-01-01  ", date(2025, time.January, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateSmart(tt.input)
			if err != nil {
				t.Fatalf("ParseDateSmart(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDateSmart(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseDateSmart(%q) location = %v, want UTC", tt.input, got.Location())
			}
			if h, m, s := got.Clock(); h != 0 || m != 0 || s != 0 {
				t.Errorf("ParseDateSmart(%q) has time component %02d:%02d:%02d", tt.input, h, m, s)
			}
		})
	}
}

func TestParseDateSmart_Invalid(t *testing.T) {
	for _, input := range []string{"not-a-date", "32/13/2025", "", "2025"} {
		_, err := ParseDateSmart(input)
		if err == nil {
			t.Errorf("ParseDateSmart(%q) expected error", input)
			continue
		}
		var dfe *DateFormatError
		if !errors.As(err, &dfe) {
			t.Errorf("ParseDateSmart(%q) error type = %T, want *DateFormatError", input, err)
		}
	}
}

func TestParseDurationYears(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"7", 7},
		{"25", 25},
		{"7.0", 7},
		{"25.00", 25},
		{" 7 ", 7},
		{"", 0},
		{"forever", 0},
		{"0", 0},
	}

	for _, tt := range tests {
		if got := ParseDurationYears(tt.input); got != tt.want {
			t.Errorf("ParseDurationYears(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestDurationFromYears(t *testing.T) {
	tests := []struct {
		years int
		want  Duration
	}{
		{7, DurationSevenYears},
		{25, DurationTwentyFiveYears},
		{0, DurationNoEndDate},
		{3, DurationNoEndDate},
		{-7, DurationNoEndDate},
		{70, DurationNoEndDate},
	}

	for _, tt := range tests {
		if got := DurationFromYears(tt.years); got != tt.want {
			t.Errorf("DurationFromYears(%d) = %v, want %v", tt.years, got, tt.want)
		}
	}
}
