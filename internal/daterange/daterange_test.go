package daterange

import (
	"errors"
	"testing"
	"time"

	"github.com/nivke/invoiceflow/internal/common"
)

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name string
		iso  string
		want string
	}{
		{"valid date", "2025-03-09", "09/03/2025"},
		{"empty input", "", ""},
		{"garbage", "not-a-date", ""},
		{"wrong layout", "09/03/2025", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToDisplay(tt.iso); got != tt.want {
				t.Errorf("ToDisplay(%q) = %q, want %q", tt.iso, got, tt.want)
			}
		})
	}
}

func TestParseDisplay(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "valid", in: "09/03/2025", want: "2025-03-09"},
		{name: "end of year", in: "31/12/2024", want: "2024-12-31"},
		{name: "half-typed input", in: "09/03/20", wantErr: true},
		{name: "single-digit day", in: "9/03/2025", wantErr: true},
		{name: "impossible date", in: "31/02/2025", wantErr: true},
		{name: "month thirteen", in: "01/13/2025", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "iso input rejected", in: "2025-03-09", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDisplay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDisplay(%q) = %q, want error", tt.in, got)
				}
				if !errors.Is(err, common.ErrInvalidDate) {
					t.Errorf("error %v does not unwrap to ErrInvalidDate", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDisplay(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseDisplay(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRange_Valid(t *testing.T) {
	tests := []struct {
		name    string
		r       Range
		wantErr error
	}{
		{name: "empty range", r: Range{}},
		{name: "start only", r: Range{Start: "2025-01-01"}},
		{name: "end only", r: Range{End: "2025-12-31"}},
		{name: "ordered bounds", r: Range{Start: "2025-01-01", End: "2025-12-31"}},
		{name: "same day", r: Range{Start: "2025-06-15", End: "2025-06-15"}},
		{name: "inverted bounds", r: Range{Start: "2025-12-31", End: "2025-01-01"}, wantErr: common.ErrInvalidRange},
		{name: "malformed start", r: Range{Start: "01/01/2025"}, wantErr: common.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Valid()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Valid() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Valid() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuickRanges(t *testing.T) {
	// A mid-month anchor away from any boundary edge cases.
	now := time.Date(2025, time.March, 9, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		fn        func(time.Time) Range
		wantStart string
		wantEnd   string
	}{
		{"this month", ThisMonth, "2025-03-01", "2025-03-31"},
		{"last month", LastMonth, "2025-02-01", "2025-02-28"},
		{"this year", ThisYear, "2025-01-01", "2025-12-31"},
		{"last year", LastYear, "2024-01-01", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(now)
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("got %s..%s, want %s..%s", got.Start, got.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestQuickRanges_MonthBoundaries(t *testing.T) {
	// January: last month crosses the year boundary.
	jan := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	if got := LastMonth(jan); got.Start != "2024-12-01" || got.End != "2024-12-31" {
		t.Errorf("LastMonth in January = %s..%s", got.Start, got.End)
	}

	// Leap February.
	mar := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	if got := LastMonth(mar); got.End != "2024-02-29" {
		t.Errorf("LastMonth end = %s, want 2024-02-29", got.End)
	}
}
