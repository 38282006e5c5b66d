// Package daterange converts between wire (ISO) and display (DD/MM/YYYY)
// calendar dates and computes quick-select ranges.
package daterange

import (
	"fmt"
	"regexp"
	"time"

	"github.com/nivke/invoiceflow/internal/common"
)

// Date layouts. The backend speaks ISO; users type and read DD/MM/YYYY.
const (
	ISOLayout     = "2006-01-02"
	DisplayLayout = "02/01/2006"
)

var displayPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// Range is an inclusive calendar date range in ISO form. An empty bound is
// unbounded on that side.
type Range struct {
	Start string
	End   string
}

// Valid reports whether both present bounds parse and End is not before
// Start. A half-open or empty range is valid.
func (r Range) Valid() error {
	var start, end time.Time
	var err error
	if r.Start != "" {
		if start, err = time.Parse(ISOLayout, r.Start); err != nil {
			return fmt.Errorf("%w: %q", common.ErrInvalidDate, r.Start)
		}
	}
	if r.End != "" {
		if end, err = time.Parse(ISOLayout, r.End); err != nil {
			return fmt.Errorf("%w: %q", common.ErrInvalidDate, r.End)
		}
	}
	if r.Start != "" && r.End != "" && end.Before(start) {
		return common.ErrInvalidRange
	}
	return nil
}

// ToDisplay converts an ISO date to DD/MM/YYYY. Unparsable or empty input
// comes back empty rather than erroring; display conversion is best-effort.
func ToDisplay(iso string) string {
	t, err := time.Parse(ISOLayout, iso)
	if err != nil {
		return ""
	}
	return t.Format(DisplayLayout)
}

// ParseDisplay converts manually typed DD/MM/YYYY input to ISO. Input is
// accepted only once it fully matches the pattern and names a real calendar
// date; anything else returns ErrInvalidDate so the caller can clear the
// bound instead of carrying a half-typed value.
func ParseDisplay(s string) (string, error) {
	if !displayPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q is not DD/MM/YYYY", common.ErrInvalidDate, s)
	}
	t, err := time.Parse(DisplayLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidDate, s)
	}
	return t.Format(ISOLayout), nil
}

// ParseISO validates an ISO date string and returns it normalized.
func ParseISO(s string) (string, error) {
	t, err := time.Parse(ISOLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not YYYY-MM-DD", common.ErrInvalidDate, s)
	}
	return t.Format(ISOLayout), nil
}

// ThisMonth returns the range covering the calendar month containing now.
func ThisMonth(now time.Time) Range {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, -1)
	return Range{Start: start.Format(ISOLayout), End: end.Format(ISOLayout)}
}

// LastMonth returns the range covering the calendar month before now's.
func LastMonth(now time.Time) Range {
	firstOfThis := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := firstOfThis.AddDate(0, -1, 0)
	end := firstOfThis.AddDate(0, 0, -1)
	return Range{Start: start.Format(ISOLayout), End: end.Format(ISOLayout)}
}

// ThisYear returns the range covering the calendar year containing now.
func ThisYear(now time.Time) Range {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, now.Location())
	return Range{Start: start.Format(ISOLayout), End: end.Format(ISOLayout)}
}

// LastYear returns the range covering the calendar year before now's.
func LastYear(now time.Time) Range {
	start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, now.Location())
	return Range{Start: start.Format(ISOLayout), End: end.Format(ISOLayout)}
}
