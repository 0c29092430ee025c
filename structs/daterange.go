package structs

import (
	"errors"
	"time"
)

// DateLayout is the calendar date format used for ranges.
const DateLayout = "2006-01-02"

// DateRange is an inclusive calendar date range.
type DateRange struct {
	StartDate string `bson:"start_date" json:"startDate"`
	EndDate   string `bson:"end_date" json:"endDate"`
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Bounds returns the parsed range. ok is false when the range is absent,
// incomplete or unparseable.
func (r *DateRange) Bounds() (start, end time.Time, ok bool) {
	if r == nil || r.StartDate == "" || r.EndDate == "" {
		return time.Time{}, time.Time{}, false
	}
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err = ParseDate(r.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// Range errors.
var (
	ErrInvalidDate  = errors.New("dates must be in YYYY-MM-DD format")
	ErrInvertedDate = errors.New("end date must not be before start date")
	ErrEmptyRange   = errors.New("start date must be before end date")
)

// Validate checks the date format and ordering. With strict set the end
// must fall after the start; otherwise equal dates are accepted.
func (r DateRange) Validate(strict bool) error {
	start, err := ParseDate(r.StartDate)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := ParseDate(r.EndDate)
	if err != nil {
		return ErrInvalidDate
	}
	if strict && !start.Before(end) {
		return ErrEmptyRange
	}
	if end.Before(start) {
		return ErrInvertedDate
	}
	return nil
}
