package timerange

import (
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrInvalidRange  = errors.New("start time must be before end time")
	ErrInvalidWindow = errors.New("invalid operating window")
	ErrSlotAlignment = errors.New("slot duration must evenly divide the operating window")
)

// Range is a half-open interval [Start, End)
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func New(start, end time.Time) (Range, error) {
	r := Range{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate rejects zero-length and inverted ranges
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidRange)
	}
	if !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps is the standard half-open overlap test
func (r Range) Overlaps(o Range) bool {
	return Overlaps(r.Start, r.End, o.Start, o.End)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

func (r Range) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Hours returns the exact duration in hours as a rational
func (r Range) Hours() *big.Rat {
	return new(big.Rat).SetFrac64(int64(r.Duration()), int64(time.Hour))
}

// DayWindow returns [date openHour:00, date closeHour:00) in loc
func DayWindow(date time.Time, openHour, closeHour int, loc *time.Location) (Range, error) {
	if openHour < 0 || closeHour > 24 || openHour >= closeHour {
		return Range{}, fmt.Errorf("%w: %02d:00-%02d:00", ErrInvalidWindow, openHour, closeHour)
	}
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := date.In(loc).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, loc)

	return Range{
		Start: day.Add(time.Duration(openHour) * time.Hour),
		End:   day.Add(time.Duration(closeHour) * time.Hour),
	}, nil
}

// Tile splits the range into fixed-size contiguous slots. The slot size must
// divide the range exactly.
func (r Range) Tile(slot time.Duration) ([]Range, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if slot <= 0 || r.Duration()%slot != 0 {
		return nil, fmt.Errorf("%w: %s into %s", ErrSlotAlignment, slot, r.Duration())
	}

	slots := make([]Range, 0, int(r.Duration()/slot))
	for cur := r.Start; cur.Before(r.End); cur = cur.Add(slot) {
		slots = append(slots, Range{Start: cur, End: cur.Add(slot)})
	}
	return slots, nil
}

// Date truncates t to midnight in its own location
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
