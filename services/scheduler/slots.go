package scheduler

import (
	"errors"
	"fmt"
	"time"
)

// Config carries the working-hours window and slot rules. It is passed in at
// construction; the scheduler never reads ambient process state.
type Config struct {
	OpenHour    int           // first bookable hour, inclusive (e.g. 8)
	CloseHour   int           // closing hour, exclusive (e.g. 18)
	Interval    time.Duration // slot granularity (e.g. 30m)
	MinGap      time.Duration // minimum separation between bookings (e.g. 1h)
	LabelLayout string        // time layout for slot labels (e.g. "15:04")
}

// DefaultConfig is the operating window the shop runs on.
var DefaultConfig = Config{
	OpenHour:    8,
	CloseHour:   18,
	Interval:    30 * time.Minute,
	MinGap:      time.Hour,
	LabelLayout: "15:04",
}

// ErrInvalidDate is returned when the requested date is missing or not in
// "2006-01-02" form.
var ErrInvalidDate = errors.New("invalid or missing date")

// ErrUnknownSlot is returned when a slot label does not belong to the
// calendar for the configured window.
var ErrUnknownSlot = errors.New("slot is not within operating hours")

// Calendar generates the bookable slot labels for a day. Output depends only
// on the configuration: deterministic, strictly increasing, no duplicates.
type Calendar struct {
	cfg Config
}

// NewCalendar returns a calendar for the given configuration.
func NewCalendar(cfg Config) Calendar {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig.Interval
	}
	if cfg.LabelLayout == "" {
		cfg.LabelLayout = DefaultConfig.LabelLayout
	}
	return Calendar{cfg: cfg}
}

// Config returns the calendar's configuration.
func (c Calendar) Config() Config {
	return c.cfg
}

// Slots returns every slot label within operating hours, in order. The
// closing hour itself is not a slot.
func (c Calendar) Slots() []string {
	open := time.Duration(c.cfg.OpenHour) * time.Hour
	close := time.Duration(c.cfg.CloseHour) * time.Hour

	var slots []string
	for t := open; t < close; t += c.cfg.Interval {
		slots = append(slots, c.label(t))
	}
	return slots
}

// SlotOffset parses a slot label into its offset from midnight.
func (c Calendar) SlotOffset(label string) (time.Duration, error) {
	t, err := time.Parse(c.cfg.LabelLayout, label)
	if err != nil {
		return 0, fmt.Errorf("unparsable slot label %q: %w", label, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// SlotTime resolves a date and slot label to a wall-clock time in the local
// operating timezone.
func (c Calendar) SlotTime(date, label string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	offset, err := c.SlotOffset(label)
	if err != nil {
		return time.Time{}, ErrUnknownSlot
	}
	return day.Add(offset), nil
}

func (c Calendar) label(offset time.Duration) string {
	base := time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(offset).Format(c.cfg.LabelLayout)
}
